package main

import (
	"context"
	"fmt"

	"github.com/rpaulsen/lectern/internal/formatter"
	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/shared"
	"github.com/urfave/cli/v3"
)

// BrowseClasses lists the top-level classes.
func (r *Runner) BrowseClasses(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("fetching classes")

	classes, err := r.cms.Classes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch classes: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(classes, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Classes")
	for _, c := range classes {
		r.writePlain("%s  %s\n", c.ID, c.Name)
	}
	return nil
}

// BrowseSubjects lists the subjects under a class.
func (r *Runner) BrowseSubjects(ctx context.Context, cmd *cli.Command) error {
	classID := cmd.StringArg("class-id")
	if classID == "" {
		return fmt.Errorf("%w: class-id is required", shared.ErrMissingArgument)
	}

	subjects, err := r.cms.Subjects(ctx, classID)
	if err != nil {
		return fmt.Errorf("failed to fetch subjects: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(subjects, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Subjects in class %s", classID))
	for _, s := range subjects {
		r.writePlain("%s  %s\n", s.ID, s.Name)
	}
	return nil
}

// BrowseUnits lists the units under a subject.
func (r *Runner) BrowseUnits(ctx context.Context, cmd *cli.Command) error {
	subjectID := cmd.StringArg("subject-id")
	if subjectID == "" {
		return fmt.Errorf("%w: subject-id is required", shared.ErrMissingArgument)
	}

	units, err := r.cms.Units(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("failed to fetch units: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(units, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Units in subject %s", subjectID))
	for _, u := range units {
		r.writePlain("%d. %s  %s\n", u.Position, u.ID, u.Name)
	}
	return nil
}

// BrowseSubUnits lists the sub-units under a unit.
func (r *Runner) BrowseSubUnits(ctx context.Context, cmd *cli.Command) error {
	unitID := cmd.StringArg("unit-id")
	if unitID == "" {
		return fmt.Errorf("%w: unit-id is required", shared.ErrMissingArgument)
	}

	subUnits, err := r.cms.SubUnits(ctx, unitID)
	if err != nil {
		return fmt.Errorf("failed to fetch sub-units: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(subUnits, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Sub-units in unit %s", unitID))
	for _, s := range subUnits {
		r.writePlain("%d. %s  %s\n", s.Position, s.ID, s.Name)
	}
	return nil
}

// BrowseLessons lists the lessons under a sub-unit.
func (r *Runner) BrowseLessons(ctx context.Context, cmd *cli.Command) error {
	subUnitID := cmd.StringArg("subunit-id")
	if subUnitID == "" {
		return fmt.Errorf("%w: subunit-id is required", shared.ErrMissingArgument)
	}

	lessons, err := r.cms.Lessons(ctx, subUnitID)
	if err != nil {
		return fmt.Errorf("failed to fetch lessons: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(lessons, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Lessons in sub-unit %s", subUnitID))
	for _, l := range lessons {
		r.writePlain("%d. %s  %s\n", l.Position, l.ID, l.Name)
	}
	return nil
}

// BrowseContents lists the content items attached to a lesson, optionally
// writing a markdown manifest of the lesson to disk.
func (r *Runner) BrowseContents(ctx context.Context, cmd *cli.Command) error {
	lessonID := cmd.StringArg("lesson-id")
	if lessonID == "" {
		return fmt.Errorf("%w: lesson-id is required", shared.ErrMissingArgument)
	}

	contents, err := r.cms.Contents(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("failed to fetch contents: %w", err)
	}

	if manifestDir := cmd.String("manifest"); manifestDir != "" {
		lesson := models.Lesson{ID: lessonID, Name: lessonID}
		path, err := formatter.WriteMarkdownExport(lesson, contents, manifestDir)
		if err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		r.writePlain("✓ Manifest written to %s\n", path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(contents, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Contents of lesson %s", lessonID))
	for i, c := range contents {
		r.writePlain("%d. [%s] %s (%s)\n", i+1, c.Category, c.Title, shared.FormatBytes(c.Size))
		if c.FileURL != "" {
			r.writePlain("   %s\n", c.FileURL)
		}
	}
	return nil
}
