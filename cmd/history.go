package main

import (
	"context"
	"fmt"

	"github.com/rpaulsen/lectern/internal/formatter"
	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/repositories"
	"github.com/rpaulsen/lectern/internal/shared"
	"github.com/urfave/cli/v3"
)

// openHistory opens the local catalog and returns the record repository plus
// a cleanup func.
func (r *Runner) openHistory() (*repositories.UploadRecordRepository, func(), error) {
	path := r.config.Database.Path
	if path == "" {
		return nil, nil, fmt.Errorf("%w: database.path is not configured", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return repositories.NewUploadRecordRepository(db), func() { db.Close() }, nil
}

// historyCriteria builds the repository filter from command flags.
func historyCriteria(cmd *cli.Command) (map[string]any, error) {
	criteria := map[string]any{}
	if lesson := cmd.String("lesson"); lesson != "" {
		criteria["lessonId"] = lesson
	}
	if raw := cmd.String("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		criteria["category"] = category.String()
	}
	return criteria, nil
}

// HistoryList lists recorded uploads from the local catalog.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, cleanup, err := r.openHistory()
	if err != nil {
		return err
	}
	defer cleanup()

	criteria, err := historyCriteria(cmd)
	if err != nil {
		return err
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list upload history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Upload history (%d records)", len(records)))
	var total int64
	for _, rec := range records {
		r.writePlain("%d. [%s] %s → lesson %s (%s)\n",
			rec.Sequence, rec.Category, rec.Title, rec.LessonID, shared.FormatBytes(rec.Size))
		total += rec.Size
	}
	if len(records) > 0 {
		r.writePlain("\nTotal: %s\n", shared.FormatBytes(total))
	}
	return nil
}

// HistoryExport exports the upload history to CSV or plain text.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	repo, cleanup, err := r.openHistory()
	if err != nil {
		return err
	}
	defer cleanup()

	criteria := map[string]any{}
	if lesson := cmd.String("lesson"); lesson != "" {
		criteria["lessonId"] = lesson
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list upload history: %w", err)
	}

	output := cmd.String("output")

	switch cmd.String("format") {
	case "csv":
		result, err := formatter.WriteCSVExport(records, output)
		if err != nil {
			return err
		}
		r.logger.Infof("exported %v records", len(records))
		r.writePlain("✓ History exported to %s\n", result.RecordsFile)
		r.writePlain("  Summary: %s\n", result.SummaryFile)
	case "text":
		path, err := formatter.WriteTextExport(records, output)
		if err != nil {
			return err
		}
		r.logger.Infof("exported %v records", len(records))
		r.writePlain("✓ History exported to %s\n", path)
	default:
		return fmt.Errorf("%w: format must be csv or text", shared.ErrInvalidFlag)
	}

	return nil
}
