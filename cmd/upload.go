package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpaulsen/lectern/internal/formatter"
	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/queue"
	"github.com/rpaulsen/lectern/internal/repositories"
	"github.com/rpaulsen/lectern/internal/shared"
	"github.com/urfave/cli/v3"
)

// cliNotifier prints terminal task outcomes as they settle.
type cliNotifier struct {
	r *Runner
}

func (n cliNotifier) UploadCompleted(t queue.Task) {
	n.r.writePlain("✓ %s uploaded to lesson %s\n", t.Dest.Title, t.Dest.LessonID)
}

func (n cliNotifier) UploadFailed(t queue.Task) {
	n.r.writePlain("✗ %s failed: %s\n", t.Dest.Title, t.Err)
}

// historyHook opens the local catalog and returns a processor hook that writes
// one upload record per completed task, plus a cleanup func. A missing or
// unconfigured database disables history without failing the upload.
func (r *Runner) historyHook() (func(queue.Task), func()) {
	path := r.config.Database.Path
	if path == "" {
		return nil, func() {}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		r.logger.Warn("upload history disabled", "error", err)
		return nil, func() {}
	}

	repo := repositories.NewUploadRecordRepository(db)
	hook := func(t queue.Task) {
		rec := &models.UploadRecord{
			LessonID: t.Dest.LessonID,
			Title:    t.Dest.Title,
			Category: t.Category,
			FileName: t.Payload.Name(),
			Size:     t.Payload.Size(),
			FileURL:  t.FileURL,
			PublicID: t.PublicID,
		}
		if err := repo.Create(rec); err != nil {
			r.logger.Warn("failed to record upload", "task", t.ID, "error", err)
		}
	}

	return hook, func() { db.Close() }
}

// drain runs a processor over the current queue until every task settles,
// then reports the outcome. A non-empty manifest base path writes a CSV
// summary of this run's completed uploads. Returns an error when any upload
// failed.
func (r *Runner) drain(ctx context.Context, manifest string) error {
	processor := r.newProcessor(cliNotifier{r: r})

	hook, closeHistory := r.historyHook()
	defer closeHistory()
	if hook != nil {
		processor.OnContentChanged(hook)
	}

	processor.Drain(ctx)

	var completed, failed int
	var records []*models.UploadRecord
	now := time.Now()
	for _, t := range r.store.Tasks() {
		switch t.Status {
		case queue.StatusCompleted:
			completed++
			records = append(records, &models.UploadRecord{
				RecordID: t.ID,
				Sequence: completed,
				LessonID: t.Dest.LessonID,
				Title:    t.Dest.Title,
				Category: t.Category,
				FileName: t.Payload.Name(),
				Size:     t.Payload.Size(),
				FileURL:  t.FileURL,
				PublicID: t.PublicID,
				Created:  now,
				Updated:  now,
			})
		case queue.StatusError:
			failed++
		}
	}

	if manifest != "" {
		result, err := formatter.WriteCSVExport(records, manifest)
		if err != nil {
			r.logger.Warn("failed to write manifest", "error", err)
		} else {
			r.writePlain("✓ Manifest written to %s\n", result.RecordsFile)
		}
	}

	r.writePlain("\n%d uploaded, %d failed\n", completed, failed)
	if failed > 0 {
		return fmt.Errorf("%d upload(s) failed", failed)
	}
	return nil
}

// UploadFile enqueues a single file and drains the queue.
func (r *Runner) UploadFile(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: file path is required", shared.ErrMissingArgument)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	category, err := models.ParseCategory(cmd.String("category"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	title := cmd.String("title")
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	id := r.store.Enqueue(queue.Spec{
		Category: category,
		Payload:  queue.FilePayload{Path: path},
		Dest: queue.Destination{
			LessonID: cmd.String("lesson"),
			Title:    title,
			Folder:   cmd.String("folder"),
			ExamKind: cmd.String("exam-kind"),
		},
		MimeType: mimeTypeFor(path),
	})

	r.logger.Info("enqueued upload", "task", id, "category", category, "file", path)
	r.writePlain("→ Uploading %s as %s...\n", filepath.Base(path), category)

	return r.drain(ctx, cmd.String("manifest"))
}

// UploadDir enqueues every usable file in a directory and drains the queue.
func (r *Runner) UploadDir(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.StringArg("path")
	if dir == "" {
		return fmt.Errorf("%w: directory path is required", shared.ErrMissingArgument)
	}

	var category models.ContentCategory
	if raw := cmd.String("category"); raw != "" {
		parsed, err := models.ParseCategory(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		category = parsed
	}

	result, err := queue.BulkEnqueue(r.store, queue.BulkEnqueueOpts{
		Dir:      dir,
		LessonID: cmd.String("lesson"),
		Category: category,
		Folder:   cmd.String("folder"),
	})
	if err != nil {
		return err
	}

	for _, name := range result.Skipped {
		r.writePlain("– skipping %s (unknown category)\n", name)
	}

	if len(result.TaskIDs) == 0 {
		r.writePlain("No uploadable files found in %s\n", dir)
		return nil
	}

	r.logger.Info("enqueued directory", "dir", dir, "tasks", len(result.TaskIDs), "skipped", len(result.Skipped))
	r.writePlain("→ Uploading %d file(s) from %s...\n", len(result.TaskIDs), dir)

	return r.drain(ctx, cmd.String("manifest"))
}

// mimeTypeFor returns the MIME hint for a file path, empty when unknown.
func mimeTypeFor(path string) string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
}
