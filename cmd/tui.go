package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/queue"
	"github.com/rpaulsen/lectern/internal/shared"
	"github.com/rpaulsen/lectern/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive queue monitor. With --dir and --lesson it
// bulk-enqueues a directory first, then drains the queue in the background
// while the monitor renders progress.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.cms == nil {
		return fmt.Errorf("%w: CMS client not initialized", shared.ErrServiceUnavailable)
	}

	if dir := cmd.String("dir"); dir != "" {
		lesson := cmd.String("lesson")
		if lesson == "" {
			return fmt.Errorf("%w: --lesson is required with --dir", shared.ErrMissingArgument)
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
			LessonID: lesson,
			Category: category,
			Folder:   cmd.String("folder"),
		})
		if err != nil {
			return err
		}
		r.logger.Info("enqueued directory", "dir", dir, "tasks", len(result.TaskIDs), "skipped", len(result.Skipped))
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Upload.LogPath
	if logPath == "" {
		logPath = "./tmp/lectern-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	processor := r.newProcessor(queue.NopNotifier{})
	hook, closeHistory := r.historyHook()
	defer closeHistory()
	if hook != nil {
		processor.OnContentChanged(hook)
	}
	go processor.Run(runCtx)

	model := ui.NewModel(runCtx, r.store)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
