package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/rpaulsen/lectern/internal/queue"
)

var _ list.Item = taskItem{}

// taskItem wraps [queue.Task] to implement [list.Item].
type taskItem struct {
	task queue.Task
}

func (i taskItem) FilterValue() string { return i.task.Dest.Title }
func (i taskItem) Title() string {
	return fmt.Sprintf("[%s] %s", i.task.Category, i.task.Dest.Title)
}

func (i taskItem) Description() string {
	switch i.task.Status {
	case queue.StatusUploading:
		return fmt.Sprintf("uploading %d%% • %s", i.task.Progress, i.task.Payload.Name())
	case queue.StatusError:
		return fmt.Sprintf("failed • %s", i.task.Err)
	case queue.StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("pending • %s", i.task.Payload.Name())
	}
}
