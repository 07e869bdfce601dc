package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpaulsen/lectern/internal/queue"
)

// pollInterval is how often the monitor snapshots the queue store.
const pollInterval = 200 * time.Millisecond

type tickMsg time.Time

// Model represents the queue monitor's state.
type Model struct {
	ctx      context.Context
	store    *queue.Store
	width    int
	height   int
	taskList list.Model
	bar      progress.Model
	help     help.Model
	keys     keyMap
}

// NewModel creates a queue monitor over the given store.
func NewModel(ctx context.Context, store *queue.Store) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Upload Queue"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return &Model{
		ctx:      ctx,
		store:    store,
		taskList: l,
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the store polling loop.
func (m *Model) Init() tea.Cmd {
	m.refresh()
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.taskList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.remove):
			if item, ok := m.taskList.SelectedItem().(taskItem); ok {
				// refused for the task currently uploading
				m.store.Remove(item.task.ID)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.clear):
			m.store.ClearCompleted()
			m.refresh()
			return m, nil
		}

	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		m.refresh()
		return m, tick()
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// refresh replaces the list items with a fresh store snapshot, keeping the
// cursor in place.
func (m *Model) refresh() {
	tasks := m.store.Tasks()
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t}
	}
	m.taskList.SetItems(items)
}

// View renders the task list, the active transfer bar, and a summary line.
func (m *Model) View() string {
	active, summary := m.snapshot()

	var bar string
	if active != nil {
		bar = fmt.Sprintf("\n%s\n%s\n",
			styles.warn.Render(fmt.Sprintf("Uploading: %s", active.Dest.Title)),
			m.bar.ViewAs(float64(active.Progress)/100))
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	return fmt.Sprintf("%s\n%s%s\n\n%s", m.taskList.View(), bar, summary, helpView)
}

// snapshot derives the active task and a status summary from the store.
func (m *Model) snapshot() (*queue.Task, string) {
	var active *queue.Task
	var pending, completed, failed int

	for _, t := range m.store.Tasks() {
		switch t.Status {
		case queue.StatusUploading:
			u := t
			active = &u
		case queue.StatusPending:
			pending++
		case queue.StatusCompleted:
			completed++
		case queue.StatusError:
			failed++
		}
	}

	summary := fmt.Sprintf("%d pending • %s • %s",
		pending,
		styles.ok.Render(fmt.Sprintf("%d completed", completed)),
		styles.err.Render(fmt.Sprintf("%d failed", failed)))

	return active, summary
}
