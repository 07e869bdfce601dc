package queue

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/rpaulsen/lectern/internal/shared"
)

// ReportFunc receives progress percentages from a strategy while its task is
// uploading. Implementations must tolerate repeated values.
type ReportFunc func(percent int)

// Result carries the provider-assigned coordinates of a successful upload.
// Only the signed-cloud pipeline produces one; local uploads return nil
// because the CMS stores the file itself.
type Result struct {
	FileURL  string
	PublicID string
}

// Strategy drives one task to completion or failure, emitting progress along
// the way. The local and signed-cloud pipelines both implement it.
type Strategy interface {
	Upload(ctx context.Context, t Task, report ReportFunc) (*Result, error)
}

// Notifier surfaces terminal task outcomes to the user-facing layer.
type Notifier interface {
	UploadCompleted(t Task)
	UploadFailed(t Task)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) UploadCompleted(Task) {}
func (NopNotifier) UploadFailed(Task)    {}

// Processor serially drains the store: it picks the oldest pending task,
// dispatches it to the strategy matching its category, and applies terminal
// status. A busy flag guarantees at most one task is ever uploading.
type Processor struct {
	store    *Store
	local    Strategy
	cloud    Strategy
	notifier Notifier
	logger   *log.Logger
	onChange []func(Task)
	busy     atomic.Bool
}

// ProcessorOpts contains configuration for creating a Processor.
type ProcessorOpts struct {
	Store    *Store
	Local    Strategy // strategy for server-stored categories
	Cloud    Strategy // strategy for provider-hosted categories
	Notifier Notifier
	Logger   *log.Logger
}

// NewProcessor creates a Processor over the given store and strategies.
func NewProcessor(opts ProcessorOpts) *Processor {
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Processor{
		store:    opts.Store,
		local:    opts.Local,
		cloud:    opts.Cloud,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
}

// OnContentChanged registers a hook fired after each successful upload, once
// the task is completed. Hooks run on the processor goroutine; keep them
// short or hand off.
func (p *Processor) OnContentChanged(fn func(Task)) {
	p.onChange = append(p.onChange, fn)
}

// Run drains the store whenever it changes, until ctx is cancelled. The
// initial drain covers tasks enqueued before Run started.
func (p *Processor) Run(ctx context.Context) error {
	p.Drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.store.Changes():
			p.Drain(ctx)
		}
	}
}

// Drain processes pending tasks in FIFO order until none remain. Reentrant
// calls return immediately while a drain is in progress; the active drain
// will pick up anything enqueued meanwhile.
func (p *Processor) Drain(ctx context.Context) {
	if !p.busy.CompareAndSwap(false, true) {
		return
	}
	defer p.busy.Store(false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		t, ok := p.store.claimNext()
		if !ok {
			return
		}
		p.runTask(ctx, t)
	}
}

// runTask executes one already-claimed task through its strategy and settles
// it. Strategy failures and panics are fully absorbed so the drain loop
// continues.
func (p *Processor) runTask(ctx context.Context, t Task) {
	p.logger.Info("upload started",
		"task", t.ID, "category", t.Category, "lesson", t.Dest.LessonID, "title", t.Dest.Title)

	last := 0
	report := func(percent int) {
		// progress never decreases and never reaches 100 before settlement
		if percent <= last {
			return
		}
		if percent > 99 {
			percent = 99
		}
		last = percent
		p.store.Patch(t.ID, Patch{Progress: &percent})
	}

	res, err := p.dispatch(ctx, t, report)

	if err != nil {
		status := StatusError
		msg := err.Error()
		if msg == "" {
			msg = "upload failed"
		}
		p.store.Patch(t.ID, Patch{Status: &status, Err: &msg})
		p.logger.Error("upload failed", "task", t.ID, "err", msg)

		if settled, ok := p.store.Get(t.ID); ok {
			p.notifier.UploadFailed(settled)
		}
		return
	}

	status := StatusCompleted
	full := 100
	patch := Patch{Status: &status, Progress: &full}
	if res != nil {
		patch.FileURL = &res.FileURL
		patch.PublicID = &res.PublicID
	}
	p.store.Patch(t.ID, patch)
	p.logger.Info("upload completed", "task", t.ID, "title", t.Dest.Title)

	settled, ok := p.store.Get(t.ID)
	if !ok {
		settled = t
		settled.Status = StatusCompleted
		settled.Progress = 100
		if res != nil {
			settled.FileURL = res.FileURL
			settled.PublicID = res.PublicID
		}
	}
	p.notifier.UploadCompleted(settled)
	for _, fn := range p.onChange {
		fn(settled)
	}
}

// dispatch routes the task to the strategy for its category, converting any
// strategy panic into an error.
func (p *Processor) dispatch(ctx context.Context, t Task, report ReportFunc) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("upload strategy panicked: %v", r)
		}
	}()

	if t.Category.IsCloudHosted() {
		if p.cloud == nil {
			return nil, fmt.Errorf("%w: no cloud upload strategy configured", shared.ErrServiceUnavailable)
		}
		return p.cloud.Upload(ctx, t, report)
	}
	if p.local == nil {
		return nil, fmt.Errorf("%w: no local upload strategy configured", shared.ErrServiceUnavailable)
	}
	return p.local.Upload(ctx, t, report)
}
