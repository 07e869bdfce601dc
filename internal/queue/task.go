package queue

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rpaulsen/lectern/internal/models"
)

// Status is the lifecycle state of a queued upload.
//
// Transitions: pending → uploading → completed | error. Completed and error
// are terminal; a failed upload is retried by enqueueing a fresh task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Terminal reports whether no further transition can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Destination locates where a content item attaches in the curriculum
// hierarchy, plus category-specific extras.
type Destination struct {
	LessonID string // leaf node the content attaches to
	Title    string // display title
	Folder   string // optional sub-folder for server-stored categories
	ExamKind string // optional exam category metadata
}

// Payload is the binary to transfer. Implementations must allow Open to be
// called more than once so a payload can be re-enqueued after a failure.
type Payload interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// FilePayload is a Payload backed by a file on disk.
type FilePayload struct {
	Path string
}

func (p FilePayload) Name() string { return filepath.Base(p.Path) }

func (p FilePayload) Size() int64 {
	info, err := os.Stat(p.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (p FilePayload) Open() (io.ReadCloser, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	return f, nil
}

// BytesPayload is an in-memory Payload, used by tests and piped input.
type BytesPayload struct {
	FileName string
	Data     []byte
}

func (p BytesPayload) Name() string { return p.FileName }
func (p BytesPayload) Size() int64  { return int64(len(p.Data)) }

func (p BytesPayload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.Data)), nil
}

// Task is one queued upload's complete state. Tasks are created by Store.Enqueue
// and mutated only through Store.Patch; consumers observe copies.
type Task struct {
	ID         string
	Category   models.ContentCategory
	Payload    Payload
	Status     Status
	Progress   int    // 0–100, meaningful while uploading; frozen on error
	Err        string // populated only when Status == StatusError
	Dest       Destination
	MimeType   string // hint used by the signed-cloud pipeline to pick its endpoint
	FileURL    string // provider URL, set on completion of a signed-cloud upload
	PublicID   string // provider asset id, set alongside FileURL
	EnqueuedAt time.Time
}

// Spec describes a task to enqueue. Category, Payload, Dest.LessonID, and
// Dest.Title are required; the store does not validate beyond presence.
type Spec struct {
	Category models.ContentCategory
	Payload  Payload
	Dest     Destination
	MimeType string
}

// Patch names the task fields a mutation replaces; nil fields are untouched.
type Patch struct {
	Status   *Status
	Progress *int
	Err      *string
	FileURL  *string
	PublicID *string
}
