package queue

import (
	"context"
	"fmt"

	"github.com/rpaulsen/lectern/internal/services"
)

// localTransferCap is where raw transfer progress tops out for the local
// pipeline. The last five points are reserved for server-side persistence;
// the processor sets 100 atomically on settlement.
const localTransferCap = 95

// ContentUploader is the slice of the CMS client the local strategy needs.
type ContentUploader interface {
	UploadContent(ctx context.Context, up services.ContentUpload, onProgress services.TransferProgress) error
}

// LocalStrategy uploads server-stored categories (book, worksheet, slide,
// exam) in a single multipart request to the CMS upload endpoint.
type LocalStrategy struct {
	api ContentUploader
}

// NewLocalStrategy creates a LocalStrategy backed by the given CMS client.
func NewLocalStrategy(api ContentUploader) *LocalStrategy {
	return &LocalStrategy{api: api}
}

var _ Strategy = (*LocalStrategy)(nil)

// Upload submits the task's payload as one multipart request, mapping raw
// transfer bytes linearly onto 0–95. The CMS stores the file itself, so there
// is no provider result to return.
func (s *LocalStrategy) Upload(ctx context.Context, t Task, report ReportFunc) (*Result, error) {
	if t.Payload == nil {
		return nil, fmt.Errorf("task %s has no payload", t.ID)
	}

	file, err := t.Payload.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	up := services.ContentUpload{
		File:     file,
		FileName: t.Payload.Name(),
		Size:     t.Payload.Size(),
		LessonID: t.Dest.LessonID,
		Category: t.Category.String(),
		Title:    t.Dest.Title,
		Folder:   t.Dest.Folder,
		ExamKind: t.Dest.ExamKind,
	}

	return nil, s.api.UploadContent(ctx, up, scaleBytes(report, localTransferCap))
}

// scaleBytes returns a TransferProgress mapping raw transfer bytes linearly
// onto [0, limit] percent.
func scaleBytes(report ReportFunc, limit int) services.TransferProgress {
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := int(sent * int64(limit) / total)
		if pct > limit {
			pct = limit
		}
		report(pct)
	}
}
