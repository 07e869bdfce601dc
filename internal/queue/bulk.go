package queue

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpaulsen/lectern/internal/models"
)

// BulkEnqueueOpts configures a directory-wide enqueue.
type BulkEnqueueOpts struct {
	Dir      string                 // directory to scan (non-recursive)
	LessonID string                 // lesson every file attaches to
	Category models.ContentCategory // applied to every file; empty infers per file
	Folder   string                 // optional sub-folder for server-stored categories
}

// BulkEnqueueResult summarizes a bulk enqueue: which files became tasks and
// which were skipped.
type BulkEnqueueResult struct {
	TaskIDs []string
	Skipped []string // file names with no usable category
}

// categoryForFile infers a content category from the file extension: media
// extensions map to the provider-hosted categories, documents to book.
func categoryForFile(name string) (models.ContentCategory, bool) {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return models.CategoryVideo, true
	case strings.HasPrefix(mimeType, "audio/"):
		return models.CategoryAudio, true
	case mimeType == "application/pdf", strings.HasPrefix(mimeType, "text/"):
		return models.CategoryBook, true
	default:
		return "", false
	}
}

// BulkEnqueue scans a directory and enqueues one task per usable file. Files
// whose category cannot be determined (and none was forced) are skipped, not
// failed: the queue only ever holds tasks that can be dispatched.
func BulkEnqueue(store *Store, opts BulkEnqueueOpts) (*BulkEnqueueResult, error) {
	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &BulkEnqueueResult{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		category := opts.Category
		if category == "" {
			inferred, ok := categoryForFile(name)
			if !ok {
				result.Skipped = append(result.Skipped, name)
				continue
			}
			category = inferred
		}

		title := strings.TrimSuffix(name, filepath.Ext(name))
		id := store.Enqueue(Spec{
			Category: category,
			Payload:  FilePayload{Path: filepath.Join(opts.Dir, name)},
			Dest: Destination{
				LessonID: opts.LessonID,
				Title:    title,
				Folder:   opts.Folder,
			},
			MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(name))),
		})
		result.TaskIDs = append(result.TaskIDs, id)
	}

	return result, nil
}
