// package services defines HTTP clients for the curriculum CMS and the
// storage provider
package services

import (
	"context"
	"io"
	"strings"

	"github.com/rpaulsen/lectern/internal/models"
)

// TransferProgress observes raw byte-level transfer progress. The transport
// guarantees monotonically increasing sent counts for a single request.
type TransferProgress func(sent, total int64)

// UploadFile is a binary streamed into a multipart request.
type UploadFile struct {
	Reader io.Reader
	Name   string
	Size   int64
}

// ContentUpload describes a server-stored content upload to the CMS.
type ContentUpload struct {
	File     io.Reader
	FileName string
	Size     int64
	LessonID string
	Category string
	Title    string
	Folder   string
	ExamKind string
}

// SignRequest asks the CMS for a short-lived direct-upload authorization.
type SignRequest struct {
	LessonID string `json:"lessonId"`
	Category string `json:"category"`
	Title    string `json:"title"`
	MimeType string `json:"mimeType"`
}

// UploadSignature is the CMS's upload authorization: everything the client
// needs to push one object directly to the storage provider.
type UploadSignature struct {
	Signature   string `json:"signature"`
	Timestamp   int64  `json:"timestamp"`
	AccountName string `json:"accountName"`
	APIKey      string `json:"apiKey"`
	Folder      string `json:"folder"`
	PublicID    string `json:"public_id"`
}

// CloudUploadResult is the storage provider's response to a successful upload.
type CloudUploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Bytes     int64  `json:"bytes"`
}

// CloudAssetRecord records a provider-hosted asset back at the CMS after a
// successful direct upload.
type CloudAssetRecord struct {
	LessonID     string `json:"lessonId"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	FileURL      string `json:"fileUrl"`
	PublicID     string `json:"publicId"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	ResourceType string `json:"resourceType"`
}

// CurriculumAPI is the CMS client surface consumed by the rest of the
// application. [ClassroomService] is the concrete implementation.
type CurriculumAPI interface {
	// Hierarchy reads
	Classes(ctx context.Context) ([]models.ClassLevel, error)
	Subjects(ctx context.Context, classID string) ([]models.Subject, error)
	Units(ctx context.Context, subjectID string) ([]models.Unit, error)
	SubUnits(ctx context.Context, unitID string) ([]models.SubUnit, error)
	Lessons(ctx context.Context, subUnitID string) ([]models.Lesson, error)
	Contents(ctx context.Context, lessonID string) ([]models.ContentItem, error)

	// Upload pipeline
	UploadContent(ctx context.Context, up ContentUpload, onProgress TransferProgress) error
	SignUpload(ctx context.Context, req SignRequest) (*UploadSignature, error)
	SaveCloudAsset(ctx context.Context, rec CloudAssetRecord) error
}

// ResourceTypeFor maps a MIME hint onto the storage provider's resource-type
// path segment. The provider files audio under video; the signed pipeline
// only carries audio/video so the default is video.
func ResourceTypeFor(mime string) string {
	switch {
	case mime == "":
		return "video"
	case strings.HasPrefix(mime, "video/"), strings.HasPrefix(mime, "audio/"):
		return "video"
	case strings.HasPrefix(mime, "image/"):
		return "image"
	default:
		return "raw"
	}
}
