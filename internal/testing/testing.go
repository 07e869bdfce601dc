// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/services"
)

// MockAPI is a scriptable test double for [services.CurriculumAPI]. Zero-value
// methods return empty results; assign the corresponding func field to script
// behavior.
type MockAPI struct {
	ClassesFunc        func(ctx context.Context) ([]models.ClassLevel, error)
	SubjectsFunc       func(ctx context.Context, classID string) ([]models.Subject, error)
	UnitsFunc          func(ctx context.Context, subjectID string) ([]models.Unit, error)
	SubUnitsFunc       func(ctx context.Context, unitID string) ([]models.SubUnit, error)
	LessonsFunc        func(ctx context.Context, subUnitID string) ([]models.Lesson, error)
	ContentsFunc       func(ctx context.Context, lessonID string) ([]models.ContentItem, error)
	UploadContentFunc  func(ctx context.Context, up services.ContentUpload, onProgress services.TransferProgress) error
	SignUploadFunc     func(ctx context.Context, req services.SignRequest) (*services.UploadSignature, error)
	SaveCloudAssetFunc func(ctx context.Context, rec services.CloudAssetRecord) error
}

var _ services.CurriculumAPI = (*MockAPI)(nil)

func (m *MockAPI) Classes(ctx context.Context) ([]models.ClassLevel, error) {
	if m.ClassesFunc != nil {
		return m.ClassesFunc(ctx)
	}
	return []models.ClassLevel{}, nil
}

func (m *MockAPI) Subjects(ctx context.Context, classID string) ([]models.Subject, error) {
	if m.SubjectsFunc != nil {
		return m.SubjectsFunc(ctx, classID)
	}
	return []models.Subject{}, nil
}

func (m *MockAPI) Units(ctx context.Context, subjectID string) ([]models.Unit, error) {
	if m.UnitsFunc != nil {
		return m.UnitsFunc(ctx, subjectID)
	}
	return []models.Unit{}, nil
}

func (m *MockAPI) SubUnits(ctx context.Context, unitID string) ([]models.SubUnit, error) {
	if m.SubUnitsFunc != nil {
		return m.SubUnitsFunc(ctx, unitID)
	}
	return []models.SubUnit{}, nil
}

func (m *MockAPI) Lessons(ctx context.Context, subUnitID string) ([]models.Lesson, error) {
	if m.LessonsFunc != nil {
		return m.LessonsFunc(ctx, subUnitID)
	}
	return []models.Lesson{}, nil
}

func (m *MockAPI) Contents(ctx context.Context, lessonID string) ([]models.ContentItem, error) {
	if m.ContentsFunc != nil {
		return m.ContentsFunc(ctx, lessonID)
	}
	return []models.ContentItem{}, nil
}

func (m *MockAPI) UploadContent(ctx context.Context, up services.ContentUpload, onProgress services.TransferProgress) error {
	if m.UploadContentFunc != nil {
		return m.UploadContentFunc(ctx, up, onProgress)
	}
	return nil
}

func (m *MockAPI) SignUpload(ctx context.Context, req services.SignRequest) (*services.UploadSignature, error) {
	if m.SignUploadFunc != nil {
		return m.SignUploadFunc(ctx, req)
	}
	return &services.UploadSignature{}, nil
}

func (m *MockAPI) SaveCloudAsset(ctx context.Context, rec services.CloudAssetRecord) error {
	if m.SaveCloudAssetFunc != nil {
		return m.SaveCloudAssetFunc(ctx, rec)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
