package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/queue"
	"github.com/rpaulsen/lectern/internal/repositories"
	"github.com/rpaulsen/lectern/internal/services"
	"github.com/rpaulsen/lectern/internal/shared"
	tu "github.com/rpaulsen/lectern/internal/testing"
)

// testRunner builds a Runner over a mock CMS client with history disabled.
func testRunner(cms services.CurriculumAPI) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	config := shared.DefaultConfig()
	config.Database.Path = ""

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Classroom: cms,
		Host:      services.NewCloudinaryService("", nil),
		Output:    output,
	})
	return runner, output
}

func TestDrain(t *testing.T) {
	t.Run("reports completed uploads", func(t *testing.T) {
		cms := &tu.MockAPI{}
		runner, output := testRunner(cms)

		runner.store.Enqueue(queue.Spec{
			Category: models.CategoryBook,
			Payload:  queue.BytesPayload{FileName: "notes.pdf", Data: []byte("pdf")},
			Dest:     queue.Destination{LessonID: "lesson-1", Title: "Notes"},
		})

		if err := runner.drain(context.Background(), ""); err != nil {
			t.Fatalf("drain failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "✓ Notes uploaded to lesson lesson-1") {
			t.Errorf("expected completion notice, got %q", result)
		}
		if !strings.Contains(result, "1 uploaded, 0 failed") {
			t.Errorf("expected summary line, got %q", result)
		}
	})

	t.Run("reports failures and returns an error", func(t *testing.T) {
		cms := &tu.MockAPI{
			UploadContentFunc: func(ctx context.Context, up services.ContentUpload, onProgress services.TransferProgress) error {
				return fmt.Errorf("disk full")
			},
		}
		runner, output := testRunner(cms)

		runner.store.Enqueue(queue.Spec{
			Category: models.CategoryBook,
			Payload:  queue.BytesPayload{FileName: "notes.pdf", Data: []byte("pdf")},
			Dest:     queue.Destination{LessonID: "lesson-1", Title: "Notes"},
		})

		err := runner.drain(context.Background(), "")
		if err == nil {
			t.Fatal("expected error when an upload fails")
		}

		result := output.String()
		if !strings.Contains(result, "✗ Notes failed: disk full") {
			t.Errorf("expected failure notice, got %q", result)
		}
		if !strings.Contains(result, "0 uploaded, 1 failed") {
			t.Errorf("expected summary line, got %q", result)
		}
	})

	t.Run("continues past a failure", func(t *testing.T) {
		var calls int
		cms := &tu.MockAPI{
			UploadContentFunc: func(ctx context.Context, up services.ContentUpload, onProgress services.TransferProgress) error {
				calls++
				if up.Title == "Bad" {
					return fmt.Errorf("rejected")
				}
				return nil
			},
		}
		runner, output := testRunner(cms)

		for _, title := range []string{"Bad", "Good"} {
			runner.store.Enqueue(queue.Spec{
				Category: models.CategoryBook,
				Payload:  queue.BytesPayload{FileName: "f.pdf", Data: []byte("pdf")},
				Dest:     queue.Destination{LessonID: "lesson-1", Title: title},
			})
		}

		if err := runner.drain(context.Background(), ""); err == nil {
			t.Fatal("expected error when any upload fails")
		}

		if calls != 2 {
			t.Errorf("strategy called %d times, want 2", calls)
		}
		if !strings.Contains(output.String(), "1 uploaded, 1 failed") {
			t.Errorf("expected summary line, got %q", output.String())
		}
	})

	t.Run("records the provider URL in the history catalog", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"secure_url": "https://res.example.com/intro.mp4",
				"public_id":  "lessons/intro",
				"bytes":      3,
			})
		}))
		defer provider.Close()

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "history.db")

		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			t.Fatalf("failed to create history database: %v", err)
		}
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			t.Fatalf("failed to run migrations: %v", err)
		}
		db.Close()

		runner := NewRunner(RunnerOpts{
			Config:    config,
			Classroom: &tu.MockAPI{},
			Host:      services.NewCloudinaryService(provider.URL, nil),
			Output:    &bytes.Buffer{},
		})

		runner.store.Enqueue(queue.Spec{
			Category: models.CategoryVideo,
			Payload:  queue.BytesPayload{FileName: "intro.mp4", Data: []byte("mp4")},
			Dest:     queue.Destination{LessonID: "lesson-1", Title: "Intro"},
			MimeType: "video/mp4",
		})

		if err := runner.drain(context.Background(), ""); err != nil {
			t.Fatalf("drain failed: %v", err)
		}

		db, err = shared.NewDatabase(config.Database.Path)
		if err != nil {
			t.Fatalf("failed to reopen history database: %v", err)
		}
		defer db.Close()

		records, err := repositories.NewUploadRecordRepository(db).List(nil)
		if err != nil {
			t.Fatalf("failed to list history: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 history record, got %d", len(records))
		}
		if records[0].FileURL != "https://res.example.com/intro.mp4" {
			t.Errorf("record FileURL = %q, want the provider URL", records[0].FileURL)
		}
		if records[0].PublicID != "lessons/intro" {
			t.Errorf("record PublicID = %q, want lessons/intro", records[0].PublicID)
		}
	})

	t.Run("writes a run manifest when requested", func(t *testing.T) {
		cms := &tu.MockAPI{}
		runner, _ := testRunner(cms)

		runner.store.Enqueue(queue.Spec{
			Category: models.CategoryBook,
			Payload:  queue.BytesPayload{FileName: "notes.pdf", Data: []byte("pdf")},
			Dest:     queue.Destination{LessonID: "lesson-1", Title: "Notes"},
		})

		base := filepath.Join(t.TempDir(), "run")
		if err := runner.drain(context.Background(), base); err != nil {
			t.Fatalf("drain failed: %v", err)
		}

		tu.AssertFileExists(t, base+"_history.csv")
		tu.AssertFileExists(t, base+"_summary.json")

		csv := tu.MustReadFile(t, base+"_history.csv")
		if !strings.Contains(csv, "Notes") {
			t.Errorf("expected manifest to include the upload title, got %q", csv)
		}
	})
}

func TestMimeTypeFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"lecture.mp4", "video/mp4"},
		{"notes.pdf", "application/pdf"},
		{"mystery.xyz", ""},
	}

	for _, tc := range cases {
		if got := mimeTypeFor(tc.path); got != tc.want {
			t.Errorf("mimeTypeFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
