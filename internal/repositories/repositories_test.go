package repositories

import (
	"database/sql"
	"testing"

	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testRecord() *models.UploadRecord {
	return &models.UploadRecord{
		LessonID: "lesson-1",
		Title:    "Chapter 1",
		Category: models.CategoryBook,
		FileName: "chapter1.pdf",
		Size:     2048,
	}
}

func TestUploadRecordRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUploadRecordRepository(db)
		rec := testRecord()

		if err := repo.Create(rec); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if rec.RecordID == "" {
			t.Error("record ID should be set after creation")
		}
		if rec.Sequence == 0 {
			t.Error("sequence should be assigned after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUploadRecordRepository(db)
		rec := testRecord()
		rec.FileURL = "https://res.example.com/vid.mp4"
		rec.PublicID = "vid_1"

		if err := repo.Create(rec); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		retrieved, err := repo.Get(rec.RecordID)
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}

		if retrieved.RecordID != rec.RecordID {
			t.Errorf("expected ID %s, got %s", rec.RecordID, retrieved.RecordID)
		}
		if retrieved.Category != models.CategoryBook {
			t.Errorf("expected category book, got %s", retrieved.Category)
		}
		if retrieved.FileURL != rec.FileURL || retrieved.PublicID != rec.PublicID {
			t.Errorf("asset fields lost: %+v", retrieved)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUploadRecordRepository(db)
		rec := testRecord()

		if err := repo.Create(rec); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		rec.Title = "Chapter 1 (revised)"
		if err := repo.Update(rec); err != nil {
			t.Fatalf("failed to update record: %v", err)
		}

		retrieved, err := repo.Get(rec.RecordID)
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}
		if retrieved.Title != "Chapter 1 (revised)" {
			t.Errorf("expected updated title, got %s", retrieved.Title)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUploadRecordRepository(db)
		rec := testRecord()

		if err := repo.Create(rec); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if err := repo.Delete(rec.RecordID); err != nil {
			t.Fatalf("failed to delete record: %v", err)
		}

		if _, err := repo.Get(rec.RecordID); err == nil {
			t.Error("expected error getting soft-deleted record")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUploadRecordRepository(db)

		first := testRecord()
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		second := testRecord()
		second.LessonID = "lesson-2"
		second.Title = "Intro Video"
		second.Category = models.CategoryVideo
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 records, got %d", len(all))
		}
		if all[0].Sequence > all[1].Sequence {
			t.Error("records should be ordered by sequence")
		}

		byLesson, err := repo.List(map[string]any{"lessonId": "lesson-2"})
		if err != nil {
			t.Fatalf("failed to list by lesson: %v", err)
		}
		if len(byLesson) != 1 || byLesson[0].Title != "Intro Video" {
			t.Errorf("unexpected lesson filter result: %+v", byLesson)
		}

		byCategory, err := repo.List(map[string]any{"category": "book"})
		if err != nil {
			t.Fatalf("failed to list by category: %v", err)
		}
		if len(byCategory) != 1 || byCategory[0].Category != models.CategoryBook {
			t.Errorf("unexpected category filter result: %+v", byCategory)
		}
	})
}

func TestUploadRecordRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUploadRecordRepository(db)
			rec := testRecord()
			rec.LessonID = ""

			if err := repo.Create(rec); err == nil {
				t.Fatal("expected validation error for empty lesson id")
			}
		})

		t.Run("UnknownCategory", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUploadRecordRepository(db)
			rec := testRecord()
			rec.Category = "mixtape"

			if err := repo.Create(rec); err == nil {
				t.Fatal("expected validation error for unknown category")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUploadRecordRepository(db)

			if _, err := repo.Get("nonexistent-id"); err == nil {
				t.Fatal("expected error when getting nonexistent record")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUploadRecordRepository(db)
			rec := testRecord()
			rec.RecordID = "nonexistent-id"

			if err := repo.Update(rec); err == nil {
				t.Fatal("expected error when updating nonexistent record")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUploadRecordRepository(db)

			if err := repo.Delete("nonexistent-id"); err == nil {
				t.Fatal("expected error when deleting nonexistent record")
			}
		})
	})
}
