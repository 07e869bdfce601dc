package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/shared"
)

// UploadRecordRepository implements models.Repository[*models.UploadRecord]
// for the upload history catalog.
//
// One row is written per completed upload so operators can audit what was
// pushed to which lesson after the in-memory queue is gone. Soft deletes keep
// the audit trail intact.
type UploadRecordRepository struct {
	db *sql.DB
}

// NewUploadRecordRepository creates a new UploadRecordRepository with the given database connection
func NewUploadRecordRepository(db *sql.DB) *UploadRecordRepository {
	return &UploadRecordRepository{db: db}
}

// Create inserts a new [models.UploadRecord] into the database with generated ID and sequence
func (r *UploadRecordRepository) Create(rec *models.UploadRecord) error {
	sequence, err := NextSequence(r.db, "upload_records")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	rec.RecordID = shared.GenerateID()
	rec.Sequence = sequence
	rec.Created = now
	rec.Updated = now

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO upload_records (id, sequence, lesson_id, title, category, file_name, size, file_url, public_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		rec.RecordID,
		rec.Sequence,
		rec.LessonID,
		rec.Title,
		rec.Category.String(),
		rec.FileName,
		rec.Size,
		rec.FileURL,
		rec.PublicID,
		rec.Created,
		rec.Updated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload record: %w", err)
	}

	return nil
}

// Get retrieves an upload record by ID, excluding soft-deleted records
func (r *UploadRecordRepository) Get(id string) (*models.UploadRecord, error) {
	query := `
		SELECT id, sequence, lesson_id, title, category, file_name, size, file_url, public_id, created_at, updated_at, deleted_at
		FROM upload_records
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing upload record in the database
func (r *UploadRecordRepository) Update(rec *models.UploadRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	rec.Updated = now

	query := `
		UPDATE upload_records
		SET title = ?, file_name = ?, size = ?, file_url = ?, public_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		rec.Title,
		rec.FileName,
		rec.Size,
		rec.FileURL,
		rec.PublicID,
		now,
		rec.RecordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update upload record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("upload record not found or already deleted: %s", rec.RecordID)
	}

	return nil
}

// Delete soft-deletes an upload record by ID
func (r *UploadRecordRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE upload_records
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete upload record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("upload record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all upload records matching the given criteria, excluding
// soft-deleted records. Supported criteria: "lessonId", "category".
func (r *UploadRecordRepository) List(criteria map[string]any) ([]*models.UploadRecord, error) {
	query := `
		SELECT id, sequence, lesson_id, title, category, file_name, size, file_url, public_id, created_at, updated_at, deleted_at
		FROM upload_records
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if lessonID, ok := criteria["lessonId"].(string); ok && lessonID != "" {
		query += " AND lesson_id = ?"
		args = append(args, lessonID)
	}

	if category, ok := criteria["category"].(string); ok && category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query upload records: %w", err)
	}
	defer rows.Close()

	var records []*models.UploadRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanOne scans a single [sql.Row] into a [models.UploadRecord]
func (r *UploadRecordRepository) scanOne(row *sql.Row) (*models.UploadRecord, error) {
	var (
		rec       models.UploadRecord
		category  string
		deletedAt sql.NullTime
	)

	err := row.Scan(&rec.RecordID, &rec.Sequence, &rec.LessonID, &rec.Title, &category,
		&rec.FileName, &rec.Size, &rec.FileURL, &rec.PublicID, &rec.Created, &rec.Updated, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload record: %w", err)
	}

	rec.Category = models.ContentCategory(category)
	if deletedAt.Valid {
		rec.DeletedAt = &deletedAt.Time
	}

	return &rec, nil
}

// scanRow scans a row from [sql.Rows] into a [models.UploadRecord]
func (r *UploadRecordRepository) scanRow(rows *sql.Rows) (*models.UploadRecord, error) {
	var (
		rec       models.UploadRecord
		category  string
		deletedAt sql.NullTime
	)

	err := rows.Scan(&rec.RecordID, &rec.Sequence, &rec.LessonID, &rec.Title, &category,
		&rec.FileName, &rec.Size, &rec.FileURL, &rec.PublicID, &rec.Created, &rec.Updated, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload record: %w", err)
	}

	rec.Category = models.ContentCategory(category)
	if deletedAt.Valid {
		rec.DeletedAt = &deletedAt.Time
	}

	return &rec, nil
}
