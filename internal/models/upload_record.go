package models

import (
	"fmt"
	"time"
)

// UploadRecord is the locally persisted outcome of a completed upload.
// The queue itself is process-lifetime only; the record catalog is what
// survives a restart so operators can audit what was pushed where.
type UploadRecord struct {
	RecordID  string
	Sequence  int
	LessonID  string
	Title     string
	Category  ContentCategory
	FileName  string
	Size      int64
	FileURL   string
	PublicID  string
	Created   time.Time
	Updated   time.Time
	DeletedAt *time.Time
}

var _ Model = (*UploadRecord)(nil)

func (u *UploadRecord) ID() string           { return u.RecordID }
func (u *UploadRecord) CreatedAt() time.Time { return u.Created }
func (u *UploadRecord) UpdatedAt() time.Time { return u.Updated }

// Validate checks required fields before persistence.
func (u *UploadRecord) Validate() error {
	if u.RecordID == "" {
		return fmt.Errorf("upload record missing id")
	}
	if u.LessonID == "" {
		return fmt.Errorf("upload record missing lesson id")
	}
	if u.Title == "" {
		return fmt.Errorf("upload record missing title")
	}
	if _, err := ParseCategory(string(u.Category)); err != nil {
		return err
	}
	return nil
}
