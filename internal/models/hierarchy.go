package models

import "time"

// The curriculum hierarchy as served by the CMS REST API:
// class → subject → unit → sub-unit → lesson → content item.
// These are transfer objects; the client never persists them.

// ClassLevel represents a class/grade at the top of the hierarchy.
type ClassLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Subject belongs to a class.
type Subject struct {
	ID      string `json:"id"`
	ClassID string `json:"classId"`
	Name    string `json:"name"`
}

// Unit belongs to a subject.
type Unit struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
}

// SubUnit belongs to a unit.
type SubUnit struct {
	ID       string `json:"id"`
	UnitID   string `json:"unitId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Lesson is the leaf node content items attach to.
type Lesson struct {
	ID        string `json:"id"`
	SubUnitID string `json:"subUnitId"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
}

// ContentItem is a piece of content attached to a lesson, as reported by the
// CMS after an upload has been persisted.
type ContentItem struct {
	ID        string          `json:"id"`
	LessonID  string          `json:"lessonId"`
	Title     string          `json:"title"`
	Category  ContentCategory `json:"category"`
	FileURL   string          `json:"fileUrl"`
	PublicID  string          `json:"publicId,omitempty"`
	Size      int64           `json:"size"`
	MimeType  string          `json:"mimeType,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
