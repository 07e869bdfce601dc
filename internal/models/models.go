// package models defines the data model for the lectern curriculum client
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models in the client.
// Implementations include UploadRecord and any future cached entities.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// ContentCategory classifies a content item and determines which upload
// pipeline carries its binary: document-like categories go through the CMS
// server, large media goes directly to the storage provider.
type ContentCategory string

const (
	CategoryBook      ContentCategory = "book"
	CategoryWorksheet ContentCategory = "worksheet"
	CategorySlide     ContentCategory = "slide"
	CategoryExam      ContentCategory = "exam"
	CategoryAudio     ContentCategory = "audio"
	CategoryVideo     ContentCategory = "video"
)

// Categories lists every valid content category.
func Categories() []ContentCategory {
	return []ContentCategory{
		CategoryBook, CategoryWorksheet, CategorySlide,
		CategoryExam, CategoryAudio, CategoryVideo,
	}
}

// ParseCategory converts a string into a ContentCategory.
func ParseCategory(s string) (ContentCategory, error) {
	c := ContentCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown content category %q", s)
}

// IsCloudHosted reports whether the category's binary is stored at the
// third-party storage provider rather than on the CMS server.
func (c ContentCategory) IsCloudHosted() bool {
	return c == CategoryAudio || c == CategoryVideo
}

func (c ContentCategory) String() string { return string(c) }
