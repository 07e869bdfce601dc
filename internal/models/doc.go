// Package models defines domain entities and persistence interfaces for the lectern curriculum client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing CMS data
//   - [ClassLevel], [Subject], [Unit], [SubUnit], [Lesson] : The tiered curriculum hierarchy
//   - [ContentItem] : A content item attached to a lesson, as the CMS reports it
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [UploadRecord] : Local catalog entry for every completed upload
//
// [ContentCategory] is the closed set of content kinds. It decides which upload
// pipeline a queued file travels through: book, worksheet, slide, and exam
// binaries are stored by the CMS server itself, while audio and video go
// directly to the storage provider via a signed upload.
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
