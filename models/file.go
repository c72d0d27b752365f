package models

import "time"

// FileRecord is the metadata row for one uploaded blob in the admin file
// repository. StoredName is server-generated and is the only link to the
// bytes on disk; OriginalName is untrusted client input kept for display and
// Content-Disposition only. Every row must have a blob and vice versa.
type FileRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:512;not null" json:"originalName"`
	StoredName   string    `gorm:"size:128;not null;uniqueIndex" json:"storedName"`
	MimeType     string    `gorm:"size:128;not null" json:"mimeType"`
	Size         int64     `gorm:"not null" json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
