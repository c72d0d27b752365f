package repository

import "github.com/strategiq/website-backend/models"

// ContactInput is a validated contact submission ready for persistence.
// Optional fields are nil when the form omitted them.
type ContactInput struct {
	Name    string
	Email   string
	Company *string
	Phone   *string
	Message string
}

// FileInput is the metadata for a blob that has already been written to disk.
type FileInput struct {
	OriginalName string
	StoredName   string
	MimeType     string
	Size         int64
}

// Store is the sole gateway between the API and persisted rows. Blob bytes on
// disk are owned by the file controller; the two are kept in lockstep there.
//
// Delete operations are idempotent in effect: they report false when the row
// was already gone and never treat that as an error.
type Store interface {
	CreateContact(input ContactInput) (*models.Contact, error)
	GetContacts() ([]models.Contact, error)
	DeleteContact(id uint) (bool, error)

	SubscribeNewsletter(email string) (*models.Newsletter, error)
	GetNewsletterSubscribers() ([]models.Newsletter, error)

	CreateFile(input FileInput) (*models.FileRecord, error)
	GetFile(id uint) (*models.FileRecord, error)
	GetFiles() ([]models.FileRecord, error)
	DeleteFile(id uint) (bool, error)
}
