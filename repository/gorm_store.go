package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/strategiq/website-backend/models"
)

// GormStore implements Store on top of a GORM database handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateContact inserts a contact row with a server-assigned ID and timestamp.
func (s *GormStore) CreateContact(input ContactInput) (*models.Contact, error) {
	contact := models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Company: input.Company,
		Phone:   input.Phone,
		Message: input.Message,
	}
	if err := s.db.Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetContacts returns all contacts in insertion order.
func (s *GormStore) GetContacts() ([]models.Contact, error) {
	var contacts []models.Contact
	if err := s.db.Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// DeleteContact removes a contact by ID. Returns false when no row existed.
func (s *GormStore) DeleteContact(id uint) (bool, error) {
	res := s.db.Delete(&models.Contact{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SubscribeNewsletter upserts a subscription keyed on email: a fresh email is
// inserted active, an existing one is reactivated with SubscribedAt refreshed.
func (s *GormStore) SubscribeNewsletter(email string) (*models.Newsletter, error) {
	now := time.Now()
	sub := models.Newsletter{
		Email:        email,
		SubscribedAt: now,
		IsActive:     true,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_active":     true,
			"subscribed_at": now,
		}),
	}).Create(&sub).Error
	if err != nil {
		return nil, err
	}
	// On conflict the insert struct does not carry the surviving row's ID;
	// read it back so callers always see the persisted state.
	var row models.Newsletter
	if err := s.db.Where("email = ?", email).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetNewsletterSubscribers returns only active subscriptions.
func (s *GormStore) GetNewsletterSubscribers() ([]models.Newsletter, error) {
	var subs []models.Newsletter
	if err := s.db.Where("is_active = ?", true).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// CreateFile inserts a file metadata row for an already-written blob.
func (s *GormStore) CreateFile(input FileInput) (*models.FileRecord, error) {
	record := models.FileRecord{
		OriginalName: input.OriginalName,
		StoredName:   input.StoredName,
		MimeType:     input.MimeType,
		Size:         input.Size,
		UploadedAt:   time.Now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetFile returns the metadata row for id, or nil when absent.
func (s *GormStore) GetFile(id uint) (*models.FileRecord, error) {
	var record models.FileRecord
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetFiles returns all file metadata rows in insertion order.
func (s *GormStore) GetFiles() ([]models.FileRecord, error) {
	var records []models.FileRecord
	if err := s.db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteFile removes a file metadata row by ID. Returns false when no row existed.
func (s *GormStore) DeleteFile(id uint) (bool, error) {
	res := s.db.Delete(&models.FileRecord{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
