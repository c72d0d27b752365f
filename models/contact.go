package models

import "time"

// Contact is a single lead captured through the public contact form.
// Rows are insert-only: created by the form, listed and deleted by the admin,
// never updated in place. Contacts are not unique by any field other than ID.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Company   *string   `gorm:"size:255" json:"company"`
	Phone     *string   `gorm:"size:64" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
