package models

// User is the legacy auth scaffold carried over from the original schema.
// The table is migrated for compatibility but no route reads or writes it.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
}
