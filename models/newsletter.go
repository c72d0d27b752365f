package models

import "time"

// Newsletter is a newsletter subscription keyed by unique email.
// Re-subscribing reactivates the row and refreshes SubscribedAt instead of
// erroring; rows are never hard-deleted, only flagged inactive.
type Newsletter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	SubscribedAt time.Time `gorm:"not null" json:"subscribedAt"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
}
