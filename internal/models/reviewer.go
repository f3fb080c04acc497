package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewerProfile holds a checker's identity and running accuracy counters.
// TotalVotes and CorrectVotes only move when a submission the reviewer voted
// on is closed.
type ReviewerProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	TotalVotes   int64     `gorm:"not null;default:0" json:"total_votes"`
	CorrectVotes int64     `gorm:"not null;default:0" json:"correct_votes"`
	MessagesSent int64     `gorm:"not null;default:0" json:"messages_sent"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for ReviewerProfile
func (ReviewerProfile) TableName() string {
	return "reviewer_profiles"
}
