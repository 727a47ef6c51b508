package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContactNew        = "new"
	ContactInProgress = "in-progress"
	ContactResolved   = "resolved"
	ContactClosed     = "closed"
)

func IsContactStatus(s string) bool {
	switch s {
	case ContactNew, ContactInProgress, ContactResolved, ContactClosed:
		return true
	}
	return false
}

// Contact is a message left through the public contact form.
type Contact struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string     `gorm:"size:120;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;index" json:"email"`
	Phone        string     `gorm:"size:30" json:"phone"`
	Subject      string     `gorm:"size:255" json:"subject"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	Status       string     `gorm:"size:20;default:'new';index" json:"status"`
	Replied      bool       `gorm:"default:false;index" json:"replied"`
	ReplyMessage string     `gorm:"type:text" json:"replyMessage,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
	RepliedBy    *uuid.UUID `gorm:"type:uuid" json:"repliedBy,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
