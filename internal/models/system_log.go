package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is an ERROR+ log record kept for post-mortem queries.
type SystemLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time         `gorm:"not null;index" json:"timestamp"`
	Level     string            `gorm:"size:10;not null;index" json:"level"`
	Message   string            `gorm:"type:text" json:"message"`
	RequestID string            `gorm:"size:64;index" json:"requestId"`
	UserID    *string           `gorm:"size:36;index" json:"userId"`
	Component string            `gorm:"size:50;index" json:"component"`
	Error     string            `gorm:"type:text" json:"error"`
	Extra     datatypes.JSONMap `gorm:"type:jsonb" json:"extra"`
	CreatedAt time.Time         `json:"createdAt"`
}
