package models

import (
	"time"

	"github.com/google/uuid"
)

type Slider struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Image     string    `gorm:"type:text;not null" json:"image"`
	Title     string    `gorm:"size:255" json:"title"`
	Link      string    `gorm:"type:text" json:"link"`
	Order     int       `gorm:"column:sort_order;default:0;index" json:"order"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
