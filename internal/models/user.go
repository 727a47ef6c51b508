package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User is a storefront account. The OTP triple is set and cleared together.
type User struct {
	ID              uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username        string                      `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email           string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone           string                      `gorm:"size:30" json:"phone"`
	Password        string                      `gorm:"not null" json:"-"`
	Role            string                      `gorm:"size:20;default:'user';index" json:"role"`
	IsActive        bool                        `gorm:"not null" json:"isActive"`
	IsEmailVerified bool                        `gorm:"default:false" json:"isEmailVerified"`
	OTP             *string                     `gorm:"size:64" json:"-"`
	OTPExpires      *time.Time                  `json:"-"`
	OTPLastSentAt   *time.Time                  `json:"-"`
	LastLogin       *time.Time                  `json:"lastLogin,omitempty"`
	Address         datatypes.JSONType[Address] `gorm:"type:jsonb" json:"address"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// SetOTP stores a hashed code that expires after ttl.
func (u *User) SetOTP(hash string, now time.Time, ttl time.Duration) {
	expires := now.Add(ttl)
	sent := now
	u.OTP = &hash
	u.OTPExpires = &expires
	u.OTPLastSentAt = &sent
}

func (u *User) ClearOTP() {
	u.OTP = nil
	u.OTPExpires = nil
	u.OTPLastSentAt = nil
}

// OTPExpired is true when no code is pending or the pending one is past its deadline.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTP == nil || u.OTPExpires == nil || now.After(*u.OTPExpires)
}
