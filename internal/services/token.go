package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identifies the caller behind a session token.
type Claims struct {
	UserID uuid.UUID
	Name   string
	Role   string
}

func (c *Claims) IsAdmin() bool {
	return c != nil && (c.Role == models.RoleAdmin || c.Role == models.RoleSuperAdmin)
}

func (c *Claims) IsSuperAdmin() bool {
	return c != nil && c.Role == models.RoleSuperAdmin
}

// TokenIssuer signs HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(u *models.User) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub":  u.ID.String(),
		"id":   u.ID.String(),
		"name": u.Username,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ClaimsFromMap reads the session fields out of validated token claims.
func ClaimsFromMap(mc jwt.MapClaims) (*Claims, error) {
	rawID, _ := mc["id"].(string)
	if rawID == "" {
		rawID, _ = mc["sub"].(string)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.New("token has no valid user id")
	}
	name, _ := mc["name"].(string)
	role, _ := mc["role"].(string)
	if role == "" {
		role = models.RoleUser
	}
	return &Claims{UserID: id, Name: name, Role: role}, nil
}
