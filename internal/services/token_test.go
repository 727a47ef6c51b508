package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestToken(raw, secret string) (*Claims, error) {
	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, mc, func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return ClaimsFromMap(mc)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	tokens := NewTokenIssuer("k", time.Hour)
	tokens.now = func() time.Time { return issued }

	raw, err := tokens.Issue(&models.User{ID: uuid.New(), Username: "x", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = parseTestToken(raw, "k")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("k", time.Hour).Issue(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	_, err = parseTestToken(raw, "other")
	assert.Error(t, err)
}

func TestClaimsFromMap(t *testing.T) {
	id := uuid.New()
	c, err := ClaimsFromMap(jwt.MapClaims{"sub": id.String(), "role": "super_admin", "name": "root"})
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.True(t, c.IsAdmin())
	assert.True(t, c.IsSuperAdmin())

	c, err = ClaimsFromMap(jwt.MapClaims{"id": id.String()})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, c.Role)

	_, err = ClaimsFromMap(jwt.MapClaims{"id": "nope"})
	assert.Error(t, err)

	var nilClaims *Claims
	assert.False(t, nilClaims.IsAdmin())
}
