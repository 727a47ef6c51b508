package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,mail"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func TestStructFields(t *testing.T) {
	tests := []struct {
		name    string
		in      signup
		wantErr string
	}{
		{"valid", signup{Username: "ada", Email: "ada@example.com", Password: "secret1"}, ""},
		{"missing username", signup{Email: "ada@example.com", Password: "secret1"}, "username is required"},
		{"bad email", signup{Username: "ada", Email: "ada@example", Password: "secret1"}, "Please provide a valid email address"},
		{"short password", signup{Username: "ada", Email: "ada@example.com", Password: "123"}, "password must be at least 6 characters"},
		{"bad role", signup{Username: "ada", Email: "ada@example.com", Password: "secret1", Role: "root"}, "role must be one of: user, admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StructFields(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.True(t, IsEmail("first.last+tag@shop.example.org"))
	assert.False(t, IsEmail("a b@c.d"))
	assert.False(t, IsEmail("no-at.example.com"))
	assert.False(t, IsEmail("a@nodot"))
}
