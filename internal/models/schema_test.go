package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Fields a caller may deliberately set to false must not carry a column
// default, or GORM swaps the zero value for the default on insert.
func TestActiveFlagsKeepExplicitFalse(t *testing.T) {
	for _, model := range []any{&Slider{}, &User{}} {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		field := s.LookUpField("IsActive")
		require.NotNil(t, field, s.Name)
		assert.False(t, field.HasDefaultValue, "%s.IsActive has a default", s.Name)
		assert.Nil(t, field.DefaultValueInterface, s.Name)
	}
}
