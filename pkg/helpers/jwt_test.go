package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTGenerateAndParse(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, exp, err := m.Generate("a@x.com", "student")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.True(t, claims.HasRole("student"))
	assert.False(t, claims.HasRole("admin"))
}

func TestJWTParseRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, _, err := m.Generate("a@x.com", "student")
	require.NoError(t, err)

	other := NewJWTManager("different", time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestJWTParseRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, _, err := m.Generate("a@x.com", "student")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestJWTParseRejectsGarbage(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	_, err := m.Parse("not.a.token")
	assert.Error(t, err)
}
