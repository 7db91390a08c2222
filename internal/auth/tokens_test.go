package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kasu-ict/grievance-portal/internal/users"
	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	signed, err := tokens.Issue(&users.User{ID: "s1", Role: users.RoleStudent})
	assert.NoError(t, err)

	claims, err := tokens.Parse(signed)
	assert.NoError(t, err)
	assert.Equal(t, "s1", claims.Subject)
	assert.Equal(t, users.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokenService("secret-a", time.Hour).
		Issue(&users.User{ID: "s1", Role: users.RoleStudent})
	assert.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Parse(signed)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)

	signed, err := tokens.Issue(&users.User{ID: "s1", Role: users.RoleStudent})
	assert.NoError(t, err)

	_, err = tokens.Parse(signed)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewTokenService("test-secret", time.Hour).Parse("not-a-token")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}
