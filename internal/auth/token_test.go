package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	user := &User{ID: 42, Email: "a@x.com", Role: RoleAdmin, IsActive: true}

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenExpiresAfterLifetime(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("test-secret")
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(&User{ID: 1, Email: "a@x.com", Role: RoleViewer})
	require.NoError(t, err)

	// Just inside the lifetime.
	svc.now = func() time.Time { return issued.Add(TokenTTL - time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	// Just past it.
	svc.now = func() time.Time { return issued.Add(TokenTTL + time.Minute) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsGarbageAndWrongKey(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenService("different-secret")
	token, err := other.Issue(&User{ID: 1, Email: "a@x.com", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
