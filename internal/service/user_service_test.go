package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dualshot/config"
	"dualshot/internal/repository"
	"dualshot/internal/testutil"
	"dualshot/pkg/apperr"
	"dualshot/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *jwt.JWTService) {
	t.Helper()
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "s", ExpireTime: time.Hour, Issuer: "dualshot"})
	return NewUserService(repository.NewUserRepository(testutil.NewDB(t)), jwtSvc), jwtSvc
}

func TestRegisterAndLogin(t *testing.T) {
	s, jwtSvc := newUserService(t)
	ctx := context.Background()

	u, token, err := s.Register(ctx, RegisterInput{
		Email: "Alice@Example.com", Username: "alice", DisplayName: "<b>Alice</b>", Password: "pw123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.NotEqual(t, "pw123456", u.PasswordHash)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	id, _ := claims.AccountID()
	assert.Equal(t, u.ID, id)

	for _, ident := range []string{"alice", "ALICE@example.com"} {
		logged, _, err := s.Login(ctx, ident, "pw123456")
		require.NoError(t, err, ident)
		assert.Equal(t, u.ID, logged.ID)
	}

	_, _, err = s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, _, err = s.Login(ctx, "nobody", "pw123456")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", apperr.PublicMessage(err))
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing email", RegisterInput{Username: "a", DisplayName: "A", Password: "p"}},
		{"missing password", RegisterInput{Email: "a@example.com", Username: "a", DisplayName: "A"}},
		{"bad email", RegisterInput{Email: "not-an-email", Username: "a", DisplayName: "A", Password: "p"}},
		{"username with space", RegisterInput{Email: "a@example.com", Username: "a b", DisplayName: "A", Password: "p"}},
		{"password too long", RegisterInput{Email: "a@example.com", Username: "a", DisplayName: "A", Password: strings.Repeat("x", 80)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrBadRequest)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	_, _, err := s.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", DisplayName: "A", Password: "p"})
	require.NoError(t, err)

	_, _, err = s.Register(ctx, RegisterInput{Email: "A@example.com", Username: "b", DisplayName: "B", Password: "p"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, _, err = s.Register(ctx, RegisterInput{Email: "b@example.com", Username: "a", DisplayName: "B", Password: "p"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()
	u, _, err := s.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", DisplayName: "A", Password: "p"})
	require.NoError(t, err)

	name := "New Name"
	avatar := "https://cdn.example.com/a.png"
	updated, err := s.UpdateProfile(ctx, u.ID, ProfileUpdate{DisplayName: &name, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	assert.Equal(t, avatar, updated.AvatarURL)

	blank := "   "
	_, err = s.UpdateProfile(ctx, u.ID, ProfileUpdate{DisplayName: &blank})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = s.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
