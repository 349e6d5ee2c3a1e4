package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUser(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, "  Ana@Band.Test ", "hunter2!", " Ana ")
	require.NoError(t, err)
	assert.Equal(t, "ana@band.test", u.Email, "email is normalised")
	assert.Equal(t, "Ana", u.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2!")))

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.RegisterUser(ctx, "ana@band.test", "pw", "Other Ana")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		_, err := svc.RegisterUser(ctx, "", "pw", "Name")
		assert.Error(t, err)
		_, err = svc.RegisterUser(ctx, "x@y.test", "", "Name")
		assert.Error(t, err)
		_, err = svc.RegisterUser(ctx, "x@y.test", "pw", "  ")
		assert.Error(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, "mo@band.test", "pw", "Mo")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID.String(), "Moira", "https://cdn.test/mo.png")
	require.NoError(t, err)
	assert.Equal(t, "Moira", updated.Name)
	assert.Equal(t, "https://cdn.test/mo.png", updated.AvatarURL)

	// Blank name keeps the old one; avatar is replaced wholesale.
	updated, err = svc.UpdateProfile(ctx, u.ID.String(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Moira", updated.Name)
	assert.Empty(t, updated.AvatarURL)
}
