package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stageside/merchtable-backend/internal/modules/user"
)

func newAuthFixture(t *testing.T) (Service, uuid.UUID) {
	t.Helper()
	users := user.NewMemoryRepository()
	id := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(context.Background(), &user.User{
		ID:           id,
		Email:        "ana@band.test",
		Name:         "Ana",
		PasswordHash: string(hash),
	}))
	return NewService(users, "test-secret"), id
}

func TestLoginAndTokenRoundtrip(t *testing.T) {
	svc, id := newAuthFixture(t)

	token, err := svc.Login(context.Background(), "ana@band.test", "hunter2!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana@band.test", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())

	_, err = svc.Login(ctx, "nobody@band.test", "hunter2!")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error(), "unknown email is indistinguishable from a bad password")
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	svc, _ := newAuthFixture(t)

	users := user.NewMemoryRepository()
	id := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, users.CreateUser(context.Background(), &user.User{
		ID: id, Email: "eve@band.test", PasswordHash: string(hash),
	}))
	other := NewService(users, "other-secret")

	token, err := other.Login(context.Background(), "eve@band.test", "pw")
	require.NoError(t, err)

	_, err = svc.UserIDFromToken(token)
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	svc, id := newAuthFixture(t)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(svc)(next)

	t.Run("valid token passes through", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "ana@band.test", "hunter2!")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id.String(), gotUserID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
