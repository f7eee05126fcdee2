package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cooking-assistant/backend/internal/service"
	"github.com/pageza/cooking-assistant/backend/internal/store"
)

func setupAuthService(t *testing.T) (*service.AuthService, string) {
	path := filepath.Join(t.TempDir(), "users.json")
	return service.NewAuthService(store.NewFileUserStore(path), service.SHA256Hasher{}, "test-secret"), path
}

func TestAuthService_RegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	auth, _ := setupAuthService(t)

	user, err := auth.Register(ctx, "Ann", "a@b.com", "pw1", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	user, err = auth.Authenticate(ctx, "a@b.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = auth.Authenticate(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	_, err = auth.Authenticate(ctx, "nobody@b.com", "pw1")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = auth.Authenticate(ctx, "a@b.com", "")
	assert.ErrorIs(t, err, service.ErrMissingCredentials)
}

func TestAuthService_PlaintextNeverStored(t *testing.T) {
	auth, path := setupAuthService(t)
	_, err := auth.Register(context.Background(), "Ann", "a@b.com", "s3cret-pass", "s3cret-pass")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret-pass")
	assert.Contains(t, string(data), service.SHA256Hasher{}.Hash("s3cret-pass"))
}

func TestAuthService_DuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	auth, path := setupAuthService(t)

	_, err := auth.Register(ctx, "Ann", "a@b.com", "pw1", "pw1")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = auth.Register(ctx, "Bob", "a@b.com", "pw2", "pw2")
	assert.ErrorIs(t, err, service.ErrUserExists)
	assert.EqualError(t, err, "email already registered")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	user, err := auth.Authenticate(ctx, "a@b.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
}

func TestAuthService_RejectsSharedArchiveDir(t *testing.T) {
	ctx := context.Background()
	auth, path := setupAuthService(t)

	_, err := auth.Register(ctx, "Alice", "x_at_y@z.com", "pw1", "pw1")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = auth.Register(ctx, "Mallory", "x@y_at_z.com", "pw2", "pw2")
	assert.ErrorIs(t, err, service.ErrEmailUnavailable)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = auth.Authenticate(ctx, "x@y_at_z.com", "pw2")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		password string
		confirm  string
		wantErr  error
	}{
		{"missing name", "", "a@b.com", "pw", "pw", service.ErrMissingFields},
		{"missing email", "Ann", "", "pw", "pw", service.ErrMissingFields},
		{"missing password", "Ann", "a@b.com", "", "", service.ErrMissingFields},
		{"mismatch", "Ann", "a@b.com", "pw", "pw2", service.ErrPasswordMismatch},
		{"no at sign", "Ann", "ab.com", "pw", "pw", service.ErrInvalidEmail},
		{"no tld", "Ann", "a@b", "pw", "pw", service.ErrInvalidEmail},
		{"space", "Ann", "a b@c.com", "pw", "pw", service.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, path := setupAuthService(t)
			_, err := auth.Register(context.Background(), tt.fullName, tt.email, tt.password, tt.confirm)
			assert.ErrorIs(t, err, tt.wantErr)

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, service.ValidEmail("first.last@mail.example.com"))
	assert.True(t, service.ValidEmail("a_b-c@d-e.io"))
	assert.False(t, service.ValidEmail("a@b."))
	assert.False(t, service.ValidEmail("@b.com"))
}

func TestAuthService_Tokens(t *testing.T) {
	ctx := context.Background()
	auth, _ := setupAuthService(t)

	user, err := auth.Register(ctx, "Ann", "a@b.com", "pw1", "pw1")
	require.NoError(t, err)

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Nil(t, claims.ExpiresAt)

	other := service.NewAuthService(store.NewFileUserStore(filepath.Join(t.TempDir(), "u.json")), service.SHA256Hasher{}, "other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
