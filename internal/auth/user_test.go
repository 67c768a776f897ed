package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hydrolog-io/hydrolog/internal/config"
	"github.com/hydrolog-io/hydrolog/internal/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "auth_test.db")

	require.NoError(t, database.Init(cfg))
	t.Cleanup(func() { database.Close() })
}

func TestRegister(t *testing.T) {
	setupTestDB(t)

	user, err := Register("Ava", "ava@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ava", user.Name)
	assert.Equal(t, "ava@x.com", user.Email)

	// The stored password is a bcrypt hash of the raw password
	assert.NotEqual(t, "secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
}

func TestRegister_WeakPassword(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name     string
		password string
	}{
		{"Empty", ""},
		{"FiveChars", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Register("Ava", "ava@x.com", tt.password)
			assert.ErrorIs(t, err, ErrWeakPassword)
		})
	}

	// Nothing was persisted
	exists, err := database.UserExists("ava@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	setupTestDB(t)

	original, err := Register("Ava", "ava@x.com", "secret1")
	require.NoError(t, err)

	_, err = Register("Impostor", "ava@x.com", "different1")
	assert.ErrorIs(t, err, ErrEmailAlreadyTaken)

	// The existing account is unchanged
	user, err := database.GetUserByEmail("ava@x.com")
	require.NoError(t, err)
	assert.Equal(t, original.ID, user.ID)
	assert.Equal(t, "Ava", user.Name)
}

func TestAuthenticate(t *testing.T) {
	setupTestDB(t)

	registered, err := Register("Ava", "ava@x.com", "secret1")
	require.NoError(t, err)

	user, err := Authenticate("ava@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	setupTestDB(t)

	_, err := Register("Ava", "ava@x.com", "secret1")
	require.NoError(t, err)

	_, err = Authenticate("ava@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	setupTestDB(t)

	_, err := Authenticate("nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
