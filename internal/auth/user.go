package auth

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/hydrolog-io/hydrolog/internal/database"
	"github.com/hydrolog-io/hydrolog/internal/models"
)

const minPasswordLength = 6

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrEmailAlreadyTaken = errors.New("email already taken")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
)

// Register creates a new user with the given name, email and password
func Register(name, email, password string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	exists, err := database.UserExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := database.CreateUser(name, email, string(hashedPassword))
	if err != nil {
		// The unique constraint on email still backs the existence check
		// under concurrent registrations.
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the user's credentials. The bcrypt comparison is
// constant-time over the hash contents.
func Authenticate(email, password string) (*models.User, error) {
	user, err := database.GetUserByEmail(email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}
