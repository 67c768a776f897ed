package database

import (
	"time"

	"github.com/hydrolog-io/hydrolog/internal/models"
)

// CreateUser inserts a new user row. password must already be hashed.
func CreateUser(name, email, password string) (*models.User, error) {
	now := time.Now().UTC()
	user := &models.User{
		ID:        GenerateID(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	if dbType == "postgres" {
		_, err = dbConn.Exec(
			"INSERT INTO users (id, name, email, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
			user.ID, user.Name, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
		)
	} else {
		_, err = dbConn.Exec(
			"INSERT INTO users (id, name, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			user.ID, user.Name, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
		)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	var err error

	if dbType == "postgres" {
		err = dbConn.QueryRow(
			"SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1",
			email,
		).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	} else {
		err = dbConn.QueryRow(
			"SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = ?",
			email,
		).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	}

	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID
func GetUserByID(id string) (*models.User, error) {
	user := &models.User{}
	var err error

	if dbType == "postgres" {
		err = dbConn.QueryRow(
			"SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = $1",
			id,
		).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	} else {
		err = dbConn.QueryRow(
			"SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = ?",
			id,
		).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	}

	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserExists reports whether a user with the given email is registered.
func UserExists(email string) (bool, error) {
	var exists bool
	var err error
	if dbType == "postgres" {
		err = dbConn.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	} else {
		err = dbConn.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists)
	}
	return exists, err
}

// GetUserCount returns the total number of registered users
func GetUserCount() (int, error) {
	var count int
	err := dbConn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
