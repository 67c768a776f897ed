package config

import "errors"

// ErrMissingAuthSecret is returned when no token signing secret is
// configured. The API cannot mint or verify tokens without one.
var ErrMissingAuthSecret = errors.New("auth.secret must be set")
