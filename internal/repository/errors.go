package repository

import "errors"

// ErrEmailTaken is returned when a reviewer profile is created with an email
// that already exists.
var ErrEmailTaken = errors.New("email already registered")
