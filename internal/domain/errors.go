package domain

import "errors"

var (
	ErrConfiguration = errors.New("configuration error")
	ErrConflict      = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrInvalidSpec   = errors.New("invalid account spec")
)
