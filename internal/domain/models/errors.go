package models

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrBadInput     = errors.New("bad input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserExists   = errors.New("user already exists")
)
