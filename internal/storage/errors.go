package storage

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	ErrInvalidValue  = errors.New("value out of range")

	ErrNotRosterMember = errors.New("player is not on the match roster")
)
