package model

import "errors"

var (
	// ErrNoteNotFound covers both a missing note and a note owned by another
	// user. The two cases are never distinguished to the caller.
	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidReference is returned by category assignment when the note
	// and/or the category cannot be resolved for the caller. Which of the two
	// failed is never reported.
	ErrInvalidReference = errors.New("invalid note or category")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
