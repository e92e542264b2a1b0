package ledger

import "errors"

var (
	// ErrNotFound indicates no certificate exists for the queried id
	ErrNotFound = errors.New("certificate not found")

	// ErrUnauthorized indicates the caller lacks the issuing or revoking role
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrNotCompleted indicates the holder has not finished the course
	ErrNotCompleted = errors.New("course not completed by holder")

	// ErrDuplicateCertificate indicates an active certificate already
	// exists for this holder and course
	ErrDuplicateCertificate = errors.New("active certificate already exists")

	// ErrUnknownHolder indicates the holder is not a registered user
	ErrUnknownHolder = errors.New("holder not registered")

	// ErrUnknownCourse indicates the referenced course does not exist
	ErrUnknownCourse = errors.New("course not found")
)
