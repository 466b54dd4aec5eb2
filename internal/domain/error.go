package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrForbidden          = errors.New("operation not allowed for this user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests")
	ErrInvalidExecContext = errors.New("invalid SQL execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
