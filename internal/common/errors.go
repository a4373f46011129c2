package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorValidation         = errors.New("validation error")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Auth errors: missing material vs. a token that fails verification.
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken      = errors.New("invalid token")

	// Economy errors.
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrCardNotOwned       = errors.New("card not owned")
	ErrSlotLimitExceeded  = errors.New("booster slot limit exceeded")
	ErrNoBoosterAvailable = errors.New("no booster available")
)
