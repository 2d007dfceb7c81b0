package shared

import "fmt"

var (
	// Request validation errors (user-correctable, HTTP 400)
	ErrValidation     = fmt.Errorf("validation failed")
	ErrMissingUserID  = fmt.Errorf("%w: missing user_id", ErrValidation)
	ErrMissingPayload = fmt.Errorf("%w: request carries neither query nor track", ErrValidation)

	// State errors
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("conflicting concurrent write")

	// Persistence errors (fatal for the request, HTTP 5xx)
	ErrStoreUnavailable = fmt.Errorf("store unavailable")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
)
