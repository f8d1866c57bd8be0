package booking

import "errors"

var (
	ErrPrimaryWriteFailed    = errors.New("primary booking store write failed")
	ErrSecondaryNotifyFailed = errors.New("booking notification failed")
	ErrDuplicateReference    = errors.New("booking reference already exists")
	ErrFallbackEntryNotFound = errors.New("fallback booking not found")
	ErrBookingNotFound       = errors.New("booking not found")
)
