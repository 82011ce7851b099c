package domain

import "errors"

var (
	ErrNotFound             = errors.New("license not found")
	ErrInvalidTransition    = errors.New("license is not pending activation")
	ErrInvalidBillingPeriod = errors.New("billing period must be yearly or quarterly")
	ErrCannotProcess        = errors.New("license cannot be processed")
	ErrAlreadyRedeemed      = errors.New("license key already redeemed")
)
