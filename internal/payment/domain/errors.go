package domain

import "errors"

var (
	ErrMissingIdentifiers    = errors.New("transaction_id or tx_ref is required")
	ErrPaymentNotSuccessful  = errors.New("payment was not successful")
	ErrGatewayNotConfigured  = errors.New("payment gateway is not configured")
	ErrInvalidEmail          = errors.New("a valid email address is required")
	ErrMissingRequiredFields = errors.New("planId and email are required")
)
