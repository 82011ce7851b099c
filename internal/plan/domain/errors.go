package domain

import "errors"

var (
	ErrNotFound  = errors.New("plan not found")
	ErrNoPricing = errors.New("plan has no pricing")
)
