package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidLoginType   = errors.New("invalid login type")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("entity not found")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrSoldOut            = errors.New("coupon sold out")
)
