package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrVaultNotFound   = errors.New("vault not found")
	ErrVaultUnreadable = errors.New("vault unreadable")
	ErrNoEligibleVault = errors.New("no vault has the advanced-uri plugin enabled")
)
