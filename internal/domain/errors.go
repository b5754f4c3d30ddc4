package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSlotNotSwappable = errors.New("slot is not swappable")
	ErrSlotLocked       = errors.New("slot is locked by a pending swap")
	ErrProposalResolved = errors.New("proposal is already resolved")
)
