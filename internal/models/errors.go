package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")

	ErrListingNotFound  = errors.New("listing not found")
	ErrListingForbidden = errors.New("user is not allowed to manage this listing")

	ErrPromotionNotFound       = errors.New("promotion not found")
	ErrPromotionConflict       = errors.New("listing already has a promotion at this placement")
	ErrInvalidStatusTransition = errors.New("invalid promotion status transition")

	ErrInvalidPlacement = errors.New("invalid placement")
	ErrInvalidDuration  = errors.New("invalid promotion duration")
	ErrInvalidChain     = errors.New("invalid payment chain")
	ErrInvalidListingID = errors.New("invalid listing id")

	ErrMissingTxHash     = errors.New("transaction hash is required")
	ErrMissingScreenshot = errors.New("payment screenshot url is required")

	ErrConfigNotFound = errors.New("pricing config not found")
)
