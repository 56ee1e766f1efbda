package service

import "errors"

var (
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrNotFound              = errors.New("not found")
	ErrInvalidAmount         = errors.New("amount must be a finite number greater than zero")
	ErrUnauthorized          = errors.New("unauthorized: admin access required")
	ErrSelfDeletionForbidden = errors.New("cannot delete your own admin profile")

	ErrInvalidGoal     = errors.New("invalid goal")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrInvalidRole     = errors.New("invalid role")
	ErrAdminExists     = errors.New("admin already exists")
	ErrStorageDisabled = errors.New("export storage is not configured")
)
