package services

import "errors"

var (
	ErrInProgress           = errors.New("operation already in progress")
	ErrCancelled            = errors.New("cancelled")
	ErrConfirmationMismatch = errors.New("confirmation text does not match")
	ErrRouteNotFound        = errors.New("route not found")
	ErrPermissionDenied     = errors.New("location permission denied")
	ErrNoCamera             = errors.New("no camera available")
)
