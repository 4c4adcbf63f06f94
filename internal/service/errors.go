package service

import "errors"

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadySubscribed = errors.New("already subscribed to this planner")
	ErrDeviceOffline     = errors.New("device is offline")
	ErrNoTasks           = errors.New("user has no tasks")
)
