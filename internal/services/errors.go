package services

import "errors"

var (
	// ErrPermission means the actor's role forbids the operation.
	ErrPermission = errors.New("permission denied")
	// ErrValidation means a mandatory field is missing or invalid.
	ErrValidation = errors.New("validation failed")
)
