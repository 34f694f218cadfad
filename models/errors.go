package models

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUserNotFound = errors.New("user not found")
	ErrDayNotFound  = errors.New("no words found for this day")
	ErrEmailTaken   = errors.New("email already registered")
)
