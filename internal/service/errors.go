package service

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrEventInactive       = errors.New("event is not active")
	ErrInvalidEvent        = errors.New("invalid event")
	ErrCalendarUnavailable = errors.New("calendar unavailable")
	ErrInvalidCalendarURL  = errors.New("invalid calendar url")
	ErrInvalidRange        = errors.New("invalid time range")
)
