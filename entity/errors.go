package entity

import "errors"

var (
	ErrInsufficientCapacity = errors.New("not enough seats remaining")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrCheckInNotFound      = errors.New("check-in not found")
	ErrPaymentNotVerified   = errors.New("payment not verified")
	ErrInvalidTimeSlot      = errors.New("invalid time slot")
	ErrBookingNotCancelable = errors.New("booking cannot be cancelled")
	ErrValidation           = errors.New("validation failed")
)
