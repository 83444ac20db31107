package usecase

import (
	"errors"
	"fmt"

	"trip-booking/internal/dto/response"
)

var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInviteOnly       = errors.New("trip is invite-only and has no published prices")
	ErrNothingToCharge  = errors.New("booking total must be greater than zero")
	ErrInvalidSignature = errors.New("callback signature verification failed")
)

// UnresolvedError carries the per-traveler reasons a price lookup failed so
// handlers can return them alongside the rejection.
type UnresolvedError struct {
	Travelers []response.UnresolvedTravelerResponse
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%d traveler(s) could not be priced", len(e.Travelers))
}
