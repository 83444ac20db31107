package response

import (
	"trip-booking/internal/data/entity"
)

type TripResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DepartureOption is one selectable storefront choice derived from the rate
// table. Duplicate rate rows collapse to the option the resolver would pick.
type DepartureOption struct {
	Date      string  `json:"date,omitempty"` // empty for fixed-price packages
	Variant   string  `json:"variant,omitempty"`
	Vehicle   string  `json:"vehicle,omitempty"`
	Price     float64 `json:"price"`
	EarlyBird bool    `json:"early_bird"`
}

type TripDetailResponse struct {
	TripResponse
	InviteOnly bool              `json:"invite_only"`
	Departures []DepartureOption `json:"departures,omitempty"`
}

func TripToResponse(t *entity.Trip) TripResponse {
	return TripResponse{
		ID:   t.ID.String(),
		Name: t.Name,
		Slug: t.Slug,
	}
}
