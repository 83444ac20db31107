package response

import (
	"trip-booking/internal/pricing"
)

type UnresolvedTravelerResponse struct {
	TravelerID   int    `json:"traveler_id"`
	TravelerName string `json:"traveler_name"`
	Reason       string `json:"reason"`
}

type QuoteResponse struct {
	Quote      pricing.Quote                `json:"quote"`
	Unresolved []UnresolvedTravelerResponse `json:"unresolved_travelers,omitempty"`
	// CouponError carries the specific rejection reason when a coupon code
	// was supplied but did not apply; the quote above is then computed
	// without it.
	CouponError string `json:"coupon_error,omitempty"`
}

func UnresolvedToResponse(unresolved []pricing.UnresolvedTraveler) []UnresolvedTravelerResponse {
	if len(unresolved) == 0 {
		return nil
	}
	out := make([]UnresolvedTravelerResponse, len(unresolved))
	for i, u := range unresolved {
		out[i] = UnresolvedTravelerResponse{
			TravelerID:   u.Traveler.SessionID,
			TravelerName: u.Traveler.Name,
			Reason:       u.Reason,
		}
	}
	return out
}
