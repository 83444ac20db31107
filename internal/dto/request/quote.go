package request

type TravelerRequest struct {
	ID      int    `json:"id" validate:"required,min=1"`
	Name    string `json:"name" validate:"required"`
	Variant string `json:"variant"`
	Vehicle string `json:"vehicle"`
}

type QuoteRequest struct {
	TripID     string            `json:"trip_id" validate:"required,uuid4"`
	Date       string            `json:"date" validate:"required,datetime=2006-01-02"`
	Travelers  []TravelerRequest `json:"travelers" validate:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code"`
	// Email is optional on the preview path; without it the per-email
	// redemption limit cannot be pre-checked and is enforced at settlement.
	Email string `json:"email" validate:"omitempty,email"`
}
