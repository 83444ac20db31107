package request

type ContactRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type CreateBookingRequest struct {
	TripID     string            `json:"trip_id" validate:"required,uuid4"`
	Date       string            `json:"date" validate:"required,datetime=2006-01-02"`
	Travelers  []TravelerRequest `json:"travelers" validate:"required,min=1,dive"`
	Contact    ContactRequest    `json:"contact" validate:"required"`
	CouponCode string            `json:"coupon_code"`
}
