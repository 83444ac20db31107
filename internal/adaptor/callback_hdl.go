package adaptor

import (
	"errors"
	"net/http"

	"trip-booking/internal/usecase"
	"trip-booking/pkg/gateway"
	"trip-booking/pkg/utils"

	"go.uber.org/zap"
)

// PaymentCallback handles POST /api/payment/callback, the form-encoded return
// leg from the payment gateway. The gateway retries until it sees a 2xx, so
// every handled outcome acknowledges with 200; only an unknown transaction id
// or an infrastructure failure does not. Internal hash details never reach
// the response.
func (h *BookingHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.ResponseBadRequest(w, "Invalid callback payload", nil)
		return
	}

	fields := gateway.CallbackFields{
		Status:      r.PostFormValue("status"),
		TxnID:       r.PostFormValue("txnid"),
		Amount:      r.PostFormValue("amount"),
		ProductInfo: r.PostFormValue("productinfo"),
		FirstName:   r.PostFormValue("firstname"),
		Email:       r.PostFormValue("email"),
		GatewayRef:  r.PostFormValue("mihpayid"),
		Hash:        r.PostFormValue("hash"),
	}

	if fields.TxnID == "" {
		utils.ResponseBadRequest(w, "Missing transaction ID", nil)
		return
	}

	booking, err := h.service.ProcessCallback(r.Context(), fields)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			utils.ResponseNotFound(w, "Unknown transaction")

		case errors.Is(err, usecase.ErrInvalidSignature):
			// The booking was settled as failed; acknowledge so the gateway
			// stops retrying a payload we will never accept.
			utils.ResponseSuccess(w, "Payment could not be verified", nil)

		default:
			h.log.Error("Failed to process payment callback",
				zap.Error(err),
				zap.String("txn_id", fields.TxnID),
			)
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseSuccess(w, "Payment status recorded", map[string]string{
		"booking_id": booking.ID.String(),
		"status":     string(booking.PaymentStatus),
	})
}
