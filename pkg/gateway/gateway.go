// Package gateway implements the bridge to the redirect payment gateway:
// outbound signed form payloads and inbound callback verification. The
// integrity scheme is a keyed SHA-512 over a pipe-delimited field sequence
// shared with the gateway; request and response use mirror-image orderings.
package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/utils"
)

// reservedFields is the fixed run of optional fields the protocol carries
// between the customer fields and the secret. We never populate them but they
// participate in both hashes.
const reservedFields = 10

type Bridge struct {
	key         string
	secret      string
	paymentURL  string
	successURL  string
	failureURL  string
	productInfo string
	log         *zap.Logger
}

func NewBridge(cfg utils.GatewayConfig, log *zap.Logger) *Bridge {
	return &Bridge{
		key:         cfg.Key,
		secret:      cfg.Secret,
		paymentURL:  cfg.PaymentURL,
		successURL:  cfg.SuccessURL,
		failureURL:  cfg.FailureURL,
		productInfo: cfg.ProductInfo,
		log:         log.With(zap.String("component", "gateway")),
	}
}

// RedirectPayload is everything the client needs to render the HTML form
// POST that hands the customer to the gateway.
type RedirectPayload struct {
	ActionURL string            `json:"action_url"`
	Fields    map[string]string `json:"fields"`
}

// CallbackFields are the gateway's echoed form fields on the return leg.
type CallbackFields struct {
	Status      string
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	GatewayRef  string // correlation id assigned by the gateway
	Hash        string
}

// FormatAmount renders the exact amount string that goes into the form, the
// hash, and the gateway's echo. Any normalization difference between these
// three breaks verification, so there is exactly one formatter.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FirstName extracts the leading name token the gateway expects.
func FirstName(contactName string) string {
	fields := strings.Fields(contactName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// BuildRedirect assembles the signed outbound payload for a pending booking.
func (b *Bridge) BuildRedirect(booking *entity.Booking) RedirectPayload {
	amount := FormatAmount(booking.TotalAmount)
	firstName := FirstName(booking.ContactName)

	fields := map[string]string{
		"key":         b.key,
		"txnid":       booking.TxnID,
		"amount":      amount,
		"productinfo": b.productInfo,
		"firstname":   firstName,
		"email":       booking.ContactEmail,
		"phone":       booking.ContactPhone,
		"surl":        b.successURL,
		"furl":        b.failureURL,
		"hash":        b.signRequest(booking.TxnID, amount, firstName, booking.ContactEmail),
	}

	return RedirectPayload{
		ActionURL: b.paymentURL,
		Fields:    fields,
	}
}

// signRequest hashes key|txnid|amount|productinfo|firstname|email, the
// reserved empty run, then the secret.
func (b *Bridge) signRequest(txnID, amount, firstName, email string) string {
	parts := make([]string, 0, 7+reservedFields)
	parts = append(parts, b.key, txnID, amount, b.productInfo, firstName, email)
	for i := 0; i < reservedFields; i++ {
		parts = append(parts, "")
	}
	parts = append(parts, b.secret)

	return hexSHA512(strings.Join(parts, "|"))
}

// signResponse recomputes the inbound hash in the gateway's reverse order:
// secret|status, the reserved run with the correlation id in its final slot,
// then email|firstname|productinfo|amount|txnid|key.
func (b *Bridge) signResponse(f CallbackFields) string {
	parts := make([]string, 0, 8+reservedFields)
	parts = append(parts, b.secret, f.Status)
	for i := 0; i < reservedFields-1; i++ {
		parts = append(parts, "")
	}
	parts = append(parts, f.GatewayRef, f.Email, f.FirstName, f.ProductInfo, f.Amount, f.TxnID, b.key)

	return hexSHA512(strings.Join(parts, "|"))
}

// VerifyCallback compares the recomputed response hash byte for byte.
func (b *Bridge) VerifyCallback(f CallbackFields) bool {
	return b.signResponse(f) == strings.ToLower(strings.TrimSpace(f.Hash))
}

// VerifyWithBooking verifies the callback, and when the gateway did not echo
// the customer fields it recovers them from the persisted booking and
// recomputes once. A mismatch after the retry is an integrity failure; a
// mismatch that the retry repairs was a processing fault, not an attack.
func (b *Bridge) VerifyWithBooking(f CallbackFields, booking *entity.Booking) (valid bool, retried bool) {
	if b.VerifyCallback(f) {
		return true, false
	}
	if booking == nil {
		return false, false
	}

	recovered := f
	if recovered.Email == "" {
		recovered.Email = booking.ContactEmail
	}
	if recovered.FirstName == "" {
		recovered.FirstName = FirstName(booking.ContactName)
	}
	if recovered.Amount == "" {
		recovered.Amount = FormatAmount(booking.TotalAmount)
	}
	if recovered == f {
		return false, false
	}

	b.log.Warn("Callback hash mismatch, retrying against persisted booking",
		zap.String("txn_id", f.TxnID),
		zap.String("booking_id", booking.ID.String()),
	)

	return b.VerifyCallback(recovered), true
}

// MapStatus folds the gateway's status string onto the booking tri-state.
// Anything other than an explicit success settles as failed.
func MapStatus(status string) entity.PaymentStatus {
	if strings.EqualFold(strings.TrimSpace(status), "success") {
		return entity.PaymentStatusPaid
	}
	return entity.PaymentStatusFailed
}

func hexSHA512(payload string) string {
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:])
}
