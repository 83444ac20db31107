package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"trip-booking/internal/data/entity"
	"trip-booking/pkg/utils"
)

func testBridge() *Bridge {
	return NewBridge(utils.GatewayConfig{
		Key:         "merchant-key",
		Secret:      "merchant-salt",
		PaymentURL:  "https://pay.example.com/process",
		SuccessURL:  "https://shop.example.com/payment/success",
		FailureURL:  "https://shop.example.com/payment/failure",
		ProductInfo: "Trip Booking",
	}, zap.NewNop())
}

func testBooking() *entity.Booking {
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TripID:        uuid.New(),
		ContactName:   "Asha Verma",
		ContactPhone:  "9876543210",
		ContactEmail:  "asha@example.com",
		TotalAmount:   16523.08,
		TxnID:         "TRPABC123XYZ",
		PaymentStatus: entity.PaymentStatusPending,
	}
}

// echo simulates the gateway's return leg for a redirect we issued.
func echo(b *Bridge, p RedirectPayload, status, gatewayRef string) CallbackFields {
	f := CallbackFields{
		Status:      status,
		TxnID:       p.Fields["txnid"],
		Amount:      p.Fields["amount"],
		ProductInfo: p.Fields["productinfo"],
		FirstName:   p.Fields["firstname"],
		Email:       p.Fields["email"],
		GatewayRef:  gatewayRef,
	}
	f.Hash = b.signResponse(f)
	return f
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "16523.08", FormatAmount(16523.08))
	assert.Equal(t, "1799.90", FormatAmount(1799.9))
	assert.Equal(t, "17999.00", FormatAmount(17999))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Asha", FirstName("Asha Verma"))
	assert.Equal(t, "Asha", FirstName("Asha"))
	assert.Equal(t, "", FirstName("  "))
}

func TestBuildRedirect_SignedFields(t *testing.T) {
	b := testBridge()
	booking := testBooking()

	p := b.BuildRedirect(booking)

	assert.Equal(t, "https://pay.example.com/process", p.ActionURL)
	assert.Equal(t, "TRPABC123XYZ", p.Fields["txnid"])
	assert.Equal(t, "16523.08", p.Fields["amount"])
	assert.Equal(t, "Asha", p.Fields["firstname"])
	assert.Equal(t, "asha@example.com", p.Fields["email"])
	assert.NotContains(t, p.Fields, "salt", "the secret must never leave the server")

	// The request hash is the documented pipe concatenation.
	payload := strings.Join([]string{
		"merchant-key", "TRPABC123XYZ", "16523.08", "Trip Booking", "Asha", "asha@example.com",
		"", "", "", "", "", "", "", "", "", "",
		"merchant-salt",
	}, "|")
	sum := sha512.Sum512([]byte(payload))
	assert.Equal(t, hex.EncodeToString(sum[:]), p.Fields["hash"])
}

func TestVerifyCallback_RoundTrip(t *testing.T) {
	b := testBridge()
	p := b.BuildRedirect(testBooking())

	f := echo(b, p, "success", "403993715531")

	assert.True(t, b.VerifyCallback(f))
	assert.Equal(t, entity.PaymentStatusPaid, MapStatus(f.Status))
}

func TestVerifyCallback_RejectsTampering(t *testing.T) {
	b := testBridge()
	p := b.BuildRedirect(testBooking())

	cases := map[string]func(*CallbackFields){
		"amount":      func(f *CallbackFields) { f.Amount = "1.00" },
		"status":      func(f *CallbackFields) { f.Status = "success2" },
		"txnid":       func(f *CallbackFields) { f.TxnID = "TRPOTHER" },
		"email":       func(f *CallbackFields) { f.Email = "evil@example.com" },
		"hash itself": func(f *CallbackFields) { f.Hash = strings.Repeat("0", 128) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := echo(b, p, "success", "403993715531")
			mutate(&f)
			assert.False(t, b.VerifyCallback(f), "tampered %s must not verify", name)
		})
	}
}

func TestVerifyCallback_AmountStringExactness(t *testing.T) {
	b := testBridge()
	p := b.BuildRedirect(testBooking())
	f := echo(b, p, "success", "ref")

	// Same numeric value, different string: a trailing-zero difference must
	// break the byte-for-byte comparison.
	f.Amount = "16523.080"
	assert.False(t, b.VerifyCallback(f))
}

func TestVerifyWithBooking_RecoversOmittedFields(t *testing.T) {
	b := testBridge()
	booking := testBooking()
	p := b.BuildRedirect(booking)
	f := echo(b, p, "success", "ref-1")

	// Gateway omitted the customer fields it does not always echo.
	f.Email = ""
	f.FirstName = ""

	valid, retried := b.VerifyWithBooking(f, booking)
	assert.True(t, valid, "recomputing with persisted data must repair the mismatch")
	assert.True(t, retried)
}

func TestVerifyWithBooking_StillRejectsRealTampering(t *testing.T) {
	b := testBridge()
	booking := testBooking()
	p := b.BuildRedirect(booking)

	f := echo(b, p, "failure", "ref-1")
	f.Status = "success" // flip the outcome

	valid, _ := b.VerifyWithBooking(f, booking)
	assert.False(t, valid)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, entity.PaymentStatusPaid, MapStatus("success"))
	assert.Equal(t, entity.PaymentStatusPaid, MapStatus(" SUCCESS "))
	assert.Equal(t, entity.PaymentStatusFailed, MapStatus("failure"))
	assert.Equal(t, entity.PaymentStatusFailed, MapStatus("pending"))
	assert.Equal(t, entity.PaymentStatusFailed, MapStatus(""))
}
