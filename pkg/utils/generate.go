package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== GATEWAY TXN ID ====================

const txnIDCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTxnID creates a short alphanumeric transaction id safe for the
// payment gateway's charset. Deliberately not the booking id: internal ids
// never leave the server. Uniqueness is enforced by the bookings table; the
// caller retries on a collision.
func GenerateTxnID() string {
	var sb strings.Builder
	sb.WriteString("TRP")
	sb.WriteString(strings.ToUpper(strconv.FormatInt(time.Now().Unix(), 36)))
	for i := 0; i < 6; i++ {
		sb.WriteByte(txnIDCharset[rand.Intn(len(txnIDCharset))])
	}

	return sb.String()
}
