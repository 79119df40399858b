package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewPaymentReference generates a human-shareable payment reference of the
// form GEO_<epoch-ms>_<random>. Uniqueness rests on the random suffix rather
// than a retry loop; collisions are rejected by the unique index on
// payments.reference.
func NewPaymentReference() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return strings.ToUpper(fmt.Sprintf("GEO_%d_%s", time.Now().UnixMilli(), suffix))
}

// NewInvoiceNumber generates an invoice number of the form
// INV-<year>-<6-digit suffix of the current epoch milliseconds>.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", now.Year(), now.UnixMilli()%1_000_000)
}

// NewBatchID generates a payout batch identifier from the creation instant
// and the tail of the seller id.
func NewBatchID(sellerID string, now time.Time) string {
	tail := sellerID
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return fmt.Sprintf("BATCH_%d_%s", now.UnixMilli(), tail)
}
