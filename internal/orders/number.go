package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const orderNumberPrefix = "SPK"

// NewOrderNumber mints a human-facing order label like SPK-20260828-4fa1c9.
// It is printed on invoices and used in lookups; the row keeps its own UUID
// primary key. Uniqueness is enforced by the database index.
func NewOrderNumber(now time.Time) (string, error) {
	var suffix [3]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("generating order number suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.Format("20060102"), hex.EncodeToString(suffix[:])), nil
}
