package entity

import "time"

// Payment is one completed charge in the append-only ledger. Records are
// never updated or deleted; corrections happen downstream, with the ledger
// row as the anchor.
//
// IdempotencyKey is caller-supplied and unique when present, so a replayed
// settlement maps back to the original row instead of appending a second
// one.
type Payment struct {
	ID             string
	Email          string
	AmountCents    int64
	ClassIDs       []string
	IdempotencyKey string
	CreatedAt      time.Time
}

// Amount returns the settled amount in major currency units.
func (p *Payment) Amount() float64 {
	return float64(p.AmountCents) / 100
}
