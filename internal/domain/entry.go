package domain

import "time"

// LedgerEntry is a dated inflow or outflow recorded directly against a cash
// box. Amounts are kept as the raw text the user submitted; parsing happens
// at sum time so one malformed historical row never blocks recomputation.
// An ID of zero means the entry has not been persisted yet.
type LedgerEntry struct {
	ID          int64
	CashBoxID   int64
	Date        time.Time
	Description string
	Document    string
	Inflow      string
	Outflow     string
	Visible     bool
	CreatedAt   time.Time
}
