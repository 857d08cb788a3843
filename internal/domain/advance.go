package domain

import "time"

// Advance is a cash disbursement recorded independently of a cash box.
// CashBoxID is nil while unattached; attaching binds it to exactly one box.
type Advance struct {
	ID        int64
	OwnerID   int64
	CashBoxID *int64
	Date      time.Time
	Name      string
	Outflow   string
	Visible   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attached reports whether the advance is currently bound to a cash box.
func (a *Advance) Attached() bool {
	return a.CashBoxID != nil
}
