package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CashBox is one trip-scoped container of transactions for one employee.
// Boxes form a sequence per employee ordered by BoxNumber; each box's
// closing balance carries forward as the next box's opening balance.
type CashBox struct {
	ID             int64
	EmployeeID     int64
	BoxNumber      int
	OpeningBalance decimal.Decimal
	BusinessDate   time.Time
	Visible        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GroupBoxesByEmployee splits boxes into per-employee chains.
func GroupBoxesByEmployee(boxes []*CashBox) map[int64][]*CashBox {
	grouped := make(map[int64][]*CashBox)
	for _, box := range boxes {
		grouped[box.EmployeeID] = append(grouped[box.EmployeeID], box)
	}

	return grouped
}

// SortBoxesByNumber orders a chain ascending by BoxNumber, in place.
// The sort is stable so boxes sharing a number keep their input order.
func SortBoxesByNumber(boxes []*CashBox) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].BoxNumber < boxes[j].BoxNumber
	})
}

// BoxTotals is the outcome of cascading one box: the opening balance it
// should carry, whether that differs from the stored value, and the sums
// over its entries and advances.
type BoxTotals struct {
	Box            *CashBox
	OpeningBalance decimal.Decimal
	OpeningChanged bool
	InflowSum      decimal.Decimal
	OutflowSum     decimal.Decimal
	AdvanceSum     decimal.Decimal
	ClosingBalance decimal.Decimal
}

// CascadeChain walks boxes (already sorted ascending by BoxNumber) carrying
// the running balance forward. The first box keeps its stored opening
// balance as the source of truth; every later box opens with the previous
// closing balance. Amounts that fail to parse are left out of the sums.
//
// Advances add to the box balance: they are cash already disbursed to the
// employee, reconciled into the box as incoming value.
func CascadeChain(
	boxes []*CashBox,
	entriesByBox map[int64][]*LedgerEntry,
	advancesByBox map[int64][]*Advance,
) []BoxTotals {
	totals := make([]BoxTotals, 0, len(boxes))

	var running decimal.Decimal
	for i, box := range boxes {
		opening := box.OpeningBalance
		changed := false

		if i > 0 {
			opening = running
			changed = !opening.Equal(box.OpeningBalance)
		}

		var inflow, outflow, advance decimal.Decimal
		for _, e := range entriesByBox[box.ID] {
			if v, ok := ParseAmount(e.Inflow); ok {
				inflow = inflow.Add(v)
			}
			if v, ok := ParseAmount(e.Outflow); ok {
				outflow = outflow.Add(v)
			}
		}

		for _, a := range advancesByBox[box.ID] {
			if v, ok := ParseAmount(a.Outflow); ok {
				advance = advance.Add(v)
			}
		}

		closing := opening.Add(inflow).Add(advance).Sub(outflow)

		totals = append(totals, BoxTotals{
			Box:            box,
			OpeningBalance: opening,
			OpeningChanged: changed,
			InflowSum:      inflow,
			OutflowSum:     outflow,
			AdvanceSum:     advance,
			ClosingBalance: closing,
		})

		running = closing
	}

	return totals
}
