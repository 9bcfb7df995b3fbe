package billing

import (
	"errors"
	"math"
	"math/bits"
)

var (
	ErrNegativeRecip     = errors.New("received amount cannot be negative")
	ErrRecipExceedsTotal = errors.New("received amount cannot exceed the order total")
	ErrTotalOverflow     = errors.New("order total is too large")
)

// Line is the priced part of an order line item.
type Line struct {
	Price  Money
	Amount int64
}

// Totals is the derived financial state of an order. Remained is always
// Total - Recip.
type Totals struct {
	Total    Money
	Recip    Money
	Remained Money
}

// ComputeTotal sums price x amount over lines. Non-positive prices or amounts
// contribute nothing. A sum that does not fit in Money is ErrTotalOverflow.
func ComputeTotal(lines []Line) (Money, error) {
	var total uint64
	for _, line := range lines {
		if line.Price <= 0 || line.Amount <= 0 {
			continue
		}
		hi, product := bits.Mul64(uint64(line.Price), uint64(line.Amount))
		if hi != 0 || product > math.MaxInt64 {
			return 0, ErrTotalOverflow
		}
		sum, carry := bits.Add64(total, product, 0)
		if carry != 0 || sum > math.MaxInt64 {
			return 0, ErrTotalOverflow
		}
		total = sum
	}
	return Money(total), nil
}

// ComputeTotals derives the triple for lines and recip. Only the total is
// checked; recip bounds are left to Validate.
func ComputeTotals(lines []Line, recip Money) (Totals, error) {
	total, err := ComputeTotal(lines)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Total: total, Recip: recip, Remained: total - recip}, nil
}

// Reconcile recomputes the triple after a mutation. When recip is nil the
// previously received amount carries over.
func Reconcile(lines []Line, previousRecip Money, recip *Money) (Totals, error) {
	effective := previousRecip
	if recip != nil {
		effective = *recip
	}
	totals, err := ComputeTotals(lines, effective)
	if err != nil {
		return Totals{}, err
	}
	return totals, totals.Validate()
}

func (t Totals) Validate() error {
	if t.Recip < 0 {
		return ErrNegativeRecip
	}
	if t.Recip > t.Total {
		return ErrRecipExceedsTotal
	}
	return nil
}

// WithRecip keeps the total and replaces the received amount.
func (t Totals) WithRecip(recip Money) (Totals, error) {
	next := Totals{Total: t.Total, Recip: recip, Remained: t.Total - recip}
	return next, next.Validate()
}

// MarkPaid settles the order in full.
func (t Totals) MarkPaid() Totals {
	return Totals{Total: t.Total, Recip: t.Total}
}

// PayRemaining adds the outstanding balance to what was received. The balance
// is taken from Total - Recip, never from a stored Remained.
func (t Totals) PayRemaining() Totals {
	outstanding := t.Total - t.Recip
	return Totals{Total: t.Total, Recip: t.Recip + outstanding}
}
