package finance

import "github.com/shopspring/decimal"

// PaymentStatus is the settlement state of an expense. It is a pure function
// of the paid total against the expense amount; see DerivePaymentStatus.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "Unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "PartiallyPaid"
	PaymentStatusPaid          PaymentStatus = "Paid"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartiallyPaid, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// DerivePaymentStatus maps paid vs amount to a status:
// 0 -> Unpaid, 0 < paid < amount -> PartiallyPaid, paid == amount -> Paid.
func DerivePaymentStatus(paid, amount decimal.Decimal) PaymentStatus {
	switch {
	case !paid.IsPositive():
		return PaymentStatusUnpaid
	case paid.LessThan(amount):
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusPaid
	}
}

// QuickAmounts are the 25/50/75/100 percent shortcuts of a remaining amount,
// rounded down to whole francs except for 100 percent which is exact.
type QuickAmounts struct {
	Quarter       decimal.Decimal `json:"25"`
	Half          decimal.Decimal `json:"50"`
	ThreeQuarters decimal.Decimal `json:"75"`
	Full          decimal.Decimal `json:"100"`
}

// NewQuickAmounts computes the shortcuts for a remaining amount
func NewQuickAmounts(remaining decimal.Decimal) QuickAmounts {
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	pct := func(p int64) decimal.Decimal {
		return remaining.Mul(decimal.NewFromInt(p)).Div(decimal.NewFromInt(100)).Floor()
	}
	return QuickAmounts{
		Quarter:       pct(25),
		Half:          pct(50),
		ThreeQuarters: pct(75),
		Full:          remaining,
	}
}

// checkAllocation applies the allocator's guard order shared by expenses and debts
func checkAllocation(amount, paidSoFar, due decimal.Decimal) error {
	if !amount.IsPositive() {
		return errInvalidAmount
	}
	if paidSoFar.Add(amount).GreaterThan(due) {
		return overpaymentError(amount, due.Sub(paidSoFar))
	}
	return nil
}
