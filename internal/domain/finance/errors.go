package finance

import (
	"fmt"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var errInvalidAmount = shared.NewDomainError(shared.CodeInvalidAmount, "Payment amount must be greater than zero")

func overpaymentError(amount, remaining decimal.Decimal) error {
	return shared.NewDomainError(shared.CodeOverpayment,
		fmt.Sprintf("Payment of %s exceeds the remaining amount of %s", amount.String(), remaining.String()))
}
