package finance

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Balances are the confirmed-only holdings per payment method
type Balances struct {
	Cash        decimal.Decimal `json:"cash"`
	OrangeMoney decimal.Decimal `json:"orangeMoney"`
	Card        decimal.Decimal `json:"card"`
	Total       decimal.Decimal `json:"total"`
}

// PendingTotals are the aggregates of transactions not yet confirmed
type PendingTotals struct {
	TotalPendingDeposits    decimal.Decimal `json:"totalPendingDeposits"`
	TotalPendingWithdrawals decimal.Decimal `json:"totalPendingWithdrawals"`
}

// BankAggregate is one (method, type, status) bucket summed by the store
type BankAggregate struct {
	Method shared.PaymentMethod
	Type   TransactionType
	Status TransactionStatus
	Total  decimal.Decimal
	Count  int64
}

// ZeroBalances returns balances with every field set to zero
func ZeroBalances() Balances {
	return Balances{Cash: decimal.Zero, OrangeMoney: decimal.Zero, Card: decimal.Zero, Total: decimal.Zero}
}

// FoldAggregates splits buckets into confirmed balances and pending totals.
// Every bucket lands in exactly one of the two results.
func FoldAggregates(buckets []BankAggregate) (Balances, PendingTotals) {
	balances := ZeroBalances()
	pending := PendingTotals{TotalPendingDeposits: decimal.Zero, TotalPendingWithdrawals: decimal.Zero}

	for _, b := range buckets {
		switch b.Status {
		case TransactionStatusConfirmed:
			signed := b.Total.Mul(b.Type.Sign())
			switch b.Method {
			case shared.PaymentMethodCash:
				balances.Cash = balances.Cash.Add(signed)
			case shared.PaymentMethodOrangeMoney:
				balances.OrangeMoney = balances.OrangeMoney.Add(signed)
			case shared.PaymentMethodCard:
				balances.Card = balances.Card.Add(signed)
			default:
				continue
			}
			balances.Total = balances.Total.Add(signed)
		case TransactionStatusPending:
			if b.Type == TransactionTypeDeposit {
				pending.TotalPendingDeposits = pending.TotalPendingDeposits.Add(b.Total)
			} else {
				pending.TotalPendingWithdrawals = pending.TotalPendingWithdrawals.Add(b.Total)
			}
		}
	}
	return balances, pending
}

// ComputeBalances is the replay form of FoldAggregates over raw transactions
func ComputeBalances(txs []BankTransaction) (Balances, PendingTotals) {
	buckets := make([]BankAggregate, 0, len(txs))
	for _, t := range txs {
		buckets = append(buckets, BankAggregate{Method: t.Method, Type: t.Type, Status: t.Status, Total: t.Amount, Count: 1})
	}
	return FoldAggregates(buckets)
}
