package approval

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Kind names the submission types that go through the approval gate
type Kind string

const (
	KindSale       Kind = "sale"
	KindExpense    Kind = "expense"
	KindProduction Kind = "production"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindSale, KindExpense, KindProduction:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// RejectRequest carries the optional rejection reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Decision is the outcome of an approve or reject. Record holds the updated
// sale, expense or production log.
type Decision struct {
	Kind             Kind                       `json:"kind"`
	ID               uuid.UUID                  `json:"id"`
	Status           shared.SubmissionStatus    `json:"status"`
	Record           any                        `json:"record"`
	BankTransactions []*finance.BankTransaction `json:"bankTransactions,omitempty"`
	Movements        []*inventory.StockMovement `json:"movements,omitempty"`
}

func requireOwner(principal identity.Principal, action string) error {
	return principal.Require(identity.IsOwner, action)
}
