package persistence

import (
	"fmt"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/production"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"gorm.io/gorm"
)

// Models lists every persisted ledger model in dependency order
func Models() []any {
	return []any{
		&identity.Restaurant{},
		&identity.Membership{},
		&partner.Customer{},
		&inventory.InventoryItem{},
		&inventory.StockMovement{},
		&sales.Sale{},
		&sales.SaleItem{},
		&finance.Expense{},
		&finance.ExpenseItem{},
		&finance.ExpensePayment{},
		&finance.Debt{},
		&finance.DebtPayment{},
		&finance.BankTransaction{},
		&production.ProductionLog{},
		&production.ProductionItem{},
	}
}

// schemaIndexes are constraints AutoMigrate cannot express from struct tags alone
var schemaIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_restaurant_date ON sales (restaurant_id, date)",
	"CREATE INDEX IF NOT EXISTS idx_stock_movements_source ON stock_movements (source_type, source_id)",
}

// AutoMigrate creates or updates the ledger tables. Production deployments
// use the SQL migrations; this path serves sqlite and local development.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range schemaIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
