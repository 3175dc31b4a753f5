package persistence

import (
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list query may order by. Anything
// else falls back to the repository's default column.
type sortColumns []string

func sortable(columns ...string) sortColumns {
	return append(sortColumns{"id", "created_at", "updated_at"}, columns...)
}

var (
	submissionSort      = sortable("date", "status", "approved_at")
	inventoryItemSort   = sortable("name", "category", "current_stock", "min_stock")
	customerSort        = sortable("name", "customer_type", "is_active")
	debtSort            = sortable("due_date", "status", "remaining_amount")
	bankTransactionSort = sortable("date", "amount", "status", "confirmed_at")
)

func (s sortColumns) resolve(requested, fallback string) string {
	if requested = strings.TrimSpace(requested); slices.Contains(s, requested) {
		return requested
	}
	return fallback
}

// descending is the default. Only "asc" in any case flips it.
func descending(dir string) bool {
	return !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// orderBy sorts on column and then on id so pages are stable. The column
// is quoted by the dialect, never spliced into SQL.
func orderBy(query *gorm.DB, column string, desc bool) *gorm.DB {
	if column != "" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
	if column != "id" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	return query
}
