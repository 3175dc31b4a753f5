package reset

import (
	"sort"
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
)

// Category is a group of tenant records cleared together
type Category string

const (
	CategorySales      Category = "sales"
	CategoryExpenses   Category = "expenses"
	CategoryDebts      Category = "debts"
	CategoryProduction Category = "production"
	CategoryInventory  Category = "inventory"
	CategoryBank       Category = "bank"
)

// Order is the execution order: children before parents
var Order = []Category{
	CategorySales,
	CategoryExpenses,
	CategoryDebts,
	CategoryProduction,
	CategoryInventory,
	CategoryBank,
}

func (c Category) rank() int {
	for i, o := range Order {
		if o == c {
			return i
		}
	}
	return -1
}

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	return c.rank() >= 0
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// ParseCategories validates, de-duplicates and sorts raw category names into execution order
func ParseCategories(raw []string) ([]Category, error) {
	if len(raw) == 0 {
		return nil, shared.NewValidationError("At least one reset type is required")
	}
	seen := make(map[Category]bool, len(raw))
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		c := Category(r)
		if !c.IsValid() {
			return nil, shared.NewValidationError("Unknown reset type: " + r + " (expected one of " + strings.Join(Names(), ", ") + ")")
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rank() < out[j].rank() })
	return out, nil
}

// Names returns the category names in execution order
func Names() []string {
	names := make([]string, len(Order))
	for i, c := range Order {
		names[i] = c.String()
	}
	return names
}

// Selection is a set of categories chosen for one reset
type Selection map[Category]bool

// NewSelection builds a selection from parsed categories
func NewSelection(categories []Category) Selection {
	s := make(Selection, len(categories))
	for _, c := range categories {
		s[c] = true
	}
	return s
}

// Has reports whether the category is selected
func (s Selection) Has(c Category) bool {
	return s[c]
}
