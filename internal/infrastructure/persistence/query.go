package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate takes an exclusive row lock on the selected rows until the
// transaction ends. The sqlite dialect drops locking clauses.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// forShare takes a shared row lock on the selected rows
func forShare(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "SHARE"})
}

// translateError maps gorm.ErrRecordNotFound to a NOT_FOUND domain error and
// wraps everything else with the failed operation.
func translateError(err error, resource, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists, resource+" already exists")
	}
	return fmt.Errorf("%s %s: %w", op, resource, err)
}

// isUniqueViolation recognises duplicate keys whether or not gorm translated
// the driver error
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// paginate applies ordering and paging to a list query
func paginate(query *gorm.DB, filter shared.Filter, allowed sortColumns, defaultField string) *gorm.DB {
	query = orderBy(query, allowed.resolve(filter.OrderBy, defaultField), descending(filter.OrderDir))
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// dateRange restricts a query to [From, To] on the given date column
func dateRange(query *gorm.DB, filter shared.Filter, column string) *gorm.DB {
	if filter.From != nil {
		query = query.Where(column+" >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where(column+" <= ?", *filter.To)
	}
	return query
}

// findPage counts the filtered rows and loads one page of them
func findPage[T any](query *gorm.DB, filter shared.Filter, allowed sortColumns, defaultField string, preload ...string) ([]T, int64, error) {
	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []T
	q := paginate(base, filter, allowed, defaultField)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// deleteByRestaurant removes every row of model owned by the restaurant and returns the count
func deleteByRestaurant(db *gorm.DB, model any, restaurantID any) (int64, error) {
	result := db.Where("restaurant_id = ?", restaurantID).Delete(model)
	return result.RowsAffected, result.Error
}

// countByRestaurant counts the rows of model owned by the restaurant
func countByRestaurant(db *gorm.DB, model any, restaurantID any) (int64, error) {
	var n int64
	err := db.Model(model).Where("restaurant_id = ?", restaurantID).Count(&n).Error
	return n, err
}

// whereFilters applies equality conditions for the filter keys present in columns
func whereFilters(query *gorm.DB, filter shared.Filter, columns map[string]string) *gorm.DB {
	for key, column := range columns {
		if v, ok := filter.Filters[key]; ok && v != nil && v != "" {
			query = query.Where(column+" = ?", v)
		}
	}
	return query
}

// search applies a case-insensitive LIKE on the given columns
func search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		conds[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}
