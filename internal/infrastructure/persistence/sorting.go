package persistence

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// defaultSortColumn orders every listing unless the caller picked another column
const defaultSortColumn = "created_at"

// sortColumns is the set of columns a listing may be ordered by. Only names
// from the set ever reach the ORDER BY clause.
type sortColumns map[string]struct{}

func columns(names ...string) sortColumns {
	set := sortColumns{"id": {}, "created_at": {}, "updated_at": {}}
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// pick returns column when it is allowed, otherwise the default
func (s sortColumns) pick(column string) string {
	column = strings.TrimSpace(column)
	if _, ok := s[column]; ok {
		return column
	}
	return defaultSortColumn
}

var (
	userSortColumns     = columns("username", "email", "first_name", "last_name", "role", "last_login_at")
	categorySortColumns = columns("name")
	productSortColumns  = columns("title", "price", "stock")
	orderSortColumns    = columns("order_number", "total_amount", "status")
)

// sortDirection maps anything but "asc" to DESC, newest first
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// applySortAndPage orders by an allowed column and applies limit/offset
// unless the filter turned pagination off.
func applySortAndPage(query *gorm.DB, filter shared.Filter, allowed sortColumns) *gorm.DB {
	query = query.Order(allowed.pick(filter.OrderBy) + " " + sortDirection(filter.OrderDir))
	if !filter.Paginate {
		return query
	}
	filter.Normalize()
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}
