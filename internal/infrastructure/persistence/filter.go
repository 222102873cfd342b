package persistence

import (
	"fmt"
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination, ordering and equality filters to a query.
// Order columns are validated against the sortable whitelist so user input
// never reaches the ORDER BY clause raw.
func applyFilter(query *gorm.DB, filter shared.Filter, sortable map[string]bool) *gorm.DB {
	for key, value := range filter.Filters {
		if sortable[key] {
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}

	orderBy := filter.OrderBy
	if !sortable[orderBy] {
		orderBy = "created_at"
	}
	orderDir := "desc"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	return query
}
