package repositories

import (
	"github.com/ssisim/agent-sim-platform/internal/sqltools"
)

// recentFirst is the ORDER BY clause shared by every listing query.
func recentFirst() string {
	var filters sqltools.OrderByFilters
	_ = filters.Add("created_at", true)
	return filters.String()
}
