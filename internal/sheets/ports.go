package sheets

import (
	"context"

	"penny/internal/planning"
)

// ViewWriter publishes an aggregated plan view to a named tab, replacing
// whatever the tab held before.
type ViewWriter interface {
	WriteView(ctx context.Context, tab string, view planning.View) error
}

// TabName is the tab a user's view for period lands in, e.g. "Plan 7 March 2025".
func TabName(prefix string, user int64, periodKey string) string {
	if prefix == "" {
		prefix = "Plan"
	}
	return prefixed(prefix, user, periodKey)
}
