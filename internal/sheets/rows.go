package sheets

import (
	"fmt"

	"penny/internal/planning"
)

func prefixed(prefix string, user int64, periodKey string) string {
	return fmt.Sprintf("%s %d %s", prefix, user, periodKey)
}

// Rows lays a view out as sheet rows: a header, then for each type a total
// row followed by its entries, then the balance and the status.
func Rows(view planning.View) [][]any {
	title := view.Period.Key()
	if view.Scope == planning.TotalYear {
		title = "Total Year " + title
	}
	rows := [][]any{
		{title, "", "", "", ""},
		{"Type", "Category", "Amount", "Recurrence", "Due"},
	}
	for _, b := range view.Buckets() {
		rows = append(rows, []any{string(b.Type), "Total", b.Total, "", ""})
		for _, e := range b.Entries {
			rows = append(rows, []any{"", e.Category, e.Amount, e.RuleText, e.DueText})
		}
	}
	rows = append(rows,
		[]any{"Balance", "", view.Balance, "", ""},
		[]any{"Status", "", string(view.Status), "", ""},
	)
	return rows
}
