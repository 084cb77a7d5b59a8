// Package planning collapses raw plan rows into the per-type view shown for a
// month or a whole year.
package planning

import (
	"slices"

	"penny/internal/core"
	"penny/internal/recurrence"
)

type Scope string

const (
	SingleMonth Scope = "month"
	TotalYear   Scope = "year"
)

type Status string

const (
	Balanced    Status = "Balanced"
	Overbudget  Status = "Overbudget"
	Underbudget Status = "Underbudget"
)

// Entry is one category inside a bucket after merging its rows.
type Entry struct {
	Category string          `json:"category"`
	Amount   int64           `json:"amount"`
	Rule     recurrence.Rule `json:"-"`
	RuleText string          `json:"recurrence"`
	DueText  string          `json:"due"`
}

// Bucket holds the entries of one entry type ordered by amount, largest first.
type Bucket struct {
	Type    core.EntryType `json:"type"`
	Total   int64          `json:"total"`
	Entries []Entry        `json:"entries"`
}

type View struct {
	Period  core.Period               `json:"period"`
	Scope   Scope                     `json:"scope"`
	PerType map[core.EntryType]Bucket `json:"per_type"`
	Balance int64                     `json:"balance"`
	Status  Status                    `json:"status"`
}

// Buckets returns Income, Expenses and Savings in that order.
func (v View) Buckets() []Bucket {
	out := make([]Bucket, 0, len(core.EntryTypes))
	for _, t := range core.EntryTypes {
		out = append(out, v.PerType[t])
	}
	return out
}

// Clone returns a copy that shares no map or slice with v.
func (v View) Clone() View {
	out := v
	if v.PerType != nil {
		out.PerType = make(map[core.EntryType]Bucket, len(v.PerType))
		for t, b := range v.PerType {
			b.Entries = append([]Entry(nil), b.Entries...)
			out.PerType[t] = b
		}
	}
	return out
}

// ScopeOf maps a period to the aggregation window it denotes.
func ScopeOf(p core.Period) Scope {
	if p.IsYear() {
		return TotalYear
	}
	return SingleMonth
}

// StatusOf classifies a balance.
func StatusOf(balance int64) Status {
	switch {
	case balance > 0:
		return Underbudget
	case balance < 0:
		return Overbudget
	}
	return Balanced
}

// Aggregate merges rows that share a (type, category) key. Amounts are
// summed and the rule of the last row seen wins. Rows for a year must
// already be concatenated in month order.
func Aggregate(period core.Period, rows []core.PlanRecord) View {
	v := View{
		Period:  period,
		Scope:   ScopeOf(period),
		PerType: make(map[core.EntryType]Bucket, len(core.EntryTypes)),
	}

	index := make(map[core.EntryType]map[string]int, len(core.EntryTypes))
	for _, t := range core.EntryTypes {
		v.PerType[t] = Bucket{Type: t, Entries: []Entry{}}
		index[t] = make(map[string]int)
	}

	for _, row := range rows {
		b, ok := v.PerType[row.Type]
		if !ok {
			continue
		}
		if i, seen := index[row.Type][row.Category]; seen {
			b.Entries[i].Amount += row.Amount
			b.Entries[i].Rule = row.Rule
		} else {
			index[row.Type][row.Category] = len(b.Entries)
			b.Entries = append(b.Entries, Entry{Category: row.Category, Amount: row.Amount, Rule: row.Rule})
		}
		b.Total += row.Amount
		v.PerType[row.Type] = b
	}

	for t, b := range v.PerType {
		for i := range b.Entries {
			b.Entries[i].RuleText = b.Entries[i].Rule.Kind.String()
			b.Entries[i].DueText = recurrence.Format(b.Entries[i].Rule)
		}
		slices.SortStableFunc(b.Entries, func(x, y Entry) int {
			switch {
			case x.Amount > y.Amount:
				return -1
			case x.Amount < y.Amount:
				return 1
			}
			return 0
		})
		v.PerType[t] = b
	}

	v.Balance = v.PerType[core.Income].Total - v.PerType[core.Expenses].Total - v.PerType[core.Savings].Total
	v.Status = StatusOf(v.Balance)
	return v
}
