package core

// MonthTrend sums one month of transactions by type.
type MonthTrend struct {
	Period   Period
	Income   int64
	Expenses int64
	Savings  int64
	Balance  int64
}

// Add accumulates a transaction into the matching total and refreshes Balance.
func (m *MonthTrend) Add(t Transaction) {
	switch t.Type {
	case Income:
		m.Income += t.Amount
	case Expenses:
		m.Expenses += t.Amount
	case Savings:
		m.Savings += t.Amount
	}
	m.Balance = m.Income - m.Expenses - m.Savings
}
