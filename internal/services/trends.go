package services

import (
	"context"
	"fmt"
	"time"

	"penny/internal/core"
	"penny/internal/log"
)

const (
	DefaultTrendMonths = 6
	maxTrendMonths     = 120
)

type TrendService struct {
	store  Store
	locks  *userLocks
	logger *log.Logger
}

// MonthlyTrends sums income, expenses and savings for the months months
// ending with the month of now, oldest first.
func (s *TrendService) MonthlyTrends(ctx context.Context, user core.UserID, now time.Time, months int) ([]core.MonthTrend, error) {
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 0 || months > maxTrendMonths {
		return nil, &core.ValidationError{Field: "months", Err: fmt.Errorf("must be between 1 and %d", maxTrendMonths)}
	}

	periods := make([]core.Period, months)
	p := core.PeriodOf(now)
	for i := months - 1; i >= 0; i-- {
		periods[i] = p
		p = p.Previous()
	}

	unlock := s.locks.lock(user)
	defer unlock()

	window := core.DateRange{From: periods[0].Range().From, To: periods[months-1].Range().To}
	txs, err := s.store.ListTransactions(ctx, user, window)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	trends := make([]core.MonthTrend, months)
	index := make(map[core.Period]int, months)
	for i, p := range periods {
		trends[i].Period = p
		index[p] = i
	}
	for _, tx := range txs {
		if i, ok := index[tx.Date.Period()]; ok {
			trends[i].Add(tx)
		}
	}

	s.logger.DebugContext(ctx, "Monthly trends computed",
		log.FieldUserID, user,
		log.FieldCount, len(txs))
	return trends, nil
}
