package services

import (
	"context"
	"fmt"
	"time"

	"penny/internal/amqp"
	"penny/internal/core"
	"penny/internal/log"
	"penny/internal/planning"
	"penny/internal/recurrence"
)

// maxPlanningHorizon bounds how far AvailableYears walks forward.
const maxPlanningHorizon = 50

type PlanService struct {
	store  Store
	locks  *userLocks
	views  *viewCache
	events *eventPublisher
	logger *log.Logger
}

// PlanInput is a plan as entered by a user. Due holds the monthly due day,
// Weekdays the comma separated days of a daily plan and Custom the free
// text of a custom recurrence.
type PlanInput struct {
	Period     core.Period    `json:"period"`
	Type       core.EntryType `json:"type"`
	Category   string         `json:"category"`
	Amount     int64          `json:"amount"`
	Recurrence string         `json:"recurrence"`
	Due        string         `json:"due"`
	Weekdays   string         `json:"weekdays"`
	Custom     string         `json:"custom"`
}

// BuildRule turns the recurrence fields of in into a rule. Monthly due days
// are checked against the length of the plan's month.
func BuildRule(in PlanInput) (recurrence.Rule, error) {
	kind, ok := recurrence.ParseKind(in.Recurrence)
	if !ok {
		return recurrence.Rule{}, &core.ValidationError{Field: "recurrence", Err: fmt.Errorf("%w: %q", core.ErrInvalidRecurrence, in.Recurrence)}
	}
	switch kind {
	case recurrence.KindDaily:
		days, err := recurrence.ParseWeekdays(in.Weekdays)
		if err != nil {
			return recurrence.Rule{}, &core.ValidationError{Field: "weekdays", Err: err}
		}
		return recurrence.Daily(days...), nil
	case recurrence.KindMonthly:
		due, err := recurrence.ParseDue(in.Due, in.Period.DaysInMonth())
		if err != nil {
			return recurrence.Rule{}, &core.ValidationError{Field: "due", Err: err}
		}
		return recurrence.Monthly(due), nil
	case recurrence.KindCustom:
		return recurrence.Parse(in.Custom)
	}
	return recurrence.None(), nil
}

// AddPlan stores a new plan row. Earlier rows for the same category stay;
// views add them up.
func (s *PlanService) AddPlan(ctx context.Context, user core.UserID, in PlanInput) (core.PlanRecord, error) {
	rule, err := BuildRule(in)
	if err != nil {
		return core.PlanRecord{}, err
	}
	rec := core.PlanRecord{
		Period:   in.Period,
		Type:     in.Type,
		Category: in.Category,
		Amount:   in.Amount,
		Rule:     rule,
	}
	if err := rec.Validate(); err != nil {
		return core.PlanRecord{}, err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	id, err := s.store.InsertPlan(ctx, user, rec)
	if err != nil {
		return core.PlanRecord{}, fmt.Errorf("insert plan: %w", err)
	}
	rec.ID = id
	s.views.invalidate(user)

	s.logger.InfoContext(ctx, "Plan added", log.NewFields().
		WithPlan(int64(user), rec.Period.Key(), string(rec.Type), rec.Category, rec.Amount).
		WithOperation(log.OpCreate).ToSlice()...)

	ev := amqp.NewLedgerEvent(amqp.KindPlanChanged, int64(user), rec.Period.Key())
	ev.Type, ev.Category = string(rec.Type), rec.Category
	s.events.publish(ctx, ev)
	return rec, nil
}

// View aggregates the plan of a month, or of a whole year by concatenating
// its twelve months in order followed by rows stored under the year itself.
func (s *PlanService) View(ctx context.Context, user core.UserID, period core.Period) (planning.View, error) {
	if err := period.Validate(); err != nil {
		return planning.View{}, &core.ValidationError{Field: "period", Err: err}
	}

	unlock := s.locks.lock(user)
	defer unlock()

	if v, ok := s.views.get(user, period); ok {
		return v, nil
	}

	rows, err := s.rowsFor(ctx, user, period)
	if err != nil {
		return planning.View{}, err
	}
	v := planning.Aggregate(period, rows)
	s.views.set(user, v)

	s.logger.DebugContext(ctx, "Plan view aggregated",
		log.FieldUserID, user,
		log.FieldPeriod, period.Key(),
		log.FieldCount, len(rows),
		log.FieldOperation, log.OpAggregate)
	return v, nil
}

func (s *PlanService) rowsFor(ctx context.Context, user core.UserID, period core.Period) ([]core.PlanRecord, error) {
	scopes := period.Months()
	if period.IsYear() {
		scopes = append(scopes, period)
	}
	var rows []core.PlanRecord
	for _, p := range scopes {
		part, err := s.store.ListPlans(ctx, user, p)
		if err != nil {
			return nil, fmt.Errorf("list plans for %s: %w", p.Key(), err)
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

// CopyPlan re-inserts every raw row of from under to and returns how many
// rows were copied. Copying a year copies each month into the same month
// of the target year.
func (s *PlanService) CopyPlan(ctx context.Context, user core.UserID, from, to core.Period) (int, error) {
	if err := from.Validate(); err != nil {
		return 0, &core.ValidationError{Field: "from", Err: err}
	}
	if err := to.Validate(); err != nil {
		return 0, &core.ValidationError{Field: "to", Err: err}
	}
	if from.IsYear() != to.IsYear() {
		return 0, &core.ValidationError{Field: "to", Err: fmt.Errorf("%w: cannot copy between a month and a year", core.ErrInvalidPeriod)}
	}
	if from == to {
		return 0, &core.ValidationError{Field: "to", Err: fmt.Errorf("%w: source and target are the same", core.ErrInvalidPeriod)}
	}

	unlock := s.locks.lock(user)
	defer unlock()

	pairs := [][2]core.Period{{from, to}}
	if from.IsYear() {
		pairs = pairs[:0]
		for m := time.January; m <= time.December; m++ {
			pairs = append(pairs, [2]core.Period{core.MonthPeriod(from.Year, m), core.MonthPeriod(to.Year, m)})
		}
		pairs = append(pairs, [2]core.Period{from, to})
	}

	var batch []core.PlanRecord
	for _, pair := range pairs {
		rows, err := s.store.ListPlans(ctx, user, pair[0])
		if err != nil {
			return 0, fmt.Errorf("list plans for %s: %w", pair[0].Key(), err)
		}
		for _, row := range rows {
			row.ID = 0
			row.Period = pair[1]
			batch = append(batch, row)
		}
	}

	copied := 0
	if len(batch) > 0 {
		n, err := s.store.InsertPlans(ctx, user, batch)
		// A failed batch may still have written rows on a non-atomic store.
		s.views.invalidate(user)
		if err != nil {
			return n, fmt.Errorf("copy plan rows: %w", err)
		}
		copied = n
		s.events.publish(ctx, amqp.NewLedgerEvent(amqp.KindPlanChanged, int64(user), to.Key()))
	}

	s.logger.InfoContext(ctx, "Plan copied",
		log.FieldUserID, user,
		"from", from.Key(),
		"to", to.Key(),
		log.FieldCount, copied,
		log.FieldOperation, log.OpCopy)
	return copied, nil
}

// AvailableYears lists the years a user can plan for: the current year
// plus one more for every consecutive year that already has a December plan.
func (s *PlanService) AvailableYears(ctx context.Context, user core.UserID, currentYear int) ([]int, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	years := []int{currentYear}
	for y := currentYear; y < currentYear+maxPlanningHorizon; y++ {
		rows, err := s.store.ListPlans(ctx, user, core.MonthPeriod(y, time.December))
		if err != nil {
			return nil, fmt.Errorf("check december plan %d: %w", y, err)
		}
		if len(rows) == 0 {
			break
		}
		years = append(years, y+1)
	}
	return years, nil
}

// PlanDetails is the latest raw row for a key with its recurrence rendered
// for editing.
type PlanDetails struct {
	Plan       core.PlanRecord `json:"-"`
	Period     core.Period     `json:"period"`
	Type       core.EntryType  `json:"type"`
	Category   string          `json:"category"`
	Amount     int64           `json:"amount"`
	Recurrence string          `json:"recurrence"`
	Due        string          `json:"due"`
	Custom     string          `json:"custom"`
}

// PlanDetails returns the most recent row stored for (period, type, category).
func (s *PlanService) PlanDetails(ctx context.Context, user core.UserID, period core.Period, t core.EntryType, category string) (PlanDetails, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	rows, err := s.store.ListPlans(ctx, user, period)
	if err != nil {
		return PlanDetails{}, fmt.Errorf("list plans for %s: %w", period.Key(), err)
	}

	var found *core.PlanRecord
	for i := range rows {
		if rows[i].Type == t && rows[i].Category == category {
			found = &rows[i]
		}
	}
	if found == nil {
		return PlanDetails{}, fmt.Errorf("plan %s/%s in %s: %w", t, category, period.Key(), core.ErrNotFound)
	}

	d := PlanDetails{
		Plan:       *found,
		Period:     found.Period,
		Type:       found.Type,
		Category:   found.Category,
		Amount:     found.Amount,
		Recurrence: found.Rule.Kind.String(),
	}
	switch found.Rule.Kind {
	case recurrence.KindCustom:
		d.Custom = recurrence.Format(found.Rule)
	default:
		d.Due = recurrence.Format(found.Rule)
	}
	return d, nil
}
