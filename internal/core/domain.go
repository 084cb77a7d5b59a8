package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"penny/internal/recurrence"
)

const (
	Income   EntryType = "Income"
	Expenses EntryType = "Expenses"
	Savings  EntryType = "Savings"

	Cash       Mode = "Cash"
	Electronic Mode = "Electronic"
)

// EntryTypes lists the plan and transaction types in display order.
var EntryTypes = []EntryType{Income, Expenses, Savings}

type (
	// UserID owns every plan and transaction.
	UserID int64

	EntryType string

	Mode string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID       int64
		Date     Date
		Type     EntryType `validate:"required,oneof=Income Expenses Savings"`
		Category string    `validate:"notblank,max=100"`
		Amount   int64     `validate:"gte=1"`
		Mode     Mode      `validate:"required,oneof=Cash Electronic"`
		Details  string    `validate:"max=200"`
		Flagged  bool
	}

	// DeletedTransaction is a transaction waiting in the undo ledger.
	DeletedTransaction struct {
		Transaction
		DeletedAt time.Time
	}

	// PlanRecord is one raw plan row. Amendments insert new rows; the
	// aggregator collapses rows sharing a (type, category) key.
	PlanRecord struct {
		ID           int64
		Period       Period
		Type         EntryType `validate:"required,oneof=Income Expenses Savings"`
		Category     string    `validate:"notblank,max=100"`
		Amount       int64
		Rule         recurrence.Rule
		CreatedOrder int64
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidType       = errors.New("type must be Income, Expenses or Savings")
	ErrInvalidMode       = errors.New("mode must be Cash or Electronic")
	ErrEmptyCategory     = errors.New("empty category")
	ErrCategoryTooLong   = errors.New("category too long (max 100 characters)")
	ErrDetailsTooLong    = errors.New("details too long (max 200 characters)")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// ParseEntryType accepts a type name in any case.
func ParseEntryType(s string) (EntryType, error) {
	for _, t := range EntryTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "type", Err: ErrInvalidType}
}

// ParseMode accepts a payment mode in any case.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Cash, Electronic} {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "mode", Err: ErrInvalidMode}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads an ISO date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Err: fmt.Errorf("%w: %q", ErrInvalidDate, s)}
	}
	return Date{Time: t}, nil
}

// Period returns the month the date falls in.
func (d Date) Period() Period {
	return MonthPeriod(d.Year(), d.Month())
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	return validateStruct(t)
}

// Validate checks a plan row entered by a user. Amounts start at 1.
func (p PlanRecord) Validate() error {
	if p.Amount < 1 {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return p.validateCommon()
}

// ValidatePromoted checks a row created by promoting a transaction's
// category, which may carry a zero amount.
func (p PlanRecord) ValidatePromoted() error {
	if p.Amount < 0 {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return p.validateCommon()
}

func (p PlanRecord) validateCommon() error {
	if err := p.Period.Validate(); err != nil {
		return &ValidationError{Field: "period", Err: err}
	}
	if err := validateStruct(p); err != nil {
		return err
	}
	return validateRule(p.Rule)
}

func validateRule(r recurrence.Rule) error {
	switch r.Kind {
	case recurrence.KindNone:
		return nil
	case recurrence.KindDaily:
		if len(r.Weekdays) == 0 {
			return &ValidationError{Field: "due", Err: fmt.Errorf("%w: daily plan without weekdays", ErrInvalidRecurrence)}
		}
	case recurrence.KindMonthly:
		if !r.Due.Last && (r.Due.Day < 1 || r.Due.Day > 31) {
			return &ValidationError{Field: "due", Err: recurrence.ErrDueRequired}
		}
	case recurrence.KindCustom:
		if r.Pattern == nil {
			return &ValidationError{Field: "custom", Err: fmt.Errorf("%w: custom plan without pattern", ErrInvalidRecurrence)}
		}
	default:
		return &ValidationError{Field: "recurrence", Err: ErrInvalidRecurrence}
	}
	return nil
}
