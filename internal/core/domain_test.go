package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"penny/internal/recurrence"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func validTransaction() Transaction {
	return Transaction{
		Date:     NewDate(2025, 3, 14),
		Type:     Expenses,
		Category: "Groceries",
		Amount:   42,
		Mode:     Cash,
		Details:  "market",
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		field   string
		wantErr error
	}{
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, "date", ErrInvalidDate},
		{"zero amount", func(tx *Transaction) { tx.Amount = 0 }, "amount", ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = -5 }, "amount", ErrInvalidAmount},
		{"unknown type", func(tx *Transaction) { tx.Type = "Gifts" }, "type", ErrInvalidType},
		{"missing mode", func(tx *Transaction) { tx.Mode = "" }, "mode", ErrInvalidMode},
		{"blank category", func(tx *Transaction) { tx.Category = "   " }, "category", ErrEmptyCategory},
		{"long category", func(tx *Transaction) { tx.Category = strings.Repeat("c", 101) }, "category", ErrCategoryTooLong},
		{"long details", func(tx *Transaction) { tx.Details = strings.Repeat("d", 201) }, "details", ErrDetailsTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlanRecordValidate(t *testing.T) {
	base := PlanRecord{
		Period:   MonthPeriod(2025, time.January),
		Type:     Income,
		Category: "Salary",
		Amount:   1000,
		Rule:     recurrence.Monthly(recurrence.DayOfMonth{Day: 25}),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := base
	zero.Amount = 0
	if err := zero.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount Validate() = %v, want ErrInvalidAmount", err)
	}
	zero.Rule = recurrence.None()
	if err := zero.ValidatePromoted(); err != nil {
		t.Errorf("zero amount ValidatePromoted() = %v, want nil", err)
	}

	noDue := base
	noDue.Rule = recurrence.Rule{Kind: recurrence.KindMonthly}
	if err := noDue.Validate(); !errors.Is(err, recurrence.ErrDueRequired) {
		t.Errorf("monthly without due = %v, want ErrDueRequired", err)
	}

	noPattern := base
	noPattern.Rule = recurrence.Rule{Kind: recurrence.KindCustom}
	if err := noPattern.Validate(); !errors.Is(err, ErrInvalidRecurrence) {
		t.Errorf("custom without pattern = %v, want ErrInvalidRecurrence", err)
	}

	badPeriod := base
	badPeriod.Period = Period{}
	if err := badPeriod.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("zero period = %v, want ErrInvalidPeriod", err)
	}
}

func TestParseEntryTypeAndMode(t *testing.T) {
	if got, err := ParseEntryType("savings"); err != nil || got != Savings {
		t.Fatalf("ParseEntryType(savings) = %q, %v", got, err)
	}
	if _, err := ParseEntryType("Loans"); !IsValidation(err) {
		t.Fatalf("ParseEntryType(Loans) error = %v", err)
	}
	if got, err := ParseMode("ELECTRONIC"); err != nil || got != Electronic {
		t.Fatalf("ParseMode = %q, %v", got, err)
	}
}

func TestPersistence(t *testing.T) {
	if Persistence("op", nil) != nil {
		t.Fatal("nil error should stay nil")
	}
	if err := Persistence("get", ErrNotFound); err != ErrNotFound {
		t.Fatalf("sentinel should pass through, got %v", err)
	}
	cause := errors.New("disk full")
	err := Persistence("insert plan", cause)
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "insert plan" || !errors.Is(err, cause) {
		t.Fatalf("Persistence() = %v", err)
	}
	if !errors.Is(ErrNothingToUndo, ErrNotFound) {
		t.Fatal("ErrNothingToUndo should wrap ErrNotFound")
	}
}

func TestMonthTrendAdd(t *testing.T) {
	var m MonthTrend
	m.Add(Transaction{Type: Income, Amount: 1000})
	m.Add(Transaction{Type: Expenses, Amount: 300})
	m.Add(Transaction{Type: Savings, Amount: 200})
	if m.Income != 1000 || m.Expenses != 300 || m.Savings != 200 || m.Balance != 500 {
		t.Fatalf("MonthTrend = %+v", m)
	}
}

func TestNotBlankTag(t *testing.T) {
	type named struct {
		Name string `validate:"notblank"`
	}
	v := newValidator()
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"text", "Rent", true},
		{"padded text", "  Rent ", true},
		{"empty", "", false},
		{"whitespace", " \t ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(named{Name: tt.value})
			if (err == nil) != tt.ok {
				t.Errorf("Struct(%q) error = %v, want ok %v", tt.value, err, tt.ok)
			}
		})
	}
}
