package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"penny/internal/core"
	"penny/internal/recurrence"
)

func TestPlansScopedByUserAndPeriod(t *testing.T) {
	ctx := context.Background()
	s := New()
	jan := core.MonthPeriod(2025, time.January)
	feb := core.MonthPeriod(2025, time.February)

	mustInsertPlan(t, s, 1, core.PlanRecord{Period: jan, Type: core.Income, Category: "Salary", Amount: 100, Rule: recurrence.None()})
	mustInsertPlan(t, s, 1, core.PlanRecord{Period: feb, Type: core.Income, Category: "Salary", Amount: 200, Rule: recurrence.None()})
	mustInsertPlan(t, s, 2, core.PlanRecord{Period: jan, Type: core.Expenses, Category: "Rent", Amount: 300, Rule: recurrence.None()})
	mustInsertPlan(t, s, 1, core.PlanRecord{Period: jan, Type: core.Income, Category: "Bonus", Amount: 50, Rule: recurrence.None()})

	rows, err := s.ListPlans(ctx, 1, jan)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Category != "Salary" || rows[1].Category != "Bonus" {
		t.Fatalf("ListPlans = %+v", rows)
	}
	if rows[0].CreatedOrder >= rows[1].CreatedOrder {
		t.Errorf("created order not monotonic: %d, %d", rows[0].CreatedOrder, rows[1].CreatedOrder)
	}

	if ok, _ := s.HasPlan(ctx, 2, jan, core.Expenses, "Rent"); !ok {
		t.Error("HasPlan should find user 2 rent")
	}
	if ok, _ := s.HasPlan(ctx, 1, jan, core.Expenses, "Rent"); ok {
		t.Error("HasPlan leaked another user's row")
	}

	users, _ := s.ListPlanUsers(ctx)
	if len(users) != 2 || users[0] != 1 || users[1] != 2 {
		t.Errorf("ListPlanUsers = %v", users)
	}
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	id1, _ := s.InsertTransaction(ctx, 1, core.Transaction{Date: core.NewDate(2025, 3, 1), Type: core.Expenses, Category: "Food", Amount: 10, Mode: core.Cash})
	id2, _ := s.InsertTransaction(ctx, 1, core.Transaction{Date: core.NewDate(2025, 3, 2), Type: core.Expenses, Category: "Food", Amount: 20, Mode: core.Cash})

	if err := s.SoftDeleteTransaction(ctx, 1, id1, base); err != nil {
		t.Fatal(err)
	}
	if err := s.SoftDeleteTransaction(ctx, 1, id2, base); err != nil {
		t.Fatal(err)
	}
	if err := s.SoftDeleteTransaction(ctx, 1, 999, base); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete unknown id error = %v", err)
	}

	// equal timestamps: the later deletion wins
	tx, err := s.RestoreMostRecentlyDeleted(ctx, 1)
	if err != nil || tx.ID != id2 {
		t.Fatalf("first restore = %+v, %v; want id %d", tx, err, id2)
	}
	if _, err := s.GetTransaction(ctx, 1, id2); err != nil {
		t.Fatalf("restored transaction not live: %v", err)
	}

	s.PutTransaction(1, core.Transaction{ID: id1, Date: core.NewDate(2025, 3, 5), Type: core.Income, Category: "Gift", Amount: 5, Mode: core.Cash})
	if _, err := s.RestoreMostRecentlyDeleted(ctx, 1); !errors.Is(err, core.ErrIDConflict) {
		t.Fatalf("restore onto live id error = %v, want ErrIDConflict", err)
	}
	if len(s.Deleted(1)) != 1 {
		t.Fatal("conflicting ledger entry should stay in place")
	}
}

func TestPromoteCategoryClearsAllPeriods(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, d := range []core.Date{core.NewDate(2024, 11, 3), core.NewDate(2025, 2, 8)} {
		s.InsertTransaction(ctx, 1, core.Transaction{Date: d, Type: core.Expenses, Category: "Pets", Amount: 15, Mode: core.Cash, Flagged: true})
	}
	s.InsertTransaction(ctx, 1, core.Transaction{Date: core.NewDate(2025, 2, 8), Type: core.Savings, Category: "Pets", Amount: 15, Mode: core.Cash, Flagged: true})

	_, cleared, err := s.PromoteCategory(ctx, 1, core.PlanRecord{Period: core.MonthPeriod(2025, time.February), Type: core.Expenses, Category: "Pets", Rule: recurrence.None()})
	if err != nil {
		t.Fatal(err)
	}
	if cleared != 2 {
		t.Errorf("cleared = %d, want 2", cleared)
	}
}

func mustInsertPlan(t *testing.T, s *Store, user core.UserID, p core.PlanRecord) int64 {
	t.Helper()
	id, err := s.InsertPlan(context.Background(), user, p)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestInsertPlansAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	march := core.MonthPeriod(2025, time.March)
	rows := []core.PlanRecord{
		{Period: march, Type: core.Expenses, Category: "Rent", Amount: 400, Rule: recurrence.None()},
		{Period: march, Type: core.Income, Category: "Salary", Amount: 900, Rule: recurrence.None()},
	}

	n, err := s.InsertPlans(ctx, 1, rows)
	if err != nil || n != 2 {
		t.Fatalf("InsertPlans() = %d, %v", n, err)
	}
	got, _ := s.ListPlans(ctx, 1, march)
	if len(got) != 2 || got[0].ID == got[1].ID || got[0].ID == 0 {
		t.Errorf("stored rows = %+v, want two rows with distinct ids", got)
	}
}
