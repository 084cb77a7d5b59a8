package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"penny/internal/amqp"
	"penny/internal/core"
	"penny/internal/planning"
	"penny/internal/services"
	"penny/internal/storage/memory"
)

type fakeWriter struct {
	mu    sync.Mutex
	tabs  []string
	views map[string]planning.View
	fail  string
}

func (f *fakeWriter) WriteView(_ context.Context, tab string, view planning.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != "" && strings.Contains(tab, f.fail) {
		return errors.New("quota exceeded")
	}
	if f.views == nil {
		f.views = make(map[string]planning.View)
	}
	f.tabs = append(f.tabs, tab)
	f.views[tab] = view
	return nil
}

func setup(t *testing.T) (*services.Services, *memory.Store, *fakeWriter, *ExportWorker) {
	t.Helper()
	store := memory.New()
	svc := services.New(store, services.Options{})
	w := &fakeWriter{}
	return svc, store, w, NewExportWorker(svc.Plans, store, w, "Plan", nil)
}

func TestHandleEventExportsMonthAndYear(t *testing.T) {
	svc, _, w, worker := setup(t)
	ctx := context.Background()
	march := core.MonthPeriod(2025, time.March)

	if _, err := svc.Plans.AddPlan(ctx, 3, services.PlanInput{Period: march, Type: core.Income, Category: "Salary", Amount: 900}); err != nil {
		t.Fatal(err)
	}

	ev := amqp.NewLedgerEvent(amqp.KindPlanChanged, 3, march.Key())
	if err := worker.HandleEvent(ctx, ev); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	want := []string{"Plan 3 March 2025", "Plan 3 2025"}
	if len(w.tabs) != len(want) || w.tabs[0] != want[0] || w.tabs[1] != want[1] {
		t.Fatalf("tabs = %v, want %v", w.tabs, want)
	}
	if got := w.views["Plan 3 2025"].PerType[core.Income].Total; got != 900 {
		t.Errorf("year view income = %d, want 900", got)
	}
}

func TestHandleEventYearPeriod(t *testing.T) {
	_, _, w, worker := setup(t)
	ev := amqp.NewLedgerEvent(amqp.KindCategoryPromoted, 3, "2026")
	if err := worker.HandleEvent(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(w.tabs) != 1 || w.tabs[0] != "Plan 3 2026" {
		t.Errorf("tabs = %v", w.tabs)
	}
}

func TestHandleEventIgnoresOtherKinds(t *testing.T) {
	_, _, w, worker := setup(t)
	for _, kind := range []amqp.EventKind{amqp.KindTransactionFlagged, amqp.KindTransactionDeleted, amqp.KindTransactionRestored} {
		if err := worker.HandleEvent(context.Background(), amqp.NewLedgerEvent(kind, 3, "March 2025")); err != nil {
			t.Errorf("HandleEvent(%s) error = %v", kind, err)
		}
	}
	if err := worker.HandleEvent(context.Background(), amqp.NewLedgerEvent(amqp.KindPlanChanged, 3, "Smarch 2025")); err != nil {
		t.Errorf("invalid period should be dropped, got %v", err)
	}
	if len(w.tabs) != 0 {
		t.Errorf("unexpected exports: %v", w.tabs)
	}
}

func TestHandleEventWriterFailure(t *testing.T) {
	_, _, w, worker := setup(t)
	w.fail = "2025"
	err := worker.HandleEvent(context.Background(), amqp.NewLedgerEvent(amqp.KindPlanChanged, 3, "2025"))
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("HandleEvent() error = %v, want writer failure", err)
	}
}

func TestExportYear(t *testing.T) {
	svc, _, w, worker := setup(t)
	ctx := context.Background()
	for _, u := range []core.UserID{5, 2} {
		in := services.PlanInput{Period: core.MonthPeriod(2025, time.June), Type: core.Savings, Category: "Fund", Amount: 10}
		if _, err := svc.Plans.AddPlan(ctx, u, in); err != nil {
			t.Fatal(err)
		}
	}
	w.fail = "Plan 2 "

	err := worker.ExportYear(ctx, 2025)
	if err == nil {
		t.Fatal("expected joined error for user 2")
	}
	if len(w.tabs) != 1 || w.tabs[0] != "Plan 5 2025" {
		t.Errorf("tabs = %v, want user 5 exported despite user 2 failing", w.tabs)
	}
}

func TestRunScheduleRejectsBadSpec(t *testing.T) {
	_, _, _, worker := setup(t)
	if err := worker.RunSchedule(context.Background(), "every now and then", nil); err == nil {
		t.Error("expected schedule parse error")
	}
}

func TestRunScheduleStopsOnCancel(t *testing.T) {
	_, _, _, worker := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.RunSchedule(ctx, "@daily", nil) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunSchedule() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunSchedule did not stop")
	}
}
