package services

import (
	"context"
	"time"

	"penny/internal/amqp"
	"penny/internal/core"
)

// PlanStore persists raw plan rows. ListPlans is scoped to exactly one
// period key; year views are assembled from twelve month calls.
type PlanStore interface {
	ListPlans(ctx context.Context, user core.UserID, period core.Period) ([]core.PlanRecord, error)
	HasPlan(ctx context.Context, user core.UserID, period core.Period, t core.EntryType, category string) (bool, error)
	InsertPlan(ctx context.Context, user core.UserID, p core.PlanRecord) (int64, error)
	// InsertPlans stores rows all or nothing and returns how many were stored.
	InsertPlans(ctx context.Context, user core.UserID, rows []core.PlanRecord) (int, error)
	ListPlanUsers(ctx context.Context) ([]core.UserID, error)
}

// TransactionStore persists transactions and the deletion ledger.
type TransactionStore interface {
	ListTransactions(ctx context.Context, user core.UserID, r core.DateRange) ([]core.Transaction, error)
	// GetTransaction returns core.ErrNotFound for unknown ids.
	GetTransaction(ctx context.Context, user core.UserID, id int64) (core.Transaction, error)
	InsertTransaction(ctx context.Context, user core.UserID, tx core.Transaction) (int64, error)
	ClearFlagForCategory(ctx context.Context, user core.UserID, t core.EntryType, category string) (int64, error)
	// SoftDeleteTransaction moves a live transaction into the ledger.
	SoftDeleteTransaction(ctx context.Context, user core.UserID, id int64, at time.Time) error
	// RestoreMostRecentlyDeleted re-inserts the newest ledger entry under
	// its original id. It returns core.ErrNothingToUndo on an empty ledger
	// and core.ErrIDConflict, leaving the entry in place, when the id is live.
	RestoreMostRecentlyDeleted(ctx context.Context, user core.UserID) (core.Transaction, error)
}

type Store interface {
	PlanStore
	TransactionStore
	Close() error
}

// CategoryPromoter is implemented by stores that can insert the promoted
// plan row and clear the category flags atomically.
type CategoryPromoter interface {
	PromoteCategory(ctx context.Context, user core.UserID, p core.PlanRecord) (planID int64, cleared int64, err error)
}

// Publisher sends ledger events; *amqp.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev *amqp.LedgerEvent) error
}
