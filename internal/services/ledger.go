package services

import (
	"context"
	"fmt"
	"time"

	"penny/internal/core"
)

// DeletionLedger soft-deletes transactions and restores them newest first.
type DeletionLedger struct {
	store Store
	now   func() time.Time
}

func NewDeletionLedger(store Store, now func() time.Time) *DeletionLedger {
	if now == nil {
		now = time.Now
	}
	return &DeletionLedger{store: store, now: now}
}

// Delete moves the transaction into the ledger and returns what was removed.
func (l *DeletionLedger) Delete(ctx context.Context, user core.UserID, id int64) (core.Transaction, error) {
	tx, err := l.store.GetTransaction(ctx, user, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	if err := l.store.SoftDeleteTransaction(ctx, user, id, l.now()); err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return tx, nil
}

// Undo restores the most recently deleted transaction with its original id.
func (l *DeletionLedger) Undo(ctx context.Context, user core.UserID) (core.Transaction, error) {
	tx, err := l.store.RestoreMostRecentlyDeleted(ctx, user)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("undo delete: %w", err)
	}
	return tx, nil
}
