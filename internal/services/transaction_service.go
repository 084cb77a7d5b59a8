package services

import (
	"context"
	"fmt"
	"slices"

	"penny/internal/amqp"
	"penny/internal/core"
	"penny/internal/log"
)

type TransactionService struct {
	store      Store
	locks      *userLocks
	views      *viewCache
	events     *eventPublisher
	reconciler *Reconciler
	ledger     *DeletionLedger
	logger     *log.Logger
}

func transactionEvent(kind amqp.EventKind, user core.UserID, tx core.Transaction) *amqp.LedgerEvent {
	ev := amqp.NewLedgerEvent(kind, int64(user), tx.Date.Period().Key())
	ev.Type, ev.Category, ev.TransactionID = string(tx.Type), tx.Category, tx.ID
	return ev
}

// Create validates and stores a transaction, flagging it when its month has
// no plan for the type and category.
func (s *TransactionService) Create(ctx context.Context, user core.UserID, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	flagged, err := s.reconciler.Flag(ctx, user, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ID = 0
	tx.Flagged = flagged

	id, err := s.store.InsertTransaction(ctx, user, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID = id

	s.logger.InfoContext(ctx, "Transaction recorded", log.NewFields().
		WithTransaction(int64(user), tx.ID, string(tx.Type), tx.Category, tx.Amount).
		WithOperation(log.OpCreate).ToSlice()...)

	if flagged {
		s.events.publish(ctx, transactionEvent(amqp.KindTransactionFlagged, user, tx))
	}
	return tx, nil
}

// List returns the transactions in r, newest first.
func (s *TransactionService) List(ctx context.Context, user core.UserID, r core.DateRange) ([]core.Transaction, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	txs, err := s.store.ListTransactions(ctx, user, r)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return txs, nil
}

// Delete moves a transaction into the undo ledger.
func (s *TransactionService) Delete(ctx context.Context, user core.UserID, id int64) error {
	unlock := s.locks.lock(user)
	defer unlock()

	tx, err := s.ledger.Delete(ctx, user, id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldUserID, user,
		log.FieldTransactionID, id,
		log.FieldOperation, log.OpDelete)
	s.events.publish(ctx, transactionEvent(amqp.KindTransactionDeleted, user, tx))
	return nil
}

// Undo restores the most recently deleted transaction.
func (s *TransactionService) Undo(ctx context.Context, user core.UserID) (core.Transaction, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	tx, err := s.ledger.Undo(ctx, user)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction restored",
		log.FieldUserID, user,
		log.FieldTransactionID, tx.ID,
		log.FieldOperation, log.OpUndo)
	s.events.publish(ctx, transactionEvent(amqp.KindTransactionRestored, user, tx))
	return tx, nil
}

// Promote turns the category of a transaction into a plan row for its
// month and clears the flag on all of the user's transactions in that
// category.
func (s *TransactionService) Promote(ctx context.Context, user core.UserID, id int64, amount int64) (PromoteResult, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	tx, err := s.store.GetTransaction(ctx, user, id)
	if err != nil {
		return PromoteResult{}, fmt.Errorf("get transaction %d: %w", id, err)
	}

	res, err := s.reconciler.PromoteToPlan(ctx, user, tx, amount)
	// The plan row may be stored even when clearing the flags failed.
	s.views.invalidate(user)
	if err != nil {
		return PromoteResult{}, err
	}

	s.logger.InfoContext(ctx, "Category promoted to plan", log.NewFields().
		WithPlan(int64(user), res.Plan.Period.Key(), string(res.Plan.Type), res.Plan.Category, res.Plan.Amount).
		WithOperation(log.OpPromote).ToSlice()...)

	ev := amqp.NewLedgerEvent(amqp.KindCategoryPromoted, int64(user), res.Plan.Period.Key())
	ev.Type, ev.Category, ev.TransactionID = string(tx.Type), tx.Category, tx.ID
	s.events.publish(ctx, ev)
	return res, nil
}
