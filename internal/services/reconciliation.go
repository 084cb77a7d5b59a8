package services

import (
	"context"
	"fmt"

	"penny/internal/core"
	"penny/internal/recurrence"
)

// Reconciler decides whether a new transaction was planned for and turns
// unplanned categories into plan rows.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Flag reports true when no plan row exists for the transaction's month,
// type and category. It is evaluated once, when the transaction is created.
func (r *Reconciler) Flag(ctx context.Context, user core.UserID, tx core.Transaction) (bool, error) {
	has, err := r.store.HasPlan(ctx, user, tx.Date.Period(), tx.Type, tx.Category)
	if err != nil {
		return false, fmt.Errorf("look up plan: %w", err)
	}
	return !has, nil
}

// PromoteResult is the plan row created by a promotion and the number of
// transactions whose flag was cleared.
type PromoteResult struct {
	Plan    core.PlanRecord
	Cleared int64
}

// PromoteToPlan inserts a non-recurring plan row for the transaction's
// month, type and category, then clears the flag on every transaction of
// the user with that type and category in any period.
func (r *Reconciler) PromoteToPlan(ctx context.Context, user core.UserID, tx core.Transaction, amount int64) (PromoteResult, error) {
	plan := core.PlanRecord{
		Period:   tx.Date.Period(),
		Type:     tx.Type,
		Category: tx.Category,
		Amount:   amount,
		Rule:     recurrence.None(),
	}
	if err := plan.ValidatePromoted(); err != nil {
		return PromoteResult{}, err
	}

	if p, ok := r.store.(CategoryPromoter); ok {
		id, cleared, err := p.PromoteCategory(ctx, user, plan)
		if err != nil {
			return PromoteResult{}, fmt.Errorf("promote category: %w", err)
		}
		plan.ID = id
		return PromoteResult{Plan: plan, Cleared: cleared}, nil
	}

	id, err := r.store.InsertPlan(ctx, user, plan)
	if err != nil {
		return PromoteResult{}, fmt.Errorf("insert promoted plan: %w", err)
	}
	plan.ID = id

	cleared, err := r.store.ClearFlagForCategory(ctx, user, tx.Type, tx.Category)
	if err != nil {
		return PromoteResult{}, fmt.Errorf("clear category flags: %w", err)
	}
	return PromoteResult{Plan: plan, Cleared: cleared}, nil
}
