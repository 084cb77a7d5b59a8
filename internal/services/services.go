// Package services runs the budgeting operations against a Store: plan
// entry and views, transaction reconciliation, the undo ledger and trends.
package services

import (
	"context"
	"fmt"
	"time"

	"penny/internal/amqp"
	"penny/internal/cache"
	"penny/internal/core"
	"penny/internal/log"
	"penny/internal/planning"
)

// Options carries the optional collaborators shared by all services.
type Options struct {
	// Publisher receives ledger events; nil disables publishing.
	Publisher Publisher
	// ViewCache holds aggregated views; nil disables caching.
	ViewCache cache.Cache[planning.View]
	Logger    *log.Logger
	// Clock stamps deletions; defaults to time.Now.
	Clock func() time.Time
}

type Services struct {
	Plans        *PlanService
	Transactions *TransactionService
	Trends       *TrendService
}

// New wires the services around one store. They share per-user locking,
// the view cache and the publisher.
func New(store Store, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	locks := newUserLocks()
	views := &viewCache{c: opts.ViewCache}
	events := &eventPublisher{pub: opts.Publisher, logger: opts.Logger}

	return &Services{
		Plans: &PlanService{
			store:  store,
			locks:  locks,
			views:  views,
			events: events,
			logger: opts.Logger.WithComponent(log.ComponentPlan),
		},
		Transactions: &TransactionService{
			store:      store,
			locks:      locks,
			views:      views,
			events:     events,
			reconciler: NewReconciler(store),
			ledger:     NewDeletionLedger(store, opts.Clock),
			logger:     opts.Logger.WithComponent(log.ComponentTransaction),
		},
		Trends: &TrendService{
			store:  store,
			locks:  locks,
			logger: opts.Logger.WithComponent(log.ComponentTrend),
		},
	}
}

type viewCache struct {
	c cache.Cache[planning.View]
}

func viewKey(user core.UserID, p core.Period) string {
	return fmt.Sprintf("%d|%s", user, p.Key())
}

func (v *viewCache) get(user core.UserID, p core.Period) (planning.View, bool) {
	if v.c == nil {
		return planning.View{}, false
	}
	view, ok := v.c.Get(viewKey(user, p))
	if !ok {
		return planning.View{}, false
	}
	return view.Clone(), true
}

func (v *viewCache) set(user core.UserID, view planning.View) {
	if v.c != nil {
		v.c.Set(viewKey(user, view.Period), view.Clone())
	}
}

// invalidate drops every cached view of the user.
func (v *viewCache) invalidate(user core.UserID) {
	if v.c != nil {
		v.c.DeletePrefix(fmt.Sprintf("%d|", user))
	}
}

type eventPublisher struct {
	pub    Publisher
	logger *log.Logger
}

// publish never fails the calling operation; the mutation is already stored.
func (e *eventPublisher) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if e.pub == nil {
		e.logger.DebugContext(ctx, "No event publisher configured, skipping event", log.FieldEventKind, ev.Kind)
		return
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldEventKind, ev.Kind,
			log.FieldUserID, ev.UserID,
			log.FieldError, err)
	}
}
