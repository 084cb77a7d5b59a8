package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"penny/internal/amqp"
	"penny/internal/core"
	"penny/internal/log"
	"penny/internal/planning"
	"penny/internal/sheets"
)

// PlanViewer renders plan views; *services.PlanService satisfies it.
type PlanViewer interface {
	View(ctx context.Context, user core.UserID, period core.Period) (planning.View, error)
}

// PlanUsers lists the users owning plan rows.
type PlanUsers interface {
	ListPlanUsers(ctx context.Context) ([]core.UserID, error)
}

// ExportWorker keeps the spreadsheet copy of plan views current: it reacts to
// ledger events and re-exports whole years on a schedule.
type ExportWorker struct {
	plans  PlanViewer
	users  PlanUsers
	writer sheets.ViewWriter
	prefix string
	logger *log.Logger
}

func NewExportWorker(plans PlanViewer, users PlanUsers, writer sheets.ViewWriter, prefix string, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		plans:  plans,
		users:  users,
		writer: writer,
		prefix: prefix,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent re-exports the views touched by a plan change. A month change
// refreshes the month and its year; a year change refreshes the year.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	switch ev.Kind {
	case amqp.KindPlanChanged, amqp.KindCategoryPromoted:
	default:
		w.logger.DebugContext(ctx, "Event does not affect plan views",
			log.FieldEventKind, ev.Kind,
			log.FieldEventID, ev.ID)
		return nil
	}

	period, err := core.ParsePeriod(ev.Period)
	if err != nil {
		// Redelivery cannot fix a bad period; drop it.
		w.logger.WarnContext(ctx, "Skipping event with invalid period",
			log.FieldEventID, ev.ID,
			log.FieldPeriod, ev.Period,
			log.FieldError, err)
		return nil
	}

	user := core.UserID(ev.UserID)
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventKind, ev.Kind,
		log.FieldEventID, ev.ID,
		log.FieldUserID, user,
		log.FieldPeriod, period.Key())

	if !period.IsYear() {
		if err := w.export(ctx, user, period); err != nil {
			return err
		}
	}
	return w.export(ctx, user, core.YearPeriod(period.Year))
}

// ExportYear re-exports the year view of every user with plans. Failures for
// one user do not stop the others; they are joined into the returned error.
func (w *ExportWorker) ExportYear(ctx context.Context, year int) error {
	users, err := w.users.ListPlanUsers(ctx)
	if err != nil {
		return fmt.Errorf("list plan users: %w", err)
	}

	start := time.Now()
	var errs []error
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.export(ctx, u, core.YearPeriod(year)); err != nil {
			w.logger.ErrorContext(ctx, "Year export failed",
				log.FieldUserID, u,
				log.FieldError, err)
			errs = append(errs, err)
		}
	}

	w.logger.InfoContext(ctx, "Year export completed",
		"year", year,
		log.FieldCount, len(users),
		"failed", len(errs),
		log.FieldDuration, time.Since(start).Milliseconds())
	return errors.Join(errs...)
}

func (w *ExportWorker) export(ctx context.Context, user core.UserID, period core.Period) error {
	view, err := w.plans.View(ctx, user, period)
	if err != nil {
		return fmt.Errorf("build view %s: %w", period.Key(), err)
	}
	tab := sheets.TabName(w.prefix, int64(user), period.Key())
	if err := w.writer.WriteView(ctx, tab, view); err != nil {
		return fmt.Errorf("write view %s: %w", tab, err)
	}
	return nil
}

// RunSchedule re-exports the current year on spec until ctx is done.
func (w *ExportWorker) RunSchedule(ctx context.Context, spec string, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := w.ExportYear(ctx, now().Year()); err != nil {
			w.logger.ErrorContext(ctx, "Scheduled export failed", log.FieldError, err)
		}
	})
	if err != nil {
		return fmt.Errorf("parse export schedule %q: %w", spec, err)
	}

	w.logger.InfoContext(ctx, "Export schedule started", "schedule", spec)
	c.Start()
	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	w.logger.InfoContext(ctx, "Export schedule stopped")
	return nil
}
