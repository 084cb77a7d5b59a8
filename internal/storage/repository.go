package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"penny/internal/core"
	"penny/internal/log"
	"penny/internal/recurrence"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable store for plans, transactions and the
// deletion ledger.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	if _, err := migrateSchema(dbPath, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back when fn fails.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.ErrorContext(ctx, "Rollback failed", log.FieldError, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListPlans(ctx context.Context, user core.UserID, period core.Period) ([]core.PlanRecord, error) {
	rows, err := r.queries.ListPlans(ctx, int64(user), period.Key())
	if err != nil {
		return nil, core.Persistence("list plans", err)
	}
	out := make([]core.PlanRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := planFromRow(row)
		if err != nil {
			return nil, core.Persistence("decode plan", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *SQLiteRepository) HasPlan(ctx context.Context, user core.UserID, period core.Period, t core.EntryType, category string) (bool, error) {
	ok, err := r.queries.HasPlan(ctx, int64(user), period.Key(), string(t), category)
	if err != nil {
		return false, core.Persistence("has plan", err)
	}
	return ok, nil
}

func (r *SQLiteRepository) InsertPlan(ctx context.Context, user core.UserID, p core.PlanRecord) (int64, error) {
	row, err := planToRow(p)
	if err != nil {
		return 0, core.Persistence("encode plan", err)
	}
	id, err := r.queries.InsertPlan(ctx, int64(user), row)
	if err != nil {
		return 0, core.Persistence("insert plan", err)
	}
	r.logger.DebugContext(ctx, "Plan row saved to SQLite",
		log.FieldUserID, user,
		log.FieldPeriod, row.Period,
		log.FieldCategory, p.Category,
		"id", id)
	return id, nil
}

// InsertPlans stores rows in one transaction; a failing row rolls back the
// whole batch.
func (r *SQLiteRepository) InsertPlans(ctx context.Context, user core.UserID, plans []core.PlanRecord) (int, error) {
	rows := make([]planRow, len(plans))
	for i, p := range plans {
		row, err := planToRow(p)
		if err != nil {
			return 0, core.Persistence("encode plan", err)
		}
		rows[i] = row
	}
	err := r.inTx(ctx, func(q *Queries) error {
		for _, row := range rows {
			if _, err := q.InsertPlan(ctx, int64(user), row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, core.Persistence("insert plans", err)
	}
	r.logger.DebugContext(ctx, "Plan rows saved to SQLite",
		log.FieldUserID, user,
		log.FieldCount, len(rows))
	return len(rows), nil
}

func (r *SQLiteRepository) ListPlanUsers(ctx context.Context) ([]core.UserID, error) {
	ids, err := r.queries.ListPlanUsers(ctx)
	if err != nil {
		return nil, core.Persistence("list plan users", err)
	}
	out := make([]core.UserID, len(ids))
	for i, id := range ids {
		out[i] = core.UserID(id)
	}
	return out, nil
}

// PromoteCategory inserts the promoted plan row and clears every flag of its
// category in one transaction.
func (r *SQLiteRepository) PromoteCategory(ctx context.Context, user core.UserID, p core.PlanRecord) (int64, int64, error) {
	row, err := planToRow(p)
	if err != nil {
		return 0, 0, core.Persistence("encode plan", err)
	}
	var planID, cleared int64
	err = r.inTx(ctx, func(q *Queries) error {
		var err error
		if planID, err = q.InsertPlan(ctx, int64(user), row); err != nil {
			return err
		}
		cleared, err = q.ClearFlagForCategory(ctx, int64(user), string(p.Type), p.Category)
		return err
	})
	if err != nil {
		return 0, 0, core.Persistence("promote category", err)
	}
	return planID, cleared, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, user core.UserID, dr core.DateRange) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, int64(user), dr.From.Format(time.DateOnly), dr.To.Format(time.DateOnly))
	if err != nil {
		return nil, core.Persistence("list transactions", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := transactionFromRow(row)
		if err != nil {
			return nil, core.Persistence("decode transaction", err)
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, user core.UserID, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, int64(user), id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, core.Persistence("get transaction", err)
	}
	tx, err := transactionFromRow(row)
	if err != nil {
		return core.Transaction{}, core.Persistence("decode transaction", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, user core.UserID, tx core.Transaction) (int64, error) {
	id, err := r.queries.InsertTransaction(ctx, int64(user), transactionToRow(tx))
	if err != nil {
		return 0, core.Persistence("insert transaction", err)
	}
	r.logger.DebugContext(ctx, "Transaction saved to SQLite",
		log.FieldUserID, user,
		log.FieldTransactionID, id,
		log.FieldCategory, tx.Category)
	return id, nil
}

func (r *SQLiteRepository) ClearFlagForCategory(ctx context.Context, user core.UserID, t core.EntryType, category string) (int64, error) {
	n, err := r.queries.ClearFlagForCategory(ctx, int64(user), string(t), category)
	if err != nil {
		return 0, core.Persistence("clear flags", err)
	}
	return n, nil
}

// SoftDeleteTransaction moves the row into deleted_transactions. A ledger
// entry left over for the same id is replaced.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, user core.UserID, id int64, at time.Time) error {
	err := r.inTx(ctx, func(q *Queries) error {
		row, err := q.GetTransaction(ctx, int64(user), id)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := q.InsertDeleted(ctx, int64(user), deletedRow{transactionRow: row, DeletedAt: at.UnixNano()}); err != nil {
			return err
		}
		return q.DeleteTransaction(ctx, int64(user), id)
	})
	return core.Persistence("soft delete transaction", err)
}

// RestoreMostRecentlyDeleted re-inserts the newest ledger entry under its
// original id. Ties on deleted_at go to the entry written last.
func (r *SQLiteRepository) RestoreMostRecentlyDeleted(ctx context.Context, user core.UserID) (core.Transaction, error) {
	var restored transactionRow
	err := r.inTx(ctx, func(q *Queries) error {
		d, err := q.NewestDeleted(ctx, int64(user))
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNothingToUndo
		}
		if err != nil {
			return err
		}
		taken, err := q.TransactionIDTaken(ctx, d.ID)
		if err != nil {
			return err
		}
		if taken {
			return core.ErrIDConflict
		}
		if err := q.InsertTransactionWithID(ctx, int64(user), d.transactionRow); err != nil {
			return err
		}
		restored = d.transactionRow
		return q.RemoveDeleted(ctx, int64(user), d.ID)
	})
	if err != nil {
		return core.Transaction{}, core.Persistence("restore transaction", err)
	}
	tx, err := transactionFromRow(restored)
	if err != nil {
		return core.Transaction{}, core.Persistence("decode transaction", err)
	}
	return tx, nil
}

func planToRow(p core.PlanRecord) (planRow, error) {
	rec, due, custom, err := recurrence.EncodeRule(p.Rule)
	if err != nil {
		return planRow{}, err
	}
	return planRow{
		Period:       p.Period.Key(),
		Type:         string(p.Type),
		Category:     p.Category,
		Amount:       p.Amount,
		Recurrence:   rec,
		Due:          due,
		CustomPeriod: custom,
	}, nil
}

func planFromRow(row planRow) (core.PlanRecord, error) {
	period, err := core.ParsePeriod(row.Period)
	if err != nil {
		return core.PlanRecord{}, err
	}
	rule, err := recurrence.DecodeRule(row.Recurrence, row.Due, row.CustomPeriod)
	if err != nil {
		return core.PlanRecord{}, fmt.Errorf("plan %d: %w", row.ID, err)
	}
	return core.PlanRecord{
		ID:           row.ID,
		Period:       period,
		Type:         core.EntryType(row.Type),
		Category:     row.Category,
		Amount:       row.Amount,
		Rule:         rule,
		CreatedOrder: row.ID,
	}, nil
}

func transactionToRow(tx core.Transaction) transactionRow {
	return transactionRow{
		ID:       tx.ID,
		Date:     tx.Date.Format(time.DateOnly),
		Type:     string(tx.Type),
		Category: tx.Category,
		Amount:   tx.Amount,
		Mode:     string(tx.Mode),
		Details:  tx.Details,
		Flagged:  tx.Flagged,
	}
}

func transactionFromRow(row transactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:       row.ID,
		Date:     date,
		Type:     core.EntryType(row.Type),
		Category: row.Category,
		Amount:   row.Amount,
		Mode:     core.Mode(row.Mode),
		Details:  row.Details,
		Flagged:  row.Flagged,
	}, nil
}
