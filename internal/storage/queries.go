package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements of the store, bound to a connection or to
// a transaction via WithTx.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type planRow struct {
	ID           int64
	Period       string
	Type         string
	Category     string
	Amount       int64
	Recurrence   string
	Due          string
	CustomPeriod string
}

type transactionRow struct {
	ID       int64
	Date     string
	Type     string
	Category string
	Amount   int64
	Mode     string
	Details  string
	Flagged  bool
}

type deletedRow struct {
	transactionRow
	DeletedAt int64
}

const listPlans = `SELECT id, period, type, category, amount, recurrence, due, custom_period
FROM plans
WHERE user_id = ? AND period = ?
ORDER BY id`

func (q *Queries) ListPlans(ctx context.Context, userID int64, period string) ([]planRow, error) {
	rows, err := q.db.QueryContext(ctx, listPlans, userID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []planRow
	for rows.Next() {
		var i planRow
		if err := rows.Scan(&i.ID, &i.Period, &i.Type, &i.Category, &i.Amount, &i.Recurrence, &i.Due, &i.CustomPeriod); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const hasPlan = `SELECT EXISTS (
    SELECT 1 FROM plans WHERE user_id = ? AND period = ? AND type = ? AND category = ?
)`

func (q *Queries) HasPlan(ctx context.Context, userID int64, period, typ, category string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, hasPlan, userID, period, typ, category).Scan(&exists)
	return exists, err
}

const insertPlan = `INSERT INTO plans (user_id, period, type, category, amount, recurrence, due, custom_period)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertPlan(ctx context.Context, userID int64, p planRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertPlan, userID, p.Period, p.Type, p.Category, p.Amount, p.Recurrence, p.Due, p.CustomPeriod)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listPlanUsers = `SELECT DISTINCT user_id FROM plans ORDER BY user_id`

func (q *Queries) ListPlanUsers(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listPlanUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}

const transactionColumns = `id, date, type, category, amount, mode, details, flagged`

func scanTransaction(s interface{ Scan(...any) error }, extra ...any) (transactionRow, error) {
	var i transactionRow
	dest := append([]any{&i.ID, &i.Date, &i.Type, &i.Category, &i.Amount, &i.Mode, &i.Details, &i.Flagged}, extra...)
	err := s.Scan(dest...)
	return i, err
}

const listTransactions = `SELECT ` + transactionColumns + `
FROM transactions
WHERE user_id = ? AND date >= ? AND date <= ?
ORDER BY date, id`

func (q *Queries) ListTransactions(ctx context.Context, userID int64, from, to string) ([]transactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []transactionRow
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? AND id = ?`

func (q *Queries) GetTransaction(ctx context.Context, userID, id int64) (transactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, userID, id))
}

const insertTransaction = `INSERT INTO transactions (user_id, date, type, category, amount, mode, details, flagged)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, userID int64, t transactionRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertTransaction, userID, t.Date, t.Type, t.Category, t.Amount, t.Mode, t.Details, t.Flagged)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const insertTransactionWithID = `INSERT INTO transactions (id, user_id, date, type, category, amount, mode, details, flagged)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransactionWithID(ctx context.Context, userID int64, t transactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransactionWithID, t.ID, userID, t.Date, t.Type, t.Category, t.Amount, t.Mode, t.Details, t.Flagged)
	return err
}

const transactionIDTaken = `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = ?)`

func (q *Queries) TransactionIDTaken(ctx context.Context, id int64) (bool, error) {
	var taken bool
	err := q.db.QueryRowContext(ctx, transactionIDTaken, id).Scan(&taken)
	return taken, err
}

const clearFlagForCategory = `UPDATE transactions SET flagged = 0
WHERE user_id = ? AND type = ? AND category = ? AND flagged = 1`

func (q *Queries) ClearFlagForCategory(ctx context.Context, userID int64, typ, category string) (int64, error) {
	res, err := q.db.ExecContext(ctx, clearFlagForCategory, userID, typ, category)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE user_id = ? AND id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, userID, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTransaction, userID, id)
	return err
}

const insertDeleted = `INSERT OR REPLACE INTO deleted_transactions
    (transaction_id, user_id, date, type, category, amount, mode, details, flagged, deleted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertDeleted(ctx context.Context, userID int64, d deletedRow) error {
	_, err := q.db.ExecContext(ctx, insertDeleted, d.ID, userID, d.Date, d.Type, d.Category, d.Amount, d.Mode, d.Details, d.Flagged, d.DeletedAt)
	return err
}

const newestDeleted = `SELECT transaction_id, date, type, category, amount, mode, details, flagged, deleted_at
FROM deleted_transactions
WHERE user_id = ?
ORDER BY deleted_at DESC, rowid DESC
LIMIT 1`

func (q *Queries) NewestDeleted(ctx context.Context, userID int64) (deletedRow, error) {
	var d deletedRow
	row, err := scanTransaction(q.db.QueryRowContext(ctx, newestDeleted, userID), &d.DeletedAt)
	d.transactionRow = row
	return d, err
}

const removeDeleted = `DELETE FROM deleted_transactions WHERE user_id = ? AND transaction_id = ?`

func (q *Queries) RemoveDeleted(ctx context.Context, userID, id int64) error {
	_, err := q.db.ExecContext(ctx, removeDeleted, userID, id)
	return err
}
