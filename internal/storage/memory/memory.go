// Package memory is a process-local Store used for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"penny/internal/core"
)

type planRow struct {
	user core.UserID
	rec  core.PlanRecord
}

type Store struct {
	mu         sync.Mutex
	nextPlanID int64
	nextTxID   int64
	plans      []planRow
	txs        map[core.UserID]map[int64]core.Transaction
	deleted    map[core.UserID][]core.DeletedTransaction
}

func New() *Store {
	return &Store{
		txs:     make(map[core.UserID]map[int64]core.Transaction),
		deleted: make(map[core.UserID][]core.DeletedTransaction),
	}
}

func (s *Store) Close() error { return nil }

// ListPlans returns rows stored under exactly period, oldest first.
func (s *Store) ListPlans(_ context.Context, user core.UserID, period core.Period) ([]core.PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.PlanRecord
	for _, r := range s.plans {
		if r.user == user && r.rec.Period == period {
			out = append(out, r.rec)
		}
	}
	return out, nil
}

func (s *Store) HasPlan(_ context.Context, user core.UserID, period core.Period, t core.EntryType, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.plans {
		if r.user == user && r.rec.Period == period && r.rec.Type == t && r.rec.Category == category {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertPlan(_ context.Context, user core.UserID, p core.PlanRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPlan(user, p), nil
}

func (s *Store) InsertPlans(_ context.Context, user core.UserID, rows []core.PlanRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range rows {
		s.insertPlan(user, p)
	}
	return len(rows), nil
}

func (s *Store) insertPlan(user core.UserID, p core.PlanRecord) int64 {
	s.nextPlanID++
	p.ID = s.nextPlanID
	p.CreatedOrder = s.nextPlanID
	s.plans = append(s.plans, planRow{user: user, rec: p})
	return p.ID
}

// ListPlanUsers returns the users owning at least one plan row, ascending.
func (s *Store) ListPlanUsers(_ context.Context) ([]core.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[core.UserID]bool)
	var out []core.UserID
	for _, r := range s.plans {
		if !seen[r.user] {
			seen[r.user] = true
			out = append(out, r.user)
		}
	}
	slices.Sort(out)
	return out, nil
}

// ListTransactions returns live transactions in r ordered by date then id.
func (s *Store) ListTransactions(_ context.Context, user core.UserID, r core.DateRange) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.txs[user] {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	slices.SortFunc(out, func(a, b core.Transaction) int {
		if c := a.Date.Compare(b.Date.Time); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, user core.UserID, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[user][id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (s *Store) InsertTransaction(_ context.Context, user core.UserID, tx core.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTxID++
	tx.ID = s.nextTxID
	s.live(user)[tx.ID] = tx
	return tx.ID, nil
}

func (s *Store) live(user core.UserID) map[int64]core.Transaction {
	m, ok := s.txs[user]
	if !ok {
		m = make(map[int64]core.Transaction)
		s.txs[user] = m
	}
	return m
}

func (s *Store) ClearFlagForCategory(_ context.Context, user core.UserID, t core.EntryType, category string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearFlags(user, t, category), nil
}

func (s *Store) clearFlags(user core.UserID, t core.EntryType, category string) int64 {
	var n int64
	for id, tx := range s.txs[user] {
		if tx.Flagged && tx.Type == t && tx.Category == category {
			tx.Flagged = false
			s.txs[user][id] = tx
			n++
		}
	}
	return n
}

// PromoteCategory inserts the plan row and clears the flags under one lock.
func (s *Store) PromoteCategory(_ context.Context, user core.UserID, p core.PlanRecord) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.insertPlan(user, p)
	return id, s.clearFlags(user, p.Type, p.Category), nil
}

func (s *Store) SoftDeleteTransaction(_ context.Context, user core.UserID, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[user][id]
	if !ok {
		return core.ErrNotFound
	}
	delete(s.txs[user], id)

	ledger := slices.DeleteFunc(s.deleted[user], func(d core.DeletedTransaction) bool { return d.ID == id })
	s.deleted[user] = append(ledger, core.DeletedTransaction{Transaction: tx, DeletedAt: at})
	return nil
}

func (s *Store) RestoreMostRecentlyDeleted(_ context.Context, user core.UserID) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := s.deleted[user]
	if len(ledger) == 0 {
		return core.Transaction{}, core.ErrNothingToUndo
	}

	newest := len(ledger) - 1
	for i := len(ledger) - 2; i >= 0; i-- {
		if ledger[i].DeletedAt.After(ledger[newest].DeletedAt) {
			newest = i
		}
	}
	entry := ledger[newest]
	if _, taken := s.txs[user][entry.ID]; taken {
		return core.Transaction{}, core.ErrIDConflict
	}

	s.live(user)[entry.ID] = entry.Transaction
	s.deleted[user] = slices.Delete(ledger, newest, newest+1)
	return entry.Transaction, nil
}

// Deleted returns a copy of the user's ledger, oldest first.
func (s *Store) Deleted(user core.UserID) []core.DeletedTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deleted[user])
}

// PutTransaction stores tx under its own id. Tests use it to stage id collisions.
func (s *Store) PutTransaction(user core.UserID, tx core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live(user)[tx.ID] = tx
	if tx.ID > s.nextTxID {
		s.nextTxID = tx.ID
	}
}
