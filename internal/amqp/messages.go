package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind names what happened in a user's ledger.
type EventKind string

const (
	KindPlanChanged         EventKind = "plan.changed"
	KindCategoryPromoted    EventKind = "category.promoted"
	KindTransactionFlagged  EventKind = "transaction.flagged"
	KindTransactionDeleted  EventKind = "transaction.deleted"
	KindTransactionRestored EventKind = "transaction.restored"
)

var ErrInvalidEvent = errors.New("invalid ledger event")

// LedgerEvent is the message body published after a plan or transaction
// mutation. Consumers reload what they need from storage.
type LedgerEvent struct {
	ID            string    `json:"id"`
	Kind          EventKind `json:"kind"`
	UserID        int64     `json:"user_id"`
	Period        string    `json:"period"`
	Type          string    `json:"type,omitempty"`
	Category      string    `json:"category,omitempty"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent stamps a fresh event with a random id and the current time.
func NewLedgerEvent(kind EventKind, userID int64, period string) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		Period:    period,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and sanity checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if _, err := uuid.Parse(ev.ID); err != nil {
		return nil, fmt.Errorf("%w: id %q", ErrInvalidEvent, ev.ID)
	}
	if ev.Kind == "" || ev.UserID == 0 {
		return nil, fmt.Errorf("%w: missing kind or user", ErrInvalidEvent)
	}
	return &ev, nil
}
