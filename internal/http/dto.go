package http

import (
	"time"

	"penny/internal/core"
	"penny/internal/recurrence"
)

type transactionRequest struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Mode     string `json:"mode"`
	Details  string `json:"details"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := core.ParseEntryType(req.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	mode, err := core.ParseMode(req.Mode)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:     date,
		Type:     t,
		Category: sanitizeInput(req.Category),
		Amount:   req.Amount,
		Mode:     mode,
		Details:  sanitizeInput(req.Details),
	}, nil
}

type transactionResponse struct {
	ID       int64          `json:"id"`
	Date     string         `json:"date"`
	Type     core.EntryType `json:"type"`
	Category string         `json:"category"`
	Amount   int64          `json:"amount"`
	Mode     core.Mode      `json:"mode"`
	Details  string         `json:"details"`
	Flagged  bool           `json:"flagged"`
}

func newTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID,
		Date:     tx.Date.Format(time.DateOnly),
		Type:     tx.Type,
		Category: tx.Category,
		Amount:   tx.Amount,
		Mode:     tx.Mode,
		Details:  tx.Details,
		Flagged:  tx.Flagged,
	}
}

type planResponse struct {
	ID         int64          `json:"id"`
	Period     core.Period    `json:"period"`
	Type       core.EntryType `json:"type"`
	Category   string         `json:"category"`
	Amount     int64          `json:"amount"`
	Recurrence string         `json:"recurrence"`
	Due        string         `json:"due"`
}

func newPlanResponse(p core.PlanRecord) planResponse {
	return planResponse{
		ID:         p.ID,
		Period:     p.Period,
		Type:       p.Type,
		Category:   p.Category,
		Amount:     p.Amount,
		Recurrence: p.Rule.Kind.String(),
		Due:        recurrence.Format(p.Rule),
	}
}

type copyRequest struct {
	From core.Period `json:"from"`
	To   core.Period `json:"to"`
}

type promoteRequest struct {
	Amount int64 `json:"amount"`
}

type promoteResponse struct {
	Plan    planResponse `json:"plan"`
	Cleared int64        `json:"cleared"`
}

type trendResponse struct {
	Period   core.Period `json:"period"`
	Income   int64       `json:"income"`
	Expenses int64       `json:"expenses"`
	Savings  int64       `json:"savings"`
	Balance  int64       `json:"balance"`
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Shape   string `json:"shape"`
	Pattern string `json:"pattern"`
	Text    string `json:"text"`
}
