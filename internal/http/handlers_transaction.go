package http

import (
	"net/http"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Transactions.Create(r.Context(), user, tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dr, err := parseDateRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := s.svc.Transactions.List(r.Context(), user, dr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = newTransactionResponse(tx)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Transactions.Delete(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.svc.Transactions.Undo(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(tx))
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	user, err := parseUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req promoteRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	res, err := s.svc.Transactions.Promote(r.Context(), user, id, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, promoteResponse{Plan: newPlanResponse(res.Plan), Cleared: res.Cleared})
}
