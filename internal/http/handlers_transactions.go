package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/services"
)

func (s *Server) handleHomeSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	summary, err := s.transactions.HomeSummary(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	views, err := s.transactions.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var in services.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.transactions.Create(r.Context(), userID, in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	transactionID, ok := pathID(w, r, "transactionId")
	if !ok {
		return
	}

	if err := s.transactions.Delete(r.Context(), userID, transactionID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted successfully"})
}
