package httpserver

import (
	"net/http"

	"github.com/google/uuid"
)

type budgetRequestJSON struct {
	Amount *float64 `json:"amount"`
	Period string   `json:"period"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	budget, err := s.deps.Budgets.Current(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toBudgetJSON(budget))
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req budgetRequestJSON
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	budget, err := s.deps.Budgets.Create(r.Context(), userID, req.Amount, req.Period)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, toBudgetJSON(budget))
}
