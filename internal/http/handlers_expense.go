package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"expensed/internal/core"
	"expensed/internal/service"
)

type createExpenseRequest struct {
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     core.Date `json:"date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.svc.Create(r.Context(), service.NewExpense{
		Category: req.Category,
		Amount:   req.Amount,
		Date:     req.Date,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSearchExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("min_amount")
	minAmount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badRequest(w, fmt.Sprintf("invalid min_amount %q", raw))
		return
	}

	summary, err := s.svc.Summarize(r.Context(), minAmount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type deleteExpenseResponse struct {
	Message string       `json:"message"`
	Expense core.Expense `json:"expense"`
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deleteExpenseResponse{
		Message: fmt.Sprintf("deleted expense %d", deleted.ID),
		Expense: deleted,
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch core.ExpensePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.svc.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDateFilter(w http.ResponseWriter, r *http.Request) {
	var start, end *core.Date

	if v := strings.TrimSpace(r.URL.Query().Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		start = &d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		end = &d
	}

	expenses, err := s.svc.FilterByDate(r.Context(), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// An empty match is a 200 with an empty array, unlike the other lists.
	respondJSON(w, http.StatusOK, expenses)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(w, fmt.Sprintf("invalid expense id %q", raw))
		return 0, false
	}
	return id, true
}
