// Package http is the JSON boundary of the expense service: it decodes
// requests, calls the service, and maps typed failures to status codes.
package http

import (
	"net/http"
	"time"

	"expensed/internal/middleware/trace"
	"expensed/internal/service"
)

type Server struct {
	http.Server
	svc *service.ExpenseService
}

func NewServer(addr string, svc *service.ExpenseService) *Server {
	s := &Server{svc: svc}

	s.Server = http.Server{
		Addr:           addr,
		Handler:        trace.Middleware(s.routes()),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /expenses/{$}", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses/{$}", s.handleListExpenses)
	mux.HandleFunc("GET /expenses/category/{category}", s.handleListByCategory)
	mux.HandleFunc("GET /expenses/summary/{min_amount}", s.handleSummary)
	mux.HandleFunc("GET /expenses/search/{$}", s.handleSearchExpenses)
	mux.HandleFunc("GET /expenses/datefilter/{$}", s.handleDateFilter)
	mux.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "expensed up and running"})
}
