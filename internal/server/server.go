// Package server exposes the tracker over a small JSON HTTP API. It is a
// thin surface for clients; all domain rules live in pkg/tracker and
// pkg/budget.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/tracker"
)

// Server provides the REST endpoints.
type Server struct {
	tracker      *tracker.Tracker
	defaultOwner string
	mux          *http.ServeMux
	logger       *slog.Logger
}

// New creates an API server. Requests select their owner via the
// X-Owner-ID header; defaultOwner applies when the header is absent.
func New(t *tracker.Tracker, defaultOwner string, logger *slog.Logger) *Server {
	s := &Server{
		tracker:      t,
		defaultOwner: defaultOwner,
		mux:          http.NewServeMux(),
		logger:       logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/transactions", s.handleListTransactions)
	s.mux.HandleFunc("POST /api/v1/transactions", s.handleCreateTransaction)
	s.mux.HandleFunc("PUT /api/v1/transactions/{id}", s.handleUpdateTransaction)
	s.mux.HandleFunc("DELETE /api/v1/transactions/{id}", s.handleDeleteTransaction)

	s.mux.HandleFunc("GET /api/v1/categories", s.handleListCategories)
	s.mux.HandleFunc("POST /api/v1/categories", s.handleCreateCategory)
	s.mux.HandleFunc("DELETE /api/v1/categories/{id}", s.handleDeleteCategory)

	s.mux.HandleFunc("GET /api/v1/budgets", s.handleListBudgets)
	s.mux.HandleFunc("POST /api/v1/budgets", s.handleSetBudget)
	s.mux.HandleFunc("PUT /api/v1/budgets/global", s.handleSetGlobalBudget)
	s.mux.HandleFunc("DELETE /api/v1/budgets/{id}", s.handleDeleteBudget)

	s.mux.HandleFunc("GET /api/v1/notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /api/v1/notifications/{id}/read", s.handleMarkRead)
	s.mux.HandleFunc("POST /api/v1/notifications/{id}/unread", s.handleMarkUnread)
	s.mux.HandleFunc("DELETE /api/v1/notifications/{id}", s.handleDeleteNotification)
	s.mux.HandleFunc("DELETE /api/v1/notifications", s.handleResetNotifications)

	s.mux.HandleFunc("GET /api/v1/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/v1/settings", s.handlePutSettings)

	s.mux.HandleFunc("GET /api/v1/stats", s.handleStats)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) owner(r *http.Request) string {
	if o := r.Header.Get("X-Owner-ID"); o != "" {
		return o
	}
	return s.defaultOwner
}

func (s *Server) reqContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	txs, err := s.tracker.Transactions(ctx, s.owner(r))
	if err != nil {
		s.serverError(w, "list transactions", err)
		return
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	tx.ID = ""
	tx.OwnerID = s.owner(r)

	if err := s.tracker.AddTransaction(ctx, &tx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	tx.ID = r.PathValue("id")
	tx.OwnerID = s.owner(r)

	if err := s.tracker.UpdateTransaction(ctx, &tx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	if err := s.tracker.DeleteTransaction(ctx, s.owner(r), r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	cats, err := s.tracker.Categories(ctx, s.owner(r))
	if err != nil {
		s.serverError(w, "list categories", err)
		return
	}
	s.writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	var cat model.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	cat.ID = ""
	cat.OwnerID = s.owner(r)

	if err := s.tracker.AddCategory(ctx, &cat); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	if err := s.tracker.DeleteCategory(ctx, s.owner(r), r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	global, cats, err := s.tracker.Budgets(ctx, s.owner(r))
	if err != nil {
		s.serverError(w, "list budgets", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"global":           global,
		"category_budgets": cats,
	})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	var b model.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	b.OwnerID = s.owner(r)

	if err := s.tracker.SetBudget(ctx, &b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleSetGlobalBudget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	var b model.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	b.ID = ""
	b.OwnerID = s.owner(r)

	if err := s.tracker.SetGlobalBudget(ctx, &b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	if err := s.tracker.DeleteBudget(ctx, s.owner(r), r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	notifs, err := s.tracker.Notifications(ctx, s.owner(r))
	if err != nil {
		s.serverError(w, "list notifications", err)
		return
	}
	s.writeJSON(w, http.StatusOK, notifs)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	s.markNotification(w, r, true)
}

func (s *Server) handleMarkUnread(w http.ResponseWriter, r *http.Request) {
	s.markNotification(w, r, false)
}

func (s *Server) markNotification(w http.ResponseWriter, r *http.Request, read bool) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	if err := s.tracker.MarkNotificationRead(ctx, s.owner(r), r.PathValue("id"), read); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	if err := s.tracker.DeleteNotification(ctx, s.owner(r), r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	if err := s.tracker.ResetNotifications(ctx, s.owner(r)); err != nil {
		s.serverError(w, "reset notifications", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	settings, err := s.tracker.Settings(ctx, s.owner(r))
	if err != nil {
		s.serverError(w, "get settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	settings.OwnerID = s.owner(r)

	if err := s.tracker.PutSettings(ctx, &settings); err != nil {
		s.serverError(w, "put settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.reqContext(r)
	defer cancel()

	period := tracker.StatsPeriod(r.URL.Query().Get("period"))
	summary, err := s.tracker.Stats(ctx, s.owner(r), period)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}
