package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealthz reports process liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz pings every backing service and reports per-service status.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.ReadinessChecks))

	for _, check := range s.deps.ReadinessChecks {
		if err := check.Pinger.Ping(ctx); err != nil {
			checks[check.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[check.Name] = "ok"
	}

	writeJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// API HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// leaderboardEntryDTO is the JSON shape of one leaderboard row.
type leaderboardEntryDTO struct {
	Rank             int   `json:"rank"`
	UserID           int64 `json:"user_id"`
	XP               int64 `json:"xp"`
	Streak           int   `json:"streak"`
	TotalCompletions int   `json:"total_completions"`
}

// handleLeaderboard serves GET /api/v1/leaderboard?limit=N.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	result, err := s.deps.LeaderboardQuery.Handle(r.Context(), query.GetLeaderboardQuery{Limit: limit})
	if err != nil {
		s.logger.Error("leaderboard query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	entries := make([]leaderboardEntryDTO, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, leaderboardEntryDTO{
			Rank:             e.Rank.Int(),
			UserID:           e.UserID.Int64(),
			XP:               e.XP.Int64(),
			Streak:           e.Streak,
			TotalCompletions: e.TotalCompletions,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":     entries,
		"total_users": result.TotalUsers,
	})
}

// suggestionDTO is the JSON shape of one pending suggestion.
type suggestionDTO struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	Category    string    `json:"category"`
	SubmittedBy int64     `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// handlePendingSuggestions serves GET /api/v1/suggestions/pending.
func (s *Server) handlePendingSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.deps.SuggestionRepo.ListPending(r.Context(), 100)
	if err != nil {
		s.logger.Error("pending suggestions query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := make([]suggestionDTO, 0, len(suggestions))
	for _, sg := range suggestions {
		dtos = append(dtos, suggestionDTO{
			ID:          sg.ID,
			Text:        sg.Text,
			Category:    sg.Category,
			SubmittedBy: sg.SubmittedBy.Int64(),
			CreatedAt:   sg.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": dtos})
}

// handleApproveSuggestion serves POST /api/v1/suggestions/{id}/approve.
func (s *Server) handleApproveSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "suggestion id must be a positive integer")
		return
	}

	result, err := s.deps.ApproveSuggestionCmd.Handle(r.Context(), command.ApproveSuggestionCommand{
		SuggestionID: id,
		ApprovedBy:   adminAPIActor,
	})
	if errors.Is(err, shared.ErrSuggestionNotFound) {
		writeError(w, http.StatusNotFound, "suggestion not found")
		return
	}
	if err != nil {
		s.logger.Error("approve suggestion failed", "suggestion_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":               result.SuggestionID,
		"already_approved": result.AlreadyApproved,
	})
}

// adminAPIActor is the synthetic actor ID recorded for REST approvals.
const adminAPIActor int64 = 1

// grantXPRequest is the JSON body of POST /api/v1/users/{id}/xp.
type grantXPRequest struct {
	Amount int64  `json:"amount"`
	Source string `json:"source"`
}

// handleGrantXP serves POST /api/v1/users/{id}/xp.
func (s *Server) handleGrantXP(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "user id must be a positive integer")
		return
	}

	var req grantXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount cannot be negative")
		return
	}

	result, err := s.deps.RecordXPCmd.Handle(r.Context(), command.RecordXPCommand{
		UserID: userID,
		Amount: req.Amount,
		Source: req.Source,
	})
	if err != nil {
		s.logger.Error("grant xp failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  result.UserID,
		"credited": result.Amount,
		"total_xp": result.TotalXP,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// adminTokenHeader carries the admin API token.
const adminTokenHeader = "X-Admin-Token"

// requireAdmin guards admin endpoints with a bcrypt-hashed token.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminTokenHash == "" {
			writeError(w, http.StatusForbidden, "admin API disabled")
			return
		}

		token := strings.TrimSpace(r.Header.Get(adminTokenHeader))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing admin token")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminTokenHash), []byte(token)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}

		next(w, r)
	}
}

// instrument wraps the mux with request metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.metrics.observe(r.Method, r.URL.Path, rec.status, time.Since(started))
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
