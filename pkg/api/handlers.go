package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phenomenon0/ballpulse/pkg/engine"
)

// handleCompare runs a matchup comparison.
// POST /api/v1/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Team1 == "" || req.Team2 == "" {
		writeError(w, http.StatusBadRequest, errors.New("team1 and team2 are required"))
		return
	}

	cmp, err := s.engine.Compare(r.Context(), req)
	if err != nil {
		if errors.Is(err, engine.ErrUnsupportedSport) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Printf("[API] compare failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("comparison failed"))
		return
	}

	if s.hub != nil && !cmp.Cached {
		s.hub.BroadcastPrediction(cmp)
	}
	writeJSON(w, http.StatusOK, cmp)
}

// handleResolveTeam resolves a free-form team name.
// GET /api/v1/teams/resolve?name=...
func (s *Server) handleResolveTeam(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name query parameter is required"))
		return
	}

	res := s.engine.Resolver().Resolve(name)
	writeJSON(w, http.StatusOK, res)
}

// handleHistoryList returns recent comparisons, newest first.
// GET /api/v1/history?limit=&team1=&team2=
func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be an integer in [1,500]"))
			return
		}
		limit = n
	}

	filter := engine.HistoryFilter{
		Team1: r.URL.Query().Get("team1"),
		Team2: r.URL.Query().Get("team2"),
	}

	entries, err := s.engine.History().Recent(r.Context(), limit, filter)
	if err != nil {
		s.logger.Printf("[API] history list failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("history unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleHistoryGet returns one stored comparison by id.
// GET /api/v1/history/{entryID}
func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "entryID")

	entry, ok, err := s.engine.History().Get(r.Context(), id)
	if err != nil {
		s.logger.Printf("[API] history get failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("history unavailable"))
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no comparison with id %s", id))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleHistoryClear removes all stored comparisons.
// DELETE /api/v1/history
func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.History().Clear(r.Context())
	if err != nil {
		s.logger.Printf("[API] history clear failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("history unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

// handleCacheClear drops all cached results and team scores.
// POST /api/v1/cache/clear
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearCache(r.Context()); err != nil {
		s.logger.Printf("[API] cache clear failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("cache unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleHealth reports liveness.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(s.started).Truncate(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}
