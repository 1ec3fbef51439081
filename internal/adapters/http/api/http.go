// Package api serves the leaderboards of the last ranking run over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/squadrank/internal/adapters/repository"
	"github.com/okian/squadrank/internal/domain/types"
)

// DefaultLimit is the leaderboard page size when the request names none.
const DefaultLimit = 10

// Dependencies required by HTTP handlers.
type Dependencies interface {
	TopN(ctx context.Context, board string, n int) (types.Leaderboard, error)
	Rank(ctx context.Context, board, player string) ([]types.Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// leaderboard page size.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.Metrics())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError maps a leaderboard lookup failure to a status.
func writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, types.ErrUnknownBoard):
		writeError(w, http.StatusNotFound, "unknown_board", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, types.ErrNoRun):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// boardParam resolves the board named by the role and kind query parameters.
// kind defaults to score.
func boardParam(r *http.Request) (string, bool) {
	q := r.URL.Query()
	kind := q.Get("kind")
	if kind == "" {
		kind = "score"
	}
	return board(q.Get("role"), kind)
}

func board(role, kind string) (string, bool) {
	rl, k, ok := types.ParseBoard(role + "_" + kind)
	if !ok {
		return "", false
	}
	return types.Board(rl, k), true
}
