package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/squadrank/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, board, player string) ([]types.Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{role}/{player}?kind=K requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	role, player, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/rank/"), "/")
	if !ok || role == "" || strings.TrimSpace(player) == "" || strings.Contains(player, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "score"
	}
	name, ok := board(role, kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_board", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.Rank(r.Context(), name, player)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
