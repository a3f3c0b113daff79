package handler

import (
	"log/slog"
	"net/http"

	"github.com/albudairi/techrewards/internal/store"
)

// winnersLimit caps the public winners feed.
const winnersLimit = 20

type LeaderboardHandler struct {
	leaderboard *store.LeaderboardStore
	logger      *slog.Logger
}

func NewLeaderboardHandler(ls *store.LeaderboardStore, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: ls, logger: logger}
}

// Winners serves the public recognition feed: recent redemption winners, or
// a points ranking when nobody has redeemed anything yet.
func (h *LeaderboardHandler) Winners(w http.ResponseWriter, r *http.Request) {
	board, err := h.leaderboard.Leaderboard(winnersLimit)
	if err != nil {
		h.logger.Error("build leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, board)
}
