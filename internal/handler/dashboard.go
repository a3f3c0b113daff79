package handler

import (
	"log/slog"
	"net/http"

	"github.com/albudairi/techrewards/internal/store"
)

type DashboardHandler struct {
	technicians *store.TechnicianStore
	gifts       *store.GiftStore
	ledger      *store.LedgerStore
	leaderboard *store.LeaderboardStore
	logger      *slog.Logger
}

func NewDashboardHandler(ts *store.TechnicianStore, gs *store.GiftStore, ls *store.LedgerStore, lb *store.LeaderboardStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{technicians: ts, gifts: gs, ledger: ls, leaderboard: lb, logger: logger}
}

type dashboardStats struct {
	Technicians   int    `json:"technicians"`
	ActiveGifts   int    `json:"active_gifts"`
	TotalAwarded  int    `json:"total_awarded"`
	BestPerformer string `json:"best_performer,omitempty"`
}

// Stats returns the admin dashboard summary counters.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats dashboardStats
	var err error

	if stats.Technicians, err = h.technicians.Count(); err != nil {
		h.logger.Error("count technicians", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if stats.ActiveGifts, err = h.gifts.CountActive(); err != nil {
		h.logger.Error("count active gifts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if stats.TotalAwarded, err = h.ledger.TotalAwarded(); err != nil {
		h.logger.Error("total awarded", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if stats.BestPerformer, err = h.leaderboard.BestPerformer(); err != nil {
		h.logger.Error("best performer", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
