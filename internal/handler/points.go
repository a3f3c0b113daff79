package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/albudairi/techrewards/internal/auth"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
	"github.com/albudairi/techrewards/internal/ws"
)

type PointsHandler struct {
	ledger *store.LedgerStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewPointsHandler(ls *store.LedgerStore, hub *ws.Hub, logger *slog.Logger) *PointsHandler {
	return &PointsHandler{ledger: ls, hub: hub, logger: logger}
}

type addPointsRequest struct {
	AmountIQD int `json:"amount_iqd"`
}

// Add converts a purchase amount to points at the configured rate and
// credits them to the technician in the URL. The acting admin comes from
// the session, never the request body.
func (h *PointsHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req addPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	tx, err := h.ledger.AddPoints(id, req.AmountIQD, auth.ActorID(r.Context()))
	if err != nil {
		h.logger.Error("add points", "technician_id", id, "error", err)
		writeStoreError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(ws.EventPointsAwarded, map[string]any{
			"technician_id": tx.TechnicianID,
			"points":        tx.PointsAdded,
		}))
	}
	writeJSON(w, http.StatusCreated, tx)
}

// recentLimit caps the global activity feed.
const recentLimit = 50

// Recent returns the newest accruals across all technicians.
func (h *PointsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledger.Recent(recentLimit)
	if err != nil {
		h.logger.Error("list recent transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if txs == nil {
		txs = []model.PointsTransaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// History returns a technician's accrual audit trail, newest first.
func (h *PointsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.writeHistory(w, id)
}

// MyHistory returns the calling technician's own accrual history.
func (h *PointsHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	h.writeHistory(w, auth.ActorID(r.Context()))
}

func (h *PointsHandler) writeHistory(w http.ResponseWriter, technicianID int64) {
	txs, err := h.ledger.ListByTechnician(technicianID)
	if err != nil {
		h.logger.Error("list transactions", "technician_id", technicianID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if txs == nil {
		txs = []model.PointsTransaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}
