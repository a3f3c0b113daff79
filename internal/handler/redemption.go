package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/albudairi/techrewards/internal/auth"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
	"github.com/albudairi/techrewards/internal/ws"
)

type RedemptionHandler struct {
	redemptions *store.RedemptionStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewRedemptionHandler(rs *store.RedemptionStore, hub *ws.Hub, logger *slog.Logger) *RedemptionHandler {
	return &RedemptionHandler{redemptions: rs, hub: hub, logger: logger}
}

type redeemRequest struct {
	GiftID int64 `json:"gift_id"`
}

type redeemResponse struct {
	Redemption *model.Redemption `json:"redemption"`
	Balance    int               `json:"balance"`
}

// Redeem spends the calling technician's points on a gift. Outcome is
// decided atomically in the store; two technicians racing for the last
// affordable redemption cannot both win.
func (h *RedemptionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.GiftID <= 0 {
		writeError(w, http.StatusBadRequest, "gift_id is required")
		return
	}

	technicianID := auth.ActorID(r.Context())
	redemption, balance, err := h.redemptions.Redeem(technicianID, req.GiftID)
	if err != nil {
		if !errors.Is(err, store.ErrInsufficientBalance) && !errors.Is(err, store.ErrGiftUnavailable) {
			h.logger.Error("redeem", "technician_id", technicianID, "gift_id", req.GiftID, "error", err)
		}
		writeStoreError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(ws.EventGiftRedeemed, map[string]any{
			"technician_id": technicianID,
			"gift_id":       req.GiftID,
			"points_spent":  redemption.PointsSpent,
		}))
	}
	writeJSON(w, http.StatusCreated, redeemResponse{Redemption: redemption, Balance: balance})
}

// MyGifts returns the calling technician's redemption history, newest first.
func (h *RedemptionHandler) MyGifts(w http.ResponseWriter, r *http.Request) {
	technicianID := auth.ActorID(r.Context())
	gifts, err := h.redemptions.ListByTechnician(technicianID)
	if err != nil {
		h.logger.Error("list redemptions", "technician_id", technicianID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if gifts == nil {
		gifts = []model.RedeemedGift{}
	}
	writeJSON(w, http.StatusOK, gifts)
}
