package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/albudairi/techrewards/internal/store"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	admins   *store.AdminStore
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, as *store.AdminStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, admins: as, logger: logger}
}

type exchangeRateResponse struct {
	IQDPerPoint int `json:"iqd_per_point"`
}

func (h *SettingsHandler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.settings.ExchangeRate()
	if err != nil {
		h.logger.Error("get exchange rate", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, exchangeRateResponse{IQDPerPoint: rate})
}

// SetExchangeRate changes the conversion rate going forward. Past ledger
// entries keep the rate they were computed at.
func (h *SettingsHandler) SetExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req exchangeRateResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.settings.SetExchangeRate(req.IQDPerPoint); err != nil {
		h.logger.Error("set exchange rate", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeRateResponse{IQDPerPoint: req.IQDPerPoint})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateCredentials rotates the super admin's email and password.
func (h *SettingsHandler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.admins.UpdateSuperCredentials(req.Email, string(hash)); err != nil {
		h.logger.Error("update credentials", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
