package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/albudairi/techrewards/internal/auth"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
	"github.com/albudairi/techrewards/internal/ws"
)

type TechnicianHandler struct {
	technicians *store.TechnicianStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewTechnicianHandler(ts *store.TechnicianStore, hub *ws.Hub, logger *slog.Logger) *TechnicianHandler {
	return &TechnicianHandler{technicians: ts, hub: hub, logger: logger}
}

func (h *TechnicianHandler) broadcast(ev ws.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type technicianRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Password  string `json:"password"`
}

func (r *technicianRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Specialty = strings.TrimSpace(r.Specialty)
}

func (h *TechnicianHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req technicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.trim()
	if req.Name == "" || req.Phone == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, phone, and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	tech, err := h.technicians.Create(req.Name, req.Phone, string(hash), req.Specialty)
	if err != nil {
		h.logger.Error("create technician", "error", err)
		writeStoreError(w, err)
		return
	}

	h.broadcast(ws.NewEvent(ws.EventTechnicianCreated, map[string]any{"id": tech.ID, "name": tech.Name}))
	writeJSON(w, http.StatusCreated, tech)
}

func (h *TechnicianHandler) List(w http.ResponseWriter, r *http.Request) {
	techs, err := h.technicians.List()
	if err != nil {
		h.logger.Error("list technicians", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if techs == nil {
		techs = []model.Technician{}
	}
	writeJSON(w, http.StatusOK, techs)
}

func (h *TechnicianHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tech, err := h.technicians.GetByID(id)
	if err != nil {
		h.logger.Error("get technician", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tech == nil {
		writeError(w, http.StatusNotFound, "technician not found")
		return
	}
	writeJSON(w, http.StatusOK, tech)
}

func (h *TechnicianHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req technicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.trim()
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	// Empty password keeps the current credential.
	var hash string
	if req.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error("hash password", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		hash = string(b)
	}

	tech, err := h.technicians.Update(id, req.Name, req.Phone, req.Specialty, hash)
	if err != nil {
		h.logger.Error("update technician", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tech)
}

func (h *TechnicianHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.technicians.Delete(id); err != nil {
		h.logger.Error("delete technician", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Me returns the technician's own profile with their current balance.
func (h *TechnicianHandler) Me(w http.ResponseWriter, r *http.Request) {
	tech, err := h.technicians.GetByID(auth.ActorID(r.Context()))
	if err != nil {
		h.logger.Error("get technician", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tech == nil {
		writeError(w, http.StatusNotFound, "technician not found")
		return
	}
	writeJSON(w, http.StatusOK, tech)
}
