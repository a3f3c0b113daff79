package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/albudairi/techrewards/internal/blob"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
	"github.com/albudairi/techrewards/internal/ws"
)

// maxImageBytes caps gift image uploads at 5 MiB.
const maxImageBytes = 5 << 20

type GiftHandler struct {
	gifts  *store.GiftStore
	blobs  blob.Store
	hub    *ws.Hub
	logger *slog.Logger
}

func NewGiftHandler(gs *store.GiftStore, blobs blob.Store, hub *ws.Hub, logger *slog.Logger) *GiftHandler {
	return &GiftHandler{gifts: gs, blobs: blobs, hub: hub, logger: logger}
}

// Create accepts multipart form data so a gift and its image arrive in one
// request. The image part is optional, and an upload failure degrades to an
// image-less gift instead of rejecting the whole creation.
func (h *GiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	pointsRequired, err := strconv.Atoi(r.FormValue("points_required"))
	if name == "" || err != nil {
		writeError(w, http.StatusBadRequest, "name and points_required are required")
		return
	}

	imageRef := h.storeImage(r)

	gift, err := h.gifts.Create(name, pointsRequired, imageRef)
	if err != nil {
		h.logger.Error("create gift", "error", err)
		writeStoreError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(ws.EventGiftCreated, map[string]any{"id": gift.ID, "name": gift.Name}))
	}
	writeJSON(w, http.StatusCreated, gift)
}

// storeImage saves the optional "image" part and returns its ref, or ""
// when no file was sent or the upload failed.
func (h *GiftHandler) storeImage(r *http.Request) string {
	file, header, err := r.FormFile("image")
	if err != nil {
		return ""
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		h.logger.Warn("read gift image", "error", err)
		return ""
	}

	ref, err := h.blobs.Put(r.Context(), header.Filename, data)
	if err != nil {
		h.logger.Warn("store gift image", "error", err)
		return ""
	}
	return ref
}

// List returns every gift, including inactive ones, for the admin catalog.
func (h *GiftHandler) List(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.gifts.List()
	if err != nil {
		h.logger.Error("list gifts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if gifts == nil {
		gifts = []model.Gift{}
	}
	writeJSON(w, http.StatusOK, gifts)
}

// ListActive returns redeemable gifts, cheapest first, for technicians.
func (h *GiftHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.gifts.ListActive()
	if err != nil {
		h.logger.Error("list active gifts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if gifts == nil {
		gifts = []model.Gift{}
	}
	writeJSON(w, http.StatusOK, gifts)
}

type giftUpdateRequest struct {
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
}

func (h *GiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req giftUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	gift, err := h.gifts.Update(id, req.Name, req.PointsRequired)
	if err != nil {
		h.logger.Error("update gift", "gift_id", id, "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gift)
}

type giftActiveRequest struct {
	Active bool `json:"active"`
}

func (h *GiftHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req giftActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.gifts.SetActive(id, req.Active); err != nil {
		h.logger.Error("set gift active", "gift_id", id, "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": req.Active})
}

// UploadImage replaces a gift's image. The old blob is deleted best-effort
// after the new ref is committed.
func (h *GiftHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	gift, err := h.gifts.GetByID(id)
	if err != nil {
		h.logger.Error("get gift", "gift_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if gift == nil {
		writeError(w, http.StatusNotFound, "gift not found")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	ref := h.storeImage(r)
	if ref == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	if err := h.gifts.SetImageRef(id, ref); err != nil {
		h.logger.Error("set image ref", "gift_id", id, "error", err)
		writeStoreError(w, err)
		return
	}

	if gift.ImageRef != "" {
		if err := h.blobs.Delete(r.Context(), gift.ImageRef); err != nil {
			h.logger.Warn("delete old image", "ref", gift.ImageRef, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_ref": ref})
}

func (h *GiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	gift, err := h.gifts.GetByID(id)
	if err != nil {
		h.logger.Error("get gift", "gift_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if gift == nil {
		writeError(w, http.StatusNotFound, "gift not found")
		return
	}

	if err := h.gifts.Delete(id); err != nil {
		h.logger.Error("delete gift", "gift_id", id, "error", err)
		writeStoreError(w, err)
		return
	}

	if gift.ImageRef != "" {
		if err := h.blobs.Delete(r.Context(), gift.ImageRef); err != nil {
			h.logger.Warn("delete gift image", "ref", gift.ImageRef, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
