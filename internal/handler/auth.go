package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/albudairi/techrewards/internal/middleware"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
)

type AuthHandler struct {
	admins      *store.AdminStore
	technicians *store.TechnicianStore
	sessions    *store.SessionStore
	logger      *slog.Logger
}

func NewAuthHandler(as *store.AdminStore, ts *store.TechnicianStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{admins: as, technicians: ts, sessions: ss, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AdminLogin checks email+password and issues an admin session cookie.
// Lookup failures and bad passwords share one message to avoid revealing
// which admins exist.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	admin, hash, err := h.admins.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("admin lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if admin == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessions.Create(admin.ID, model.ActorAdmin)
	if err != nil {
		h.logger.Error("create admin session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setSessionCookie(w, middleware.AdminCookie, sess)
	writeJSON(w, http.StatusOK, admin)
}

// TechnicianLogin checks phone+password and issues a technician session
// cookie.
func (h *AuthHandler) TechnicianLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "phone and password are required")
		return
	}

	tech, hash, err := h.technicians.GetByPhone(req.Phone)
	if err != nil {
		h.logger.Error("technician lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tech == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessions.Create(tech.ID, model.ActorTechnician)
	if err != nil {
		h.logger.Error("create technician session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setSessionCookie(w, middleware.TechnicianCookie, sess)
	writeJSON(w, http.StatusOK, tech)
}

// AdminLogout deletes the admin session and clears its cookie.
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, middleware.AdminCookie)
}

// TechnicianLogout deletes the technician session and clears its cookie.
func (h *AuthHandler) TechnicianLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, middleware.TechnicianCookie)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request, cookieName string) {
	if cookie, err := r.Cookie(cookieName); err == nil {
		if sess, err := h.sessions.GetByToken(cookie.Value); err == nil && sess != nil {
			if err := h.sessions.Delete(sess.ID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}
	clearSessionCookie(w, cookieName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func setSessionCookie(w http.ResponseWriter, name string, sess *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
