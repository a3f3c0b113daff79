// Package server wires the stores, handlers, and middleware into one
// http.Handler.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/albudairi/techrewards/internal/blob"
	"github.com/albudairi/techrewards/internal/handler"
	"github.com/albudairi/techrewards/internal/middleware"
	"github.com/albudairi/techrewards/internal/store"
	"github.com/albudairi/techrewards/internal/ws"
)

// loginLimit is the per-IP cap on login attempts per window.
const (
	loginLimit  = 10
	loginWindow = time.Minute
)

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH        *handler.AuthHandler
	technicianH  *handler.TechnicianHandler
	pointsH      *handler.PointsHandler
	giftH        *handler.GiftHandler
	redemptionH  *handler.RedemptionHandler
	leaderboardH *handler.LeaderboardHandler
	dashboardH   *handler.DashboardHandler
	settingsH    *handler.SettingsHandler

	sessionStore    *store.SessionStore
	adminStore      *store.AdminStore
	technicianStore *store.TechnicianStore

	rateLimiter *middleware.RateLimiter
	uploadsDir  string
	logger      *slog.Logger
}

// New builds the server. uploadsDir is non-empty only when gift images live
// on local disk; the server then serves them under /uploads/.
func New(db *sql.DB, blobs blob.Store, uploadsDir string, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	adminStore := store.NewAdminStore(db)
	technicianStore := store.NewTechnicianStore(db)
	sessionStore := store.NewSessionStore(db)
	giftStore := store.NewGiftStore(db)
	ledgerStore := store.NewLedgerStore(db)
	redemptionStore := store.NewRedemptionStore(db)
	leaderboardStore := store.NewLeaderboardStore(db)
	settingsStore := store.NewSettingsStore(db)

	return &Server{
		db:  db,
		hub: hub,

		authH:        handler.NewAuthHandler(adminStore, technicianStore, sessionStore, logger.With("component", "auth")),
		technicianH:  handler.NewTechnicianHandler(technicianStore, hub, logger.With("component", "technician")),
		pointsH:      handler.NewPointsHandler(ledgerStore, hub, logger.With("component", "points")),
		giftH:        handler.NewGiftHandler(giftStore, blobs, hub, logger.With("component", "gift")),
		redemptionH:  handler.NewRedemptionHandler(redemptionStore, hub, logger.With("component", "redemption")),
		leaderboardH: handler.NewLeaderboardHandler(leaderboardStore, logger.With("component", "leaderboard")),
		dashboardH:   handler.NewDashboardHandler(technicianStore, giftStore, ledgerStore, leaderboardStore, logger.With("component", "dashboard")),
		settingsH:    handler.NewSettingsHandler(settingsStore, adminStore, logger.With("component", "settings")),

		sessionStore:    sessionStore,
		adminStore:      adminStore,
		technicianStore: technicianStore,

		rateLimiter: middleware.NewRateLimiter(),
		uploadsDir:  uploadsDir,
		logger:      logger,
	}
}

// SessionStore exposes the session store for periodic cleanup.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter exposes the rate limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /api/winners", s.leaderboardH.Winners)
	mux.HandleFunc("POST /api/admin/login", s.rateLimited(s.authH.AdminLogin))
	mux.HandleFunc("POST /api/technician/login", s.rateLimited(s.authH.TechnicianLogin))
	if s.uploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	}

	// Admin routes
	adminMux := http.NewServeMux()
	s.registerAdminRoutes(adminMux)
	requireAdmin := middleware.RequireAdmin(s.sessionStore, s.adminStore)
	mux.Handle("/api/admin/", requireAdmin(adminMux))

	// Technician routes
	requireTechnician := middleware.RequireTechnician(s.sessionStore, s.technicianStore)
	technician := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireTechnician(h))
	}
	technician("POST /api/technician/logout", s.authH.TechnicianLogout)
	technician("GET /api/me", s.technicianH.Me)
	technician("GET /api/me/transactions", s.pointsH.MyHistory)
	technician("GET /api/me/gifts", s.redemptionH.MyGifts)
	technician("GET /api/gifts", s.giftH.ListActive)
	technician("POST /api/redemptions", s.redemptionH.Redeem)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/logout", s.authH.AdminLogout)
	mux.HandleFunc("GET /api/admin/dashboard", s.dashboardH.Stats)

	mux.HandleFunc("GET /api/admin/technicians", s.technicianH.List)
	mux.HandleFunc("POST /api/admin/technicians", s.technicianH.Create)
	mux.HandleFunc("GET /api/admin/technicians/{id}", s.technicianH.Get)
	mux.HandleFunc("PUT /api/admin/technicians/{id}", s.technicianH.Update)
	mux.HandleFunc("DELETE /api/admin/technicians/{id}", s.technicianH.Delete)
	mux.HandleFunc("POST /api/admin/technicians/{id}/points", s.pointsH.Add)
	mux.HandleFunc("GET /api/admin/technicians/{id}/transactions", s.pointsH.History)
	mux.HandleFunc("GET /api/admin/transactions", s.pointsH.Recent)

	mux.HandleFunc("GET /api/admin/gifts", s.giftH.List)
	mux.HandleFunc("POST /api/admin/gifts", s.giftH.Create)
	mux.HandleFunc("PUT /api/admin/gifts/{id}", s.giftH.Update)
	mux.HandleFunc("PATCH /api/admin/gifts/{id}/active", s.giftH.SetActive)
	mux.HandleFunc("POST /api/admin/gifts/{id}/image", s.giftH.UploadImage)
	mux.HandleFunc("DELETE /api/admin/gifts/{id}", s.giftH.Delete)

	mux.HandleFunc("GET /api/admin/settings/exchange-rate", s.settingsH.GetExchangeRate)
	mux.Handle("PUT /api/admin/settings/exchange-rate", middleware.RequireSuperAdmin(http.HandlerFunc(s.settingsH.SetExchangeRate)))
	mux.Handle("PUT /api/admin/credentials", middleware.RequireSuperAdmin(http.HandlerFunc(s.settingsH.UpdateCredentials)))

	mux.HandleFunc("GET /api/admin/ws", ws.Handler(s.hub))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, loginLimit, loginWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}
