package middleware

import (
	"net/http"

	"github.com/albudairi/techrewards/internal/auth"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
)

// Session cookie names. Admin and technician sessions are separate cookies
// so an admin browsing the technician UI does not clobber either login.
const (
	AdminCookie      = "rewards_admin_session"
	TechnicianCookie = "rewards_tech_session"
)

// RequireAdmin validates the admin session cookie and attaches the identity
// to the request context.
func RequireAdmin(sessions *store.SessionStore, admins *store.AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromCookie(r, sessions, AdminCookie, model.ActorAdmin)
			if sess == nil {
				unauthorized(w)
				return
			}

			admin, err := admins.GetByID(sess.ActorID)
			if err != nil || admin == nil {
				unauthorized(w)
				return
			}

			id := auth.Identity{
				ActorID:   sess.ActorID,
				Role:      model.ActorAdmin,
				AdminRole: admin.Role,
				SessionID: sess.ID,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireTechnician validates the technician session cookie and attaches
// the identity to the request context.
func RequireTechnician(sessions *store.SessionStore, technicians *store.TechnicianStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromCookie(r, sessions, TechnicianCookie, model.ActorTechnician)
			if sess == nil {
				unauthorized(w)
				return
			}

			tech, err := technicians.GetByID(sess.ActorID)
			if err != nil || tech == nil {
				unauthorized(w)
				return
			}

			id := auth.Identity{
				ActorID:   sess.ActorID,
				Role:      model.ActorTechnician,
				SessionID: sess.ID,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireSuperAdmin restricts a route to the seeded super admin. Must run
// inside RequireAdmin.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsSuperAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFromCookie(r *http.Request, sessions *store.SessionStore, cookieName, role string) *model.Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, err := sessions.GetByToken(cookie.Value)
	if err != nil || sess == nil || sess.Role != role {
		return nil
	}
	return sess
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}
