package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/albudairi/techrewards/internal/auth"
	"github.com/albudairi/techrewards/internal/database"
	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/store"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func asTechnician(r *http.Request, id int64) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ActorID: id, Role: model.ActorTechnician}))
}

func asAdmin(r *http.Request, id int64) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ActorID: id, Role: model.ActorAdmin, AdminRole: model.RoleSuper}))
}

func TestAdminLogin(t *testing.T) {
	db := setupDB(t)
	admins := store.NewAdminStore(db)
	sessions := store.NewSessionStore(db)
	h := NewAuthHandler(admins, store.NewTechnicianStore(db), sessions, slog.Default())

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	if _, err := admins.Create("boss@example.com", string(hash), model.RoleSuper); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"email":"boss@example.com","password":"secret"}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "rewards_admin_session" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected admin session cookie")
	}
	sess, err := sessions.GetByToken(cookie.Value)
	if err != nil || sess == nil {
		t.Fatalf("session lookup: sess=%v err=%v", sess, err)
	}
	if sess.Role != model.ActorAdmin {
		t.Errorf("session role = %q, want admin", sess.Role)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	db := setupDB(t)
	admins := store.NewAdminStore(db)
	h := NewAuthHandler(admins, store.NewTechnicianStore(db), store.NewSessionStore(db), slog.Default())

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	admins.Create("boss@example.com", string(hash), model.RoleSuper)

	req := httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"email":"boss@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAddPointsUsesSessionAdmin(t *testing.T) {
	db := setupDB(t)
	admins := store.NewAdminStore(db)
	techs := store.NewTechnicianStore(db)
	ledger := store.NewLedgerStore(db)
	h := NewPointsHandler(ledger, nil, slog.Default())

	admin, _ := admins.Create("boss@example.com", "hash", model.RoleSuper)
	tech, err := techs.Create("Karim", "07700000001", "hash", "AC repair")
	if err != nil {
		t.Fatalf("create technician: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/technicians/{id}/points", h.Add)

	req := httptest.NewRequest("POST", "/api/admin/technicians/1/points", strings.NewReader(`{"amount_iqd":25000}`))
	req = asAdmin(req, admin.ID)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var tx model.PointsTransaction
	if err := json.NewDecoder(rec.Body).Decode(&tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.PointsAdded != 2 {
		t.Errorf("PointsAdded = %d, want 2", tx.PointsAdded)
	}
	if tx.AdminID == nil || *tx.AdminID != admin.ID {
		t.Errorf("AdminID = %v, want %d from session", tx.AdminID, admin.ID)
	}

	got, _ := techs.GetByID(tech.ID)
	if got.Points != 2 {
		t.Errorf("balance = %d, want 2", got.Points)
	}
}

func TestAddPointsRejectsNonPositiveAmount(t *testing.T) {
	db := setupDB(t)
	h := NewPointsHandler(store.NewLedgerStore(db), nil, slog.Default())

	store.NewTechnicianStore(db).Create("Karim", "07700000001", "hash", "")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/technicians/{id}/points", h.Add)

	req := httptest.NewRequest("POST", "/api/admin/technicians/1/points", strings.NewReader(`{"amount_iqd":0}`))
	req = asAdmin(req, 0)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRedeemInsufficientBalance(t *testing.T) {
	db := setupDB(t)
	techs := store.NewTechnicianStore(db)
	gifts := store.NewGiftStore(db)
	h := NewRedemptionHandler(store.NewRedemptionStore(db), nil, slog.Default())

	tech, _ := techs.Create("Karim", "07700000001", "hash", "")
	gift, _ := gifts.Create("Drill", 50, "")

	req := httptest.NewRequest("POST", "/api/redemptions", strings.NewReader(`{"gift_id":1}`))
	req = asTechnician(req, tech.ID)
	rec := httptest.NewRecorder()
	h.Redeem(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}

	// Gift must still be there and untouched.
	g, _ := gifts.GetByID(gift.ID)
	if g == nil || !g.Active {
		t.Error("gift should be unchanged after failed redemption")
	}
}

func TestRedeemSuccess(t *testing.T) {
	db := setupDB(t)
	techs := store.NewTechnicianStore(db)
	gifts := store.NewGiftStore(db)
	ledger := store.NewLedgerStore(db)
	h := NewRedemptionHandler(store.NewRedemptionStore(db), nil, slog.Default())

	tech, _ := techs.Create("Karim", "07700000001", "hash", "")
	if _, err := ledger.AddPoints(tech.ID, 500000, 0); err != nil {
		t.Fatalf("add points: %v", err)
	}
	gift, _ := gifts.Create("Drill", 50, "")

	req := httptest.NewRequest("POST", "/api/redemptions", strings.NewReader(`{"gift_id":1}`))
	req = asTechnician(req, tech.ID)
	rec := httptest.NewRecorder()
	h.Redeem(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp redeemResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Redemption.PointsSpent != gift.PointsRequired {
		t.Errorf("PointsSpent = %d, want %d", resp.Redemption.PointsSpent, gift.PointsRequired)
	}
	if resp.Balance != 0 {
		t.Errorf("Balance = %d, want 0", resp.Balance)
	}
}

func TestWinnersFallsBackToStandings(t *testing.T) {
	db := setupDB(t)
	techs := store.NewTechnicianStore(db)
	ledger := store.NewLedgerStore(db)
	h := NewLeaderboardHandler(store.NewLeaderboardStore(db), slog.Default())

	tech, _ := techs.Create("Karim", "07700000001", "hash", "")
	ledger.AddPoints(tech.ID, 30000, 0)

	req := httptest.NewRequest("GET", "/api/winners", nil)
	rec := httptest.NewRecorder()
	h.Winners(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var board model.Leaderboard
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board.Winners) != 0 {
		t.Errorf("winners should be empty, got %d", len(board.Winners))
	}
	if len(board.Standings) != 1 || board.Standings[0].TechnicianName != "Karim" {
		t.Errorf("standings = %+v, want Karim", board.Standings)
	}
}

func TestSetExchangeRateRejectsNonPositive(t *testing.T) {
	db := setupDB(t)
	h := NewSettingsHandler(store.NewSettingsStore(db), store.NewAdminStore(db), slog.Default())

	req := httptest.NewRequest("PUT", "/api/admin/settings/exchange-rate", strings.NewReader(`{"iqd_per_point":0}`))
	rec := httptest.NewRecorder()
	h.SetExchangeRate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTechnicianCreateDuplicatePhone(t *testing.T) {
	db := setupDB(t)
	h := NewTechnicianHandler(store.NewTechnicianStore(db), nil, slog.Default())

	body := `{"name":"Karim","phone":"07700000001","password":"pw"}`
	req := httptest.NewRequest("POST", "/api/admin/technicians", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("POST", "/api/admin/technicians", strings.NewReader(`{"name":"Omar","phone":"07700000001","password":"pw"}`))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate phone status = %d, want 409", rec.Code)
	}
}

// failingBlob always errors on Put, to exercise the degradation path.
type failingBlob struct{}

func (failingBlob) Put(context.Context, string, []byte) (string, error) {
	return "", errors.New("bucket unreachable")
}
func (failingBlob) Delete(context.Context, string) error { return nil }

func TestGiftCreateDegradesWhenImageUploadFails(t *testing.T) {
	db := setupDB(t)
	h := NewGiftHandler(store.NewGiftStore(db), failingBlob{}, nil, slog.Default())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "Drill")
	mw.WriteField("points_required", "50")
	part, _ := mw.CreateFormFile("image", "drill.png")
	part.Write([]byte("fake image"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/admin/gifts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var gift model.Gift
	if err := json.NewDecoder(rec.Body).Decode(&gift); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gift.ImageRef != "" {
		t.Errorf("ImageRef = %q, want empty after failed upload", gift.ImageRef)
	}
}

func TestRecentTransactions(t *testing.T) {
	db := setupDB(t)
	techs := store.NewTechnicianStore(db)
	ledger := store.NewLedgerStore(db)
	h := NewPointsHandler(ledger, nil, slog.Default())

	a, _ := techs.Create("Karim", "07700000001", "hash", "")
	b, _ := techs.Create("Omar", "07700000002", "hash", "")
	ledger.AddPoints(a.ID, 10000, 0)
	ledger.AddPoints(b.ID, 20000, 0)

	req := httptest.NewRequest("GET", "/api/admin/transactions", nil)
	rec := httptest.NewRecorder()
	h.Recent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var txs []model.PointsTransaction
	if err := json.NewDecoder(rec.Body).Decode(&txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if txs[0].TechnicianID != b.ID {
		t.Errorf("newest transaction should come first, got technician %d", txs[0].TechnicianID)
	}
}

func TestDashboardStats(t *testing.T) {
	db := setupDB(t)
	techs := store.NewTechnicianStore(db)
	gifts := store.NewGiftStore(db)
	ledger := store.NewLedgerStore(db)
	h := NewDashboardHandler(techs, gifts, ledger, store.NewLeaderboardStore(db), slog.Default())

	tech, _ := techs.Create("Karim", "07700000001", "hash", "")
	gifts.Create("Drill", 50, "")
	ledger.AddPoints(tech.ID, 30000, 0)

	req := httptest.NewRequest("GET", "/api/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats dashboardStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Technicians != 1 || stats.ActiveGifts != 1 || stats.TotalAwarded != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.BestPerformer != "Karim" {
		t.Errorf("BestPerformer = %q, want Karim", stats.BestPerformer)
	}
}
