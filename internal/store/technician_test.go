package store

import (
	"errors"
	"testing"
)

func TestTechnicianCRUD(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTechnicianStore(db)

	tech, err := ts.Create("Karim", "07700000001", "hash", "electrician")
	if err != nil {
		t.Fatalf("create technician: %v", err)
	}
	if tech.Name != "Karim" {
		t.Errorf("name = %q, want %q", tech.Name, "Karim")
	}
	if tech.Points != 0 {
		t.Errorf("points = %d, want 0", tech.Points)
	}

	got, err := ts.GetByID(tech.ID)
	if err != nil {
		t.Fatalf("get technician: %v", err)
	}
	if got == nil || got.Phone != "07700000001" {
		t.Fatalf("got = %+v, want phone 07700000001", got)
	}

	updated, err := ts.Update(tech.ID, "Karim A.", "07700000002", "plumber", "")
	if err != nil {
		t.Fatalf("update technician: %v", err)
	}
	if updated.Phone != "07700000002" {
		t.Errorf("phone = %q, want %q", updated.Phone, "07700000002")
	}
	if updated.Specialty != "plumber" {
		t.Errorf("specialty = %q, want %q", updated.Specialty, "plumber")
	}

	if err := ts.Delete(tech.ID); err != nil {
		t.Fatalf("delete technician: %v", err)
	}
	got, _ = ts.GetByID(tech.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestTechnicianDuplicatePhone(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTechnicianStore(db)

	createTechnician(t, ts, "Karim", "07700000001")

	if _, err := ts.Create("Omar", "07700000001", "hash", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("create error = %v, want ErrConflict", err)
	}

	omarID := createTechnician(t, ts, "Omar", "07700000002")
	if _, err := ts.Update(omarID, "Omar", "07700000001", "", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("update error = %v, want ErrConflict", err)
	}
}

// Classification keys on the driver's error code, not its message text.
func TestIsUniqueViolationRequiresDriverError(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Error("nil should not classify as a unique violation")
	}
	if isUniqueViolation(errors.New("UNIQUE constraint failed: technicians.phone")) {
		t.Error("a bare error matching the message text should not classify as a unique violation")
	}
}

func TestTechnicianGetByPhone(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTechnicianStore(db)

	createTechnician(t, ts, "Karim", "07700000001")

	tech, hash, err := ts.GetByPhone("07700000001")
	if err != nil {
		t.Fatalf("get by phone: %v", err)
	}
	if tech == nil || tech.Name != "Karim" {
		t.Fatalf("tech = %+v, want Karim", tech)
	}
	if hash != "hash" {
		t.Errorf("hash = %q, want %q", hash, "hash")
	}

	tech, _, err = ts.GetByPhone("07799999999")
	if err != nil {
		t.Fatalf("get by unknown phone: %v", err)
	}
	if tech != nil {
		t.Error("expected nil for unknown phone")
	}
}

func TestTechnicianUpdatePassword(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTechnicianStore(db)

	id := createTechnician(t, ts, "Karim", "07700000001")

	if _, err := ts.Update(id, "Karim", "07700000001", "", "newhash"); err != nil {
		t.Fatalf("update with password: %v", err)
	}
	_, hash, _ := ts.GetByPhone("07700000001")
	if hash != "newhash" {
		t.Errorf("hash = %q, want %q", hash, "newhash")
	}

	// Empty password keeps the existing credential.
	if _, err := ts.Update(id, "Karim", "07700000001", "", ""); err != nil {
		t.Fatalf("update without password: %v", err)
	}
	_, hash, _ = ts.GetByPhone("07700000001")
	if hash != "newhash" {
		t.Errorf("hash = %q, want unchanged %q", hash, "newhash")
	}
}

func TestTechnicianUpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTechnicianStore(db)

	if _, err := ts.Update(999, "Ghost", "07700000009", "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestTechnicianListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTechnicianStore(db)

	createTechnician(t, ts, "First", "07700000001")
	createTechnician(t, ts, "Second", "07700000002")

	techs, err := ts.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(techs) != 2 {
		t.Fatalf("len = %d, want 2", len(techs))
	}
	if techs[0].Name != "Second" {
		t.Errorf("techs[0].Name = %q, want %q", techs[0].Name, "Second")
	}

	n, _ := ts.Count()
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
