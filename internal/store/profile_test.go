package store

import (
	"testing"

	"github.com/google/uuid"
)

// defaultProfile returns a valid profile for tests.
func defaultProfile(name string) *Profile {
	return &Profile{
		ID:              uuid.NewString(),
		Name:            name,
		AlertThreshold:  5.0,
		YawThreshold:    25.0,
		PitchThreshold:  20.0,
		SmoothingWindow: 5,
		MinConsecutive:  3,
	}
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	p := defaultProfile("focus")
	if err := s.Profiles().Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "focus" {
		t.Errorf("GetByID().Name = %q, want %q", got.Name, "focus")
	}
	if got.AlertThreshold != 5.0 || got.SmoothingWindow != 5 || got.MinConsecutive != 3 {
		t.Errorf("GetByID() = %+v, fields do not round-trip", got)
	}
	if got.Active {
		t.Error("new profile should not be active")
	}

	byName, err := s.Profiles().GetByName("focus")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if byName.ID != p.ID {
		t.Errorf("GetByName().ID = %q, want %q", byName.ID, p.ID)
	}
}

func TestProfileRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Profiles().GetByID("nope"); err != ErrNotFound {
		t.Errorf("GetByID() missing error = %v, want ErrNotFound", err)
	}
	if _, err := s.Profiles().GetByName("nope"); err != ErrNotFound {
		t.Errorf("GetByName() missing error = %v, want ErrNotFound", err)
	}
	if _, err := s.Profiles().GetActive(); err != ErrNotFound {
		t.Errorf("GetActive() with no active profile error = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_UniqueName(t *testing.T) {
	s := newTestStore(t)

	if err := s.Profiles().Create(defaultProfile("focus")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Profiles().Create(defaultProfile("focus")); err == nil {
		t.Error("expected error creating a profile with a duplicate name")
	}
}

func TestProfileRepository_List(t *testing.T) {
	s := newTestStore(t)

	s.Profiles().Create(defaultProfile("work"))
	s.Profiles().Create(defaultProfile("driving"))

	profiles, err := s.Profiles().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("List() returned %d profiles, want 2", len(profiles))
	}

	// Ordered by name
	if profiles[0].Name != "driving" || profiles[1].Name != "work" {
		t.Errorf("List() order = %q, %q; want driving, work", profiles[0].Name, profiles[1].Name)
	}
}

func TestProfileRepository_Update(t *testing.T) {
	s := newTestStore(t)

	p := defaultProfile("focus")
	s.Profiles().Create(p)

	p.AlertThreshold = 10.0
	p.SmoothingWindow = 9
	if err := s.Profiles().Update(p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := s.Profiles().GetByID(p.ID)
	if got.AlertThreshold != 10.0 || got.SmoothingWindow != 9 {
		t.Errorf("Update() did not persist: %+v", got)
	}

	missing := defaultProfile("ghost")
	if err := s.Profiles().Update(missing); err != ErrNotFound {
		t.Errorf("Update() missing error = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_Delete(t *testing.T) {
	s := newTestStore(t)

	p := defaultProfile("focus")
	s.Profiles().Create(p)

	if err := s.Profiles().Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Profiles().GetByID(p.ID); err != ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := s.Profiles().Delete(p.ID); err != ErrNotFound {
		t.Errorf("Delete() missing error = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_SetActive(t *testing.T) {
	s := newTestStore(t)

	p1 := defaultProfile("focus")
	p2 := defaultProfile("relaxed")
	s.Profiles().Create(p1)
	s.Profiles().Create(p2)

	if err := s.Profiles().SetActive(p1.ID); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	active, err := s.Profiles().GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != p1.ID {
		t.Errorf("GetActive().ID = %q, want %q", active.ID, p1.ID)
	}

	// Activating another profile deactivates the first
	if err := s.Profiles().SetActive(p2.ID); err != nil {
		t.Fatalf("SetActive() second error = %v", err)
	}

	active, _ = s.Profiles().GetActive()
	if active.ID != p2.ID {
		t.Errorf("GetActive().ID = %q, want %q", active.ID, p2.ID)
	}

	first, _ := s.Profiles().GetByID(p1.ID)
	if first.Active {
		t.Error("previously active profile should be deactivated")
	}

	if err := s.Profiles().SetActive("nope"); err != ErrNotFound {
		t.Errorf("SetActive() missing error = %v, want ErrNotFound", err)
	}
}
