package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/repwatch/internal/analysis"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "repwatch-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestProfileRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	cfg := analysis.DefaultConfig()
	cfg.TargetCount = 20
	cfg.ElbowDownThreshold = 95

	profile := &Profile{
		ID:     "test-profile-1",
		Name:   "strict",
		Config: cfg,
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	if profile.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if profile.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestProfileRepository_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	cfg := analysis.DefaultConfig()
	cfg.TargetCount = 15
	cfg.VisibilityThreshold = 0.7
	cfg.HipRange = analysis.Range{Min: 135, Max: 175}
	cfg.TooFastMs = 1200

	profile := &Profile{
		ID:     "test-profile-rt",
		Name:   "custom",
		Config: cfg,
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	got, err := repo.GetByID("test-profile-rt")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}

	if got.Name != "custom" {
		t.Errorf("name mismatch: got %q, want 'custom'", got.Name)
	}
	if got.Config != cfg {
		t.Errorf("config mismatch: got %+v, want %+v", got.Config, cfg)
	}
}

func TestProfileRepository_GetByName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:     "test-profile-2",
		Name:   "warmup",
		Config: analysis.DefaultConfig(),
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	got, err := repo.GetByName("warmup")
	if err != nil {
		t.Fatalf("failed to get profile by name: %v", err)
	}
	if got.ID != "test-profile-2" {
		t.Errorf("expected ID 'test-profile-2', got %q", got.ID)
	}

	if _, err := repo.GetByName("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing name, got %v", err)
	}
}

func TestProfileRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	// The seeded default profile is already present
	for _, name := range []string{"alpha", "beta"} {
		profile := &Profile{
			ID:     "test-profile-" + name,
			Name:   name,
			Config: analysis.DefaultConfig(),
		}
		if err := repo.Create(profile); err != nil {
			t.Fatalf("failed to create profile %q: %v", name, err)
		}
	}

	profiles, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list profiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(profiles))
	}
}

func TestProfileRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:     "test-profile-3",
		Name:   "before",
		Config: analysis.DefaultConfig(),
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	profile.Name = "after"
	profile.Config.TargetCount = 30
	if err := repo.Update(profile); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	got, err := repo.GetByID("test-profile-3")
	if err != nil {
		t.Fatalf("failed to get updated profile: %v", err)
	}
	if got.Name != "after" {
		t.Errorf("expected name 'after', got %q", got.Name)
	}
	if got.Config.TargetCount != 30 {
		t.Errorf("expected target count 30, got %d", got.Config.TargetCount)
	}
}

func TestProfileRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:     "does-not-exist",
		Name:   "ghost",
		Config: analysis.DefaultConfig(),
	}
	if err := repo.Update(profile); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:     "test-profile-4",
		Name:   "short-lived",
		Config: analysis.DefaultConfig(),
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	if err := repo.Delete("test-profile-4"); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}

	if _, err := repo.GetByID("test-profile-4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete("test-profile-4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestProfileRepository_EnsureDefault_Idempotent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	// The store constructor already seeded the default; a second call must
	// not create a duplicate.
	if err := repo.EnsureDefault(); err != nil {
		t.Fatalf("EnsureDefault failed: %v", err)
	}

	profiles, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list profiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("expected 1 profile, got %d", len(profiles))
	}
}
