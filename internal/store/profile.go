package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/repwatch/internal/analysis"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// DefaultProfileName is the seeded profile holding the stock thresholds.
const DefaultProfileName = "default"

// Profile is a named, persisted set of analyzer thresholds.
type Profile struct {
	ID        string
	Name      string
	Config    analysis.Config
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository provides CRUD operations for tuning profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

const profileColumns = `id, name, target_count, visibility_threshold,
	elbow_up_threshold, elbow_down_threshold,
	hip_min, hip_max, knee_min, knee_max,
	ready_elbow_min, ready_elbow_max, ready_hip_min, ready_hip_max,
	ready_knee_min, ready_knee_max, too_fast_ms,
	elbow_not_up_enough, elbow_not_down_enough, hip_too_low, knee_bent_too_much,
	created_at, updated_at`

// EnsureDefault seeds the default profile if it does not exist yet.
func (r *ProfileRepository) EnsureDefault() error {
	_, err := r.GetByName(DefaultProfileName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	return r.Create(&Profile{
		ID:     uuid.New().String(),
		Name:   DefaultProfileName,
		Config: analysis.DefaultConfig(),
	})
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	cfg := p.Config
	_, err := r.db.Exec(
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, cfg.TargetCount, cfg.VisibilityThreshold,
		cfg.ElbowUpThreshold, cfg.ElbowDownThreshold,
		cfg.HipRange.Min, cfg.HipRange.Max, cfg.KneeRange.Min, cfg.KneeRange.Max,
		cfg.ReadyElbowRange.Min, cfg.ReadyElbowRange.Max,
		cfg.ReadyHipRange.Min, cfg.ReadyHipRange.Max,
		cfg.ReadyKneeRange.Min, cfg.ReadyKneeRange.Max, cfg.TooFastMs,
		cfg.ElbowNotUpEnough, cfg.ElbowNotDownEnough, cfg.HipTooLow, cfg.KneeBentTooMuch,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// scanProfile reads one profile row.
func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	cfg := &p.Config
	err := row.Scan(
		&p.ID, &p.Name, &cfg.TargetCount, &cfg.VisibilityThreshold,
		&cfg.ElbowUpThreshold, &cfg.ElbowDownThreshold,
		&cfg.HipRange.Min, &cfg.HipRange.Max, &cfg.KneeRange.Min, &cfg.KneeRange.Max,
		&cfg.ReadyElbowRange.Min, &cfg.ReadyElbowRange.Max,
		&cfg.ReadyHipRange.Min, &cfg.ReadyHipRange.Max,
		&cfg.ReadyKneeRange.Min, &cfg.ReadyKneeRange.Max, &cfg.TooFastMs,
		&cfg.ElbowNotUpEnough, &cfg.ElbowNotDownEnough, &cfg.HipTooLow, &cfg.KneeBentTooMuch,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	return scanProfile(row)
}

// List retrieves all profiles.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update updates an existing profile.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	cfg := p.Config
	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, target_count = ?, visibility_threshold = ?,
		 elbow_up_threshold = ?, elbow_down_threshold = ?,
		 hip_min = ?, hip_max = ?, knee_min = ?, knee_max = ?,
		 ready_elbow_min = ?, ready_elbow_max = ?, ready_hip_min = ?, ready_hip_max = ?,
		 ready_knee_min = ?, ready_knee_max = ?, too_fast_ms = ?,
		 elbow_not_up_enough = ?, elbow_not_down_enough = ?, hip_too_low = ?,
		 knee_bent_too_much = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, cfg.TargetCount, cfg.VisibilityThreshold,
		cfg.ElbowUpThreshold, cfg.ElbowDownThreshold,
		cfg.HipRange.Min, cfg.HipRange.Max, cfg.KneeRange.Min, cfg.KneeRange.Max,
		cfg.ReadyElbowRange.Min, cfg.ReadyElbowRange.Max,
		cfg.ReadyHipRange.Min, cfg.ReadyHipRange.Max,
		cfg.ReadyKneeRange.Min, cfg.ReadyKneeRange.Max, cfg.TooFastMs,
		cfg.ElbowNotUpEnough, cfg.ElbowNotDownEnough, cfg.HipTooLow, cfg.KneeBentTooMuch,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a profile by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
