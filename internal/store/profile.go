package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Profile represents a named tracker configuration stored in the database.
type Profile struct {
	ID              string
	Name            string
	AlertThreshold  float64
	YawThreshold    float64
	PitchThreshold  float64
	SmoothingWindow int
	MinConsecutive  int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileRepository provides CRUD operations for tracker profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, alert_threshold, yaw_threshold, pitch_threshold,
		 smoothing_window, min_consecutive, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.AlertThreshold, p.YawThreshold, p.PitchThreshold,
		p.SmoothingWindow, p.MinConsecutive, boolToInt(p.Active), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	row := r.db.QueryRow(
		`SELECT id, name, alert_threshold, yaw_threshold, pitch_threshold,
		 smoothing_window, min_consecutive, active, created_at, updated_at
		 FROM profiles WHERE id = ?`,
		id,
	)
	return scanProfile(row)
}

// GetByName retrieves a profile by its unique name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	row := r.db.QueryRow(
		`SELECT id, name, alert_threshold, yaw_threshold, pitch_threshold,
		 smoothing_window, min_consecutive, active, created_at, updated_at
		 FROM profiles WHERE name = ?`,
		name,
	)
	return scanProfile(row)
}

// GetActive retrieves the currently active profile.
func (r *ProfileRepository) GetActive() (*Profile, error) {
	row := r.db.QueryRow(
		`SELECT id, name, alert_threshold, yaw_threshold, pitch_threshold,
		 smoothing_window, min_consecutive, active, created_at, updated_at
		 FROM profiles WHERE active = 1`,
	)
	return scanProfile(row)
}

// List returns all profiles ordered by name.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, alert_threshold, yaw_threshold, pitch_threshold,
		 smoothing_window, min_consecutive, active, created_at, updated_at
		 FROM profiles ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var p Profile
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.AlertThreshold, &p.YawThreshold, &p.PitchThreshold,
			&p.SmoothingWindow, &p.MinConsecutive, &active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Active = active != 0
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update modifies an existing profile.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, alert_threshold = ?, yaw_threshold = ?,
		 pitch_threshold = ?, smoothing_window = ?, min_consecutive = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.AlertThreshold, p.YawThreshold, p.PitchThreshold,
		p.SmoothingWindow, p.MinConsecutive, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
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

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive marks the given profile active and deactivates all
// others, so at most one profile is active at a time.
func (r *ProfileRepository) SetActive(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE profiles SET active = 0 WHERE active = 1`); err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE profiles SET active = 1, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// scanProfile scans a single profile row, mapping sql.ErrNoRows to
// ErrNotFound.
func scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	var active int
	err := row.Scan(&p.ID, &p.Name, &p.AlertThreshold, &p.YawThreshold, &p.PitchThreshold,
		&p.SmoothingWindow, &p.MinConsecutive, &active, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Active = active != 0
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
