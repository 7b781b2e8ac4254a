package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Progress is a key-value view of the progress table scoped to one profile.
// Each SSH user or local player name gets its own resume point.
type Progress struct {
	store   *Store
	profile string
}

// Progress returns the progress view for the given profile.
func (s *Store) Progress(profile string) *Progress {
	if profile == "" {
		profile = "local"
	}
	return &Progress{store: s, profile: profile}
}

// Profile returns the profile name this view is scoped to.
func (p *Progress) Profile() string {
	return p.profile
}

// Int returns the stored value for key, or def when the key is absent.
func (p *Progress) Int(key string, def int) (int, error) {
	var v int
	err := p.store.db.QueryRow(
		"SELECT value FROM progress WHERE profile = ? AND key = ?",
		p.profile, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return v, nil
}

// SetInt stores value under key, replacing any previous value.
func (p *Progress) SetInt(key string, value int) error {
	_, err := p.store.db.Exec(
		`INSERT INTO progress (profile, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		p.profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// Clear removes the given keys. With no keys it removes every key of the profile.
func (p *Progress) Clear(keys ...string) error {
	var err error
	if len(keys) == 0 {
		_, err = p.store.db.Exec("DELETE FROM progress WHERE profile = ?", p.profile)
	} else {
		args := make([]any, 0, len(keys)+1)
		args = append(args, p.profile)
		for _, k := range keys {
			args = append(args, k)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
		_, err = p.store.db.Exec(
			"DELETE FROM progress WHERE profile = ? AND key IN ("+placeholders+")",
			args...,
		)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear progress: %w", err)
	}
	return nil
}

// ProfileProgress summarises the stored values of one profile.
type ProfileProgress struct {
	Profile   string
	Values    map[string]int
	UpdatedAt time.Time
}

// Profiles returns every profile with stored progress, sorted by name.
func (s *Store) Profiles() ([]ProfileProgress, error) {
	rows, err := s.db.Query(
		`SELECT profile, key, value, updated_at
		 FROM progress
		 ORDER BY profile, key`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var result []ProfileProgress
	for rows.Next() {
		var (
			profile, key string
			value        int
			updatedAt    any
		)
		if err := rows.Scan(&profile, &key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if len(result) == 0 || result[len(result)-1].Profile != profile {
			result = append(result, ProfileProgress{Profile: profile, Values: make(map[string]int)})
		}
		cur := &result[len(result)-1]
		cur.Values[key] = value
		if ts := parseTime(updatedAt); ts.After(cur.UpdatedAt) {
			cur.UpdatedAt = ts
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return result, nil
}
