package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Attempt outcomes.
const (
	OutcomeVictory  = "victory"
	OutcomeDefeat   = "defeat"
	OutcomeAbandon  = "abandoned"
	OutcomeComplete = "campaign_complete"
)

// Attempt is one played level, from setup to its terminal transition.
type Attempt struct {
	ID        string
	Profile   string
	Mode      string // Registered game ID, e.g. "tanks_constrained"
	Level     int
	Outcome   string
	Kills     int
	Target    int
	Deaths    int // Persisted death count after the attempt
	Duration  time.Duration
	Layout    []byte // Encoded layout snapshot, may be nil
	CreatedAt time.Time
}

// SaveAttempt records an attempt and returns its ID.
// A random UUID is assigned when the attempt has none.
func (s *Store) SaveAttempt(a Attempt) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Profile == "" {
		a.Profile = "local"
	}

	_, err := s.db.Exec(
		`INSERT INTO attempts (id, profile, mode, level, outcome, kills, target, deaths, duration_ms, layout)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Profile, a.Mode, a.Level, a.Outcome, a.Kills, a.Target, a.Deaths,
		a.Duration.Milliseconds(), a.Layout,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save attempt: %w", err)
	}
	return a.ID, nil
}

// RecentAttempts retrieves the most recent attempts, newest first.
// An empty profile returns attempts of every profile.
func (s *Store) RecentAttempts(profile string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, profile, mode, level, outcome, kills, target, deaths, duration_ms, layout, created_at
		 FROM attempts
		 WHERE ? = '' OR profile = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		profile, profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a          Attempt
			durationMs int64
			createdAt  any
		)
		if err := rows.Scan(&a.ID, &a.Profile, &a.Mode, &a.Level, &a.Outcome, &a.Kills,
			&a.Target, &a.Deaths, &durationMs, &a.Layout, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		a.CreatedAt = parseTime(createdAt)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return attempts, nil
}

// LevelStats contains aggregated attempt statistics for one level.
type LevelStats struct {
	Level     int
	Attempts  int
	Victories int
	Defeats   int
	Fastest   time.Duration // Fastest victory, zero if none
	LastPlay  time.Time
}

// Stats aggregates attempts per level for a profile (all profiles when empty).
func (s *Store) Stats(profile string) ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level,
		        COUNT(*),
		        SUM(CASE WHEN outcome IN (?, ?) THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        COALESCE(MIN(CASE WHEN outcome IN (?, ?) THEN duration_ms END), 0),
		        MAX(created_at)
		 FROM attempts
		 WHERE ? = '' OR profile = ?
		 GROUP BY level
		 ORDER BY level`,
		OutcomeVictory, OutcomeComplete, OutcomeDefeat, OutcomeVictory, OutcomeComplete,
		profile, profile,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var (
			st        LevelStats
			fastestMs int64
			lastPlay  any
		)
		if err := rows.Scan(&st.Level, &st.Attempts, &st.Victories, &st.Defeats, &fastestMs, &lastPlay); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Fastest = time.Duration(fastestMs) * time.Millisecond
		st.LastPlay = parseTime(lastPlay)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearAttempts deletes the attempt history of a profile.
func (s *Store) ClearAttempts(profile string) error {
	_, err := s.db.Exec("DELETE FROM attempts WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear attempts: %w", err)
	}
	return nil
}
