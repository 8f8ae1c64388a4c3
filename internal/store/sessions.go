package store

import (
	"fmt"
	"time"

	"github.com/marcus/pomo/internal/models"
)

// RecordSession appends a finished or skipped phase to the history
func (s *Store) RecordSession(rec models.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = models.NewSessionID()
	}
	return s.withWriteLock(func() error {
		var started any
		if !rec.StartedAt.IsZero() {
			started = rec.StartedAt.UTC()
		}
		_, err := s.conn.Exec(`
			INSERT INTO sessions (id, phase, started_at, ended_at, skipped)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, string(rec.Phase), started, rec.EndedAt.UTC(), rec.Skipped)
		if err != nil {
			return fmt.Errorf("record session: %w", err)
		}
		return nil
	})
}

// ListSessions returns history records that ended at or after since,
// oldest first. A zero since returns everything.
func (s *Store) ListSessions(since time.Time) ([]models.SessionRecord, error) {
	rows, err := s.conn.Query(`
		SELECT id, phase, started_at, ended_at, skipped
		FROM sessions WHERE ended_at >= ? ORDER BY ended_at ASC
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []models.SessionRecord
	for rows.Next() {
		var rec models.SessionRecord
		var phase string
		var started *time.Time
		if err := rows.Scan(&rec.ID, &phase, &started, &rec.EndedAt, &rec.Skipped); err != nil {
			return nil, err
		}
		rec.Phase = models.Phase(phase)
		if started != nil {
			rec.StartedAt = *started
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SessionStats summarizes history
type SessionStats struct {
	WorkCompleted  int
	WorkSkipped    int
	BreakCompleted int
	BreakSkipped   int
	FocusTime      time.Duration
}

// Summarize aggregates records into SessionStats
func Summarize(recs []models.SessionRecord) SessionStats {
	var st SessionStats
	for _, r := range recs {
		switch {
		case r.Phase == models.PhaseWork && r.Skipped:
			st.WorkSkipped++
		case r.Phase == models.PhaseWork:
			st.WorkCompleted++
		case r.Skipped:
			st.BreakSkipped++
		default:
			st.BreakCompleted++
		}
		if r.Phase == models.PhaseWork && !r.StartedAt.IsZero() {
			st.FocusTime += r.Duration()
		}
	}
	return st
}
