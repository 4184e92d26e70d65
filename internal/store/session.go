package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the recognition loop.
type Session struct {
	ID         string     `json:"id"`
	Device     int        `json:"device"`
	Frames     uint64     `json:"frames"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// SessionRepository provides operations on sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start records a new session for the given camera device.
func (r *SessionRepository) Start(device int) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Device:    device,
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, device, frames, started_at) VALUES (?, ?, 0, ?)`,
		sess.ID, sess.Device, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Finish marks a session finished after the given number of frames.
func (r *SessionRepository) Finish(id string, frames uint64) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET frames = ?, finished_at = ? WHERE id = ?`,
		int64(frames), time.Now(), id,
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

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var frames int64
	var finished sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, device, frames, started_at, finished_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Device, &frames, &sess.StartedAt, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess.Frames = uint64(frames)
	if finished.Valid {
		sess.FinishedAt = &finished.Time
	}

	return sess, nil
}
