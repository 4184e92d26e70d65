package store

import (
	"database/sql"
	"image"
	"time"

	"github.com/ayusman/fingersign/internal/gesture"
)

// Recognition is a stored recognition of one hand.
type Recognition struct {
	ID           int64           `json:"id"`
	SessionID    string          `json:"session_id"`
	FrameSeq     uint64          `json:"frame_seq"`
	Handedness   string          `json:"handedness"`
	FingerStates string          `json:"finger_states"`
	Label        string          `json:"label"`
	FingersUp    int             `json:"fingers_up"`
	Box          image.Rectangle `json:"box"`
	IndexTip     image.Point     `json:"index_tip"`
	RecognizedAt time.Time       `json:"recognized_at"`
}

// RecognitionRepository provides operations on recognitions.
type RecognitionRepository struct {
	db *sql.DB
}

// Recognitions returns the recognition repository for this store.
func (s *Store) Recognitions() *RecognitionRepository {
	return &RecognitionRepository{db: s.db}
}

// Add stores one recognition of the given frame.
func (r *RecognitionRepository) Add(sessionID string, seq uint64, at time.Time, rec gesture.Recognition) error {
	_, err := r.db.Exec(
		`INSERT INTO recognitions (session_id, frame_seq, handedness, finger_states, label, fingers_up,
			box_min_x, box_min_y, box_max_x, box_max_y, index_x, index_y, recognized_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, int64(seq), rec.Handedness, rec.Key, rec.Label, rec.FingersUp,
		rec.Box.Min.X, rec.Box.Min.Y, rec.Box.Max.X, rec.Box.Max.Y,
		rec.IndexTip.X, rec.IndexTip.Y, at,
	)
	return err
}

// ListBySession returns the most recent recognitions of a session, newest
// first. A limit <= 0 returns all of them.
func (r *RecognitionRepository) ListBySession(sessionID string, limit int) ([]Recognition, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, frame_seq, handedness, finger_states, label, fingers_up,
			box_min_x, box_min_y, box_max_x, box_max_y, index_x, index_y, recognized_at
		 FROM recognitions
		 WHERE session_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Recognition
	for rows.Next() {
		var rec Recognition
		var seq int64
		err := rows.Scan(&rec.ID, &rec.SessionID, &seq, &rec.Handedness, &rec.FingerStates, &rec.Label, &rec.FingersUp,
			&rec.Box.Min.X, &rec.Box.Min.Y, &rec.Box.Max.X, &rec.Box.Max.Y,
			&rec.IndexTip.X, &rec.IndexTip.Y, &rec.RecognizedAt)
		if err != nil {
			return nil, err
		}
		rec.FrameSeq = uint64(seq)
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

// CountByLabel returns how often each label was recorded in a session.
func (r *RecognitionRepository) CountByLabel(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT label, COUNT(*) FROM recognitions WHERE session_id = ? GROUP BY label`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
