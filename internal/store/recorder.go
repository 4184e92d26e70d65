package store

import (
	"log"
	"sync"

	"github.com/ayusman/fingersign/internal/gesture"
)

// Recorder writes frame results of one session to the store. A sign held
// over consecutive frames is stored once: a hand is only recorded when its
// finger states differ from the previous frame or it was absent there.
type Recorder struct {
	repo      *RecognitionRepository
	sessions  *SessionRepository
	sessionID string

	mu     sync.Mutex
	last   map[string]string // hand ID -> finger states key
	frames uint64
}

// NewRecorder starts a session for device and returns its recorder.
func NewRecorder(s *Store, device int) (*Recorder, error) {
	sess, err := s.Sessions().Start(device)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		repo:      s.Recognitions(),
		sessions:  s.Sessions(),
		sessionID: sess.ID,
		last:      make(map[string]string),
	}, nil
}

// SessionID returns the session the recorder writes to.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// OnResult stores the hands whose finger states changed. Errors are logged.
func (r *Recorder) OnResult(result gesture.FrameResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++

	ids := result.HandIDs()
	seen := make(map[string]string, len(result.Recognitions))
	for i, rec := range result.Recognitions {
		seen[ids[i]] = rec.Key
		if prev, ok := r.last[ids[i]]; ok && prev == rec.Key {
			continue
		}
		if err := r.repo.Add(r.sessionID, result.Seq, result.Time, rec); err != nil {
			log.Printf("Error recording recognition: %v", err)
		}
	}
	r.last = seen
}

// Close finishes the session with the number of frames observed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Finish(r.sessionID, r.frames)
}
