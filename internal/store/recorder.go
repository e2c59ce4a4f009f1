package store

import (
	"errors"
	"fmt"

	"github.com/ayusman/bodymeasure/internal/measure"
)

// Recorder writes one session's measurements to the store.
// A Recorder is used by a single display loop and is not safe for
// concurrent use.
type Recorder struct {
	store     *Store
	sessionID string
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(s *Store) *Recorder {
	return &Recorder{store: s}
}

// Begin opens a new session for the given camera.
func (r *Recorder) Begin(cameraID int) error {
	sess := &Session{CameraID: cameraID}
	if err := r.store.Sessions().Create(sess); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	r.sessionID = sess.ID
	return nil
}

// Record stores the measurements of one frame.
func (r *Recorder) Record(frame int, m measure.Measurements) error {
	if r.sessionID == "" {
		return errors.New("recorder: no active session")
	}
	return r.store.Measurements().Create(&Measurement{
		SessionID:  r.sessionID,
		FrameIndex: frame,
		Values:     m,
	})
}

// End closes the active session with its final counters.
func (r *Recorder) End(frames, detections int) error {
	if r.sessionID == "" {
		return nil
	}
	id := r.sessionID
	r.sessionID = ""
	return r.store.Sessions().Finish(id, frames, detections)
}

// SessionID returns the active session ID, or "" between sessions.
func (r *Recorder) SessionID() string {
	return r.sessionID
}
