package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/bodymeasure/internal/measure"
)

// Measurement is one recorded frame's measurements.
type Measurement struct {
	ID         int64
	SessionID  string
	FrameIndex int
	Values     measure.Measurements
	CapturedAt time.Time
}

// MeasurementRepository provides operations for recorded measurements.
type MeasurementRepository struct {
	db *sql.DB
}

// Measurements returns the measurement repository for this store.
func (s *Store) Measurements() *MeasurementRepository {
	return &MeasurementRepository{db: s.db}
}

// Create inserts a measurement row.
func (r *MeasurementRepository) Create(m *Measurement) error {
	if m.CapturedAt.IsZero() {
		m.CapturedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO measurements
		 (session_id, frame_index, arm_length, shoulder_length, body_width, body_height, body_weight, captured_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SessionID, m.FrameIndex,
		m.Values.ArmLength, m.Values.ShoulderLength, m.Values.BodyWidth, m.Values.BodyHeight, m.Values.BodyWeight,
		m.CapturedAt,
	)
	if err != nil {
		return err
	}

	m.ID, err = result.LastInsertId()
	return err
}

// ListBySession retrieves all measurements of a session in frame order.
func (r *MeasurementRepository) ListBySession(sessionID string) ([]Measurement, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, frame_index, arm_length, shoulder_length, body_width, body_height, body_weight, captured_at
		 FROM measurements
		 WHERE session_id = ?
		 ORDER BY frame_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(
			&m.ID, &m.SessionID, &m.FrameIndex,
			&m.Values.ArmLength, &m.Values.ShoulderLength, &m.Values.BodyWidth, &m.Values.BodyHeight, &m.Values.BodyWeight,
			&m.CapturedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Average returns the mean of each measurement across a session.
// It returns ErrNotFound if the session has no measurements.
func (r *MeasurementRepository) Average(sessionID string) (measure.Measurements, error) {
	var avg measure.Measurements
	var count int

	err := r.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(AVG(arm_length), 0), COALESCE(AVG(shoulder_length), 0),
		        COALESCE(AVG(body_width), 0), COALESCE(AVG(body_height), 0),
		        COALESCE(AVG(body_weight), 0)
		 FROM measurements WHERE session_id = ?`,
		sessionID,
	).Scan(&count, &avg.ArmLength, &avg.ShoulderLength, &avg.BodyWidth, &avg.BodyHeight, &avg.BodyWeight)
	if err != nil {
		return measure.Measurements{}, err
	}

	if count == 0 {
		return measure.Measurements{}, ErrNotFound
	}
	return avg, nil
}
