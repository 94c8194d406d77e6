package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

type ReadingStore struct {
	db *sql.DB
}

func NewReadingStore(db *sql.DB) *ReadingStore {
	return &ReadingStore{db: db}
}

const readingCols = `id, batch_id, device_id, gravity, temp_c, recorded_at`

func scanReading(scanner interface{ Scan(...any) error }) (*model.GravityReading, error) {
	var r model.GravityReading
	var deviceID sql.NullInt64
	var tempC sql.NullFloat64
	err := scanner.Scan(&r.ID, &r.BatchID, &deviceID, &r.Gravity, &tempC, &r.RecordedAt)
	if err != nil {
		return nil, err
	}
	if deviceID.Valid {
		r.DeviceID = &deviceID.Int64
	}
	if tempC.Valid {
		r.TempC = &tempC.Float64
	}
	return &r, nil
}

func (s *ReadingStore) Create(batchID int64, deviceID *int64, gravity float64, tempC *float64, recordedAt time.Time) (*model.GravityReading, error) {
	result, err := s.db.Exec(
		`INSERT INTO gravity_readings (batch_id, device_id, gravity, temp_c, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		batchID, deviceID, gravity, tempC, recordedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("create reading: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create reading id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+readingCols+` FROM gravity_readings WHERE id = ?`, id)
	r, err := scanReading(row)
	if err != nil {
		return nil, fmt.Errorf("get reading: %w", err)
	}
	return r, nil
}

// ListByBatch returns a batch's readings oldest first, as the chart
// consumes them.
func (s *ReadingStore) ListByBatch(batchID int64) ([]model.GravityReading, error) {
	rows, err := s.db.Query(
		`SELECT `+readingCols+` FROM gravity_readings WHERE batch_id = ? ORDER BY recorded_at ASC`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

// Latest returns a batch's most recent reading, or nil when none exist.
func (s *ReadingStore) Latest(batchID int64) (*model.GravityReading, error) {
	row := s.db.QueryRow(
		`SELECT `+readingCols+` FROM gravity_readings WHERE batch_id = ? ORDER BY recorded_at DESC LIMIT 1`, batchID,
	)
	r, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest reading: %w", err)
	}
	return r, nil
}

// Since returns readings recorded after the given time, oldest first.
// The fermentation activity rate is derived from this window.
func (s *ReadingStore) Since(batchID int64, after time.Time) ([]model.GravityReading, error) {
	rows, err := s.db.Query(
		`SELECT `+readingCols+` FROM gravity_readings WHERE batch_id = ? AND recorded_at > ? ORDER BY recorded_at ASC`,
		batchID, after.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list readings since: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func (s *ReadingStore) DeleteByBatch(batchID int64) error {
	_, err := s.db.Exec(`DELETE FROM gravity_readings WHERE batch_id = ?`, batchID)
	if err != nil {
		return fmt.Errorf("delete readings: %w", err)
	}
	return nil
}

func scanReadings(rows *sql.Rows) ([]model.GravityReading, error) {
	var readings []model.GravityReading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, *r)
	}
	return readings, rows.Err()
}
