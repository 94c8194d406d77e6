package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/timer"
)

type BatchStore struct {
	db *sql.DB
}

func NewBatchStore(db *sql.DB) *BatchStore {
	return &BatchStore{db: db}
}

const batchCols = `id, recipe_id, name, status, measured_og, measured_fg, measured_abv,
	device_id, heater_id, cooler_id, timer_phase, timer_started_at, timer_paused_at,
	timer_duration_seconds, brewed_at, packaged_at, completed_at, created_at, updated_at`

func scanBatch(scanner interface{ Scan(...any) error }) (*model.Batch, error) {
	var b model.Batch
	var og, fg, abv sql.NullFloat64
	var deviceID, heaterID, coolerID sql.NullInt64
	var timerStarted, timerPaused, brewedAt, packagedAt, completedAt sql.NullTime

	err := scanner.Scan(
		&b.ID, &b.RecipeID, &b.Name, &b.Status, &og, &fg, &abv,
		&deviceID, &heaterID, &coolerID, &b.TimerPhase, &timerStarted, &timerPaused,
		&b.TimerDurationSeconds, &brewedAt, &packagedAt, &completedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if og.Valid {
		b.MeasuredOG = &og.Float64
	}
	if fg.Valid {
		b.MeasuredFG = &fg.Float64
	}
	if abv.Valid {
		b.MeasuredABV = &abv.Float64
	}
	if deviceID.Valid {
		b.DeviceID = &deviceID.Int64
	}
	if heaterID.Valid {
		b.HeaterID = &heaterID.Int64
	}
	if coolerID.Valid {
		b.CoolerID = &coolerID.Int64
	}
	if timerStarted.Valid {
		b.TimerStartedAt = &timerStarted.Time
	}
	if timerPaused.Valid {
		b.TimerPausedAt = &timerPaused.Time
	}
	if brewedAt.Valid {
		b.BrewedAt = &brewedAt.Time
	}
	if packagedAt.Valid {
		b.PackagedAt = &packagedAt.Time
	}
	if completedAt.Valid {
		b.CompletedAt = &completedAt.Time
	}
	return &b, nil
}

func (s *BatchStore) List() ([]model.Batch, error) {
	rows, err := s.db.Query(`SELECT ` + batchCols + ` FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListByStatus returns batches in a single lifecycle state.
func (s *BatchStore) ListByStatus(status model.BatchStatus) ([]model.Batch, error) {
	rows, err := s.db.Query(`SELECT `+batchCols+` FROM batches WHERE status = ? ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list batches by status: %w", err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListActive returns batches that are neither completed nor archived.
func (s *BatchStore) ListActive() ([]model.Batch, error) {
	rows, err := s.db.Query(
		`SELECT `+batchCols+` FROM batches WHERE status NOT IN (?, ?) ORDER BY created_at DESC`,
		model.StatusCompleted, model.StatusArchived,
	)
	if err != nil {
		return nil, fmt.Errorf("list active batches: %w", err)
	}
	defer rows.Close()
	return scanBatches(rows)
}

func (s *BatchStore) GetByID(id int64) (*model.Batch, error) {
	row := s.db.QueryRow(`SELECT `+batchCols+` FROM batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (s *BatchStore) Create(recipeID int64, name string) (*model.Batch, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO batches (recipe_id, name, status, timer_phase, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		recipeID, name, model.StatusPlanning, model.PhaseIdle, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create batch id: %w", err)
	}
	return s.GetByID(id)
}

// UpdateStatus moves a batch to a new lifecycle state, enforcing the
// forward-only transition graph. Entering brewing, conditioning, and
// completed also stamps the corresponding milestone timestamp.
func (s *BatchStore) UpdateStatus(id int64, to model.BatchStatus) (*model.Batch, error) {
	b, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	if !model.CanTransition(b.Status, to) {
		return nil, fmt.Errorf("invalid status transition %s -> %s", b.Status, to)
	}

	now := time.Now().UTC()
	var milestone string
	switch to {
	case model.StatusBrewing:
		milestone = "brewed_at"
	case model.StatusConditioning:
		milestone = "packaged_at"
	case model.StatusCompleted:
		milestone = "completed_at"
	}

	query := `UPDATE batches SET status = ?, updated_at = ? WHERE id = ?`
	args := []any{to, now, id}
	if milestone != "" {
		query = `UPDATE batches SET status = ?, ` + milestone + ` = ?, updated_at = ? WHERE id = ?`
		args = []any{to, now, now, id}
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update batch status: %w", err)
	}
	return s.GetByID(id)
}

// UpdateMeasurements records measured gravities on a batch. Nil values
// leave the stored measurement untouched; ABV is recomputed when both
// gravities are present.
func (s *BatchStore) UpdateMeasurements(id int64, og, fg, abv *float64) (*model.Batch, error) {
	b, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	if og != nil {
		b.MeasuredOG = og
	}
	if fg != nil {
		b.MeasuredFG = fg
	}
	if abv != nil {
		b.MeasuredABV = abv
	}
	_, err = s.db.Exec(
		`UPDATE batches SET measured_og = ?, measured_fg = ?, measured_abv = ?, updated_at = ? WHERE id = ?`,
		b.MeasuredOG, b.MeasuredFG, b.MeasuredABV, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update batch measurements: %w", err)
	}
	return s.GetByID(id)
}

// AssignDevices links monitoring and control hardware to a batch.
func (s *BatchStore) AssignDevices(id int64, deviceID, heaterID, coolerID *int64) (*model.Batch, error) {
	result, err := s.db.Exec(
		`UPDATE batches SET device_id = ?, heater_id = ?, cooler_id = ?, updated_at = ? WHERE id = ?`,
		deviceID, heaterID, coolerID, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("assign batch devices: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

// SaveTimer persists brew-day timer state onto the batch record. It
// satisfies timer.Persister.
func (s *BatchStore) SaveTimer(batchID int64, st timer.State) error {
	_, err := s.db.Exec(
		`UPDATE batches SET timer_phase = ?, timer_started_at = ?, timer_paused_at = ?,
			timer_duration_seconds = ?, updated_at = ?
		 WHERE id = ?`,
		st.Phase, st.StartedAt, st.PausedAt, st.DurationSeconds, time.Now().UTC(), batchID,
	)
	if err != nil {
		return fmt.Errorf("save batch timer: %w", err)
	}
	return nil
}

func (s *BatchStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

func scanBatches(rows *sql.Rows) ([]model.Batch, error) {
	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}
