package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

type AlertStore struct {
	db *sql.DB
}

func NewAlertStore(db *sql.DB) *AlertStore {
	return &AlertStore{db: db}
}

const alertCols = `id, batch_id, severity, kind, message, acknowledged, acknowledged_at, created_at`

func scanAlert(scanner interface{ Scan(...any) error }) (*model.FermentationAlert, error) {
	var a model.FermentationAlert
	var acked int
	var ackedAt sql.NullTime
	err := scanner.Scan(&a.ID, &a.BatchID, &a.Severity, &a.Kind, &a.Message, &acked, &ackedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Acknowledged = acked != 0
	if ackedAt.Valid {
		a.AcknowledgedAt = &ackedAt.Time
	}
	return &a, nil
}

func (s *AlertStore) Create(batchID int64, severity model.AlertSeverity, kind, message string) (*model.FermentationAlert, error) {
	result, err := s.db.Exec(
		`INSERT INTO fermentation_alerts (batch_id, severity, kind, message) VALUES (?, ?, ?, ?)`,
		batchID, severity, kind, message,
	)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create alert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+alertCols+` FROM fermentation_alerts WHERE id = ?`, id)
	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// HasOpen reports whether a batch already has an unacknowledged alert of
// the given kind, so repeated evaluation does not stack duplicates.
func (s *AlertStore) HasOpen(batchID int64, kind string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM fermentation_alerts WHERE batch_id = ? AND kind = ? AND acknowledged = 0`,
		batchID, kind,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check open alert: %w", err)
	}
	return count > 0, nil
}

// ListByBatch returns a batch's alerts, unacknowledged first, newest
// within each group.
func (s *AlertStore) ListByBatch(batchID int64) ([]model.FermentationAlert, error) {
	rows, err := s.db.Query(
		`SELECT `+alertCols+` FROM fermentation_alerts WHERE batch_id = ?
		 ORDER BY acknowledged ASC, created_at DESC`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.FermentationAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func (s *AlertStore) Acknowledge(id int64) (*model.FermentationAlert, error) {
	result, err := s.db.Exec(
		`UPDATE fermentation_alerts SET acknowledged = 1, acknowledged_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}

	row := s.db.QueryRow(`SELECT `+alertCols+` FROM fermentation_alerts WHERE id = ?`, id)
	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}
