package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

const snapshotCols = `id, filename, object_key, status, size_bytes, error, created_at, completed_at`

func scanSnapshot(scanner interface{ Scan(...any) error }) (*model.Snapshot, error) {
	var snap model.Snapshot
	var completedAt sql.NullTime
	err := scanner.Scan(&snap.ID, &snap.Filename, &snap.ObjectKey, &snap.Status, &snap.SizeBytes, &snap.Error, &snap.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		snap.CompletedAt = &completedAt.Time
	}
	return &snap, nil
}

func (s *SnapshotStore) Create(filename string) (*model.Snapshot, error) {
	result, err := s.db.Exec(
		`INSERT INTO snapshots (filename, status) VALUES (?, ?)`,
		filename, model.SnapshotPending,
	)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create snapshot id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SnapshotStore) GetByID(id int64) (*model.Snapshot, error) {
	row := s.db.QueryRow(`SELECT `+snapshotCols+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func (s *SnapshotStore) List(limit int) ([]model.Snapshot, error) {
	rows, err := s.db.Query(`SELECT `+snapshotCols+` FROM snapshots ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, rows.Err()
}

// DeleteOlderThan removes snapshot records created before the cutoff and
// returns the object keys of the completed ones so the caller can delete
// the stored objects too.
func (s *SnapshotStore) DeleteOlderThan(before time.Time) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT object_key FROM snapshots WHERE created_at < ? AND object_key != ''`, before,
	)
	if err != nil {
		return nil, fmt.Errorf("list old snapshots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan object key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE created_at < ?`, before); err != nil {
		return nil, fmt.Errorf("delete old snapshots: %w", err)
	}
	return keys, nil
}

func (s *SnapshotStore) MarkUploading(id int64) error {
	return s.setStatus(id, model.SnapshotUploading, "", "", 0, false)
}

func (s *SnapshotStore) MarkCompleted(id int64, objectKey string, sizeBytes int64) error {
	return s.setStatus(id, model.SnapshotCompleted, objectKey, "", sizeBytes, true)
}

func (s *SnapshotStore) MarkFailed(id int64, errMsg string) error {
	return s.setStatus(id, model.SnapshotFailed, "", errMsg, 0, true)
}

func (s *SnapshotStore) setStatus(id int64, status model.SnapshotStatus, objectKey, errMsg string, sizeBytes int64, done bool) error {
	var completedAt any
	if done {
		completedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`UPDATE snapshots SET status = ?,
			object_key = CASE WHEN ? != '' THEN ? ELSE object_key END,
			error = ?,
			size_bytes = CASE WHEN ? > 0 THEN ? ELSE size_bytes END,
			completed_at = ?
		 WHERE id = ?`,
		status, objectKey, objectKey, errMsg, sizeBytes, sizeBytes, completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update snapshot status: %w", err)
	}
	return nil
}
