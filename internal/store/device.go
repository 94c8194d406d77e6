package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

type DeviceStore struct {
	db *sql.DB
}

func NewDeviceStore(db *sql.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

const deviceCols = `id, name, type, token_hash, last_seen, created_at`

func scanDevice(scanner interface{ Scan(...any) error }) (*model.Device, error) {
	var d model.Device
	var lastSeen sql.NullTime
	err := scanner.Scan(&d.ID, &d.Name, &d.Type, &d.TokenHash, &lastSeen, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		d.LastSeen = &lastSeen.Time
	}
	return &d, nil
}

func (s *DeviceStore) Create(name string, deviceType model.DeviceType, tokenHash string) (*model.Device, error) {
	result, err := s.db.Exec(
		`INSERT INTO devices (name, type, token_hash) VALUES (?, ?, ?)`,
		name, deviceType, tokenHash,
	)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create device id: %w", err)
	}
	return s.GetByID(id)
}

func (s *DeviceStore) GetByID(id int64) (*model.Device, error) {
	row := s.db.QueryRow(`SELECT `+deviceCols+` FROM devices WHERE id = ?`, id)
	d, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}
	return d, nil
}

func (s *DeviceStore) List() ([]model.Device, error) {
	rows, err := s.db.Query(`SELECT ` + deviceCols + ` FROM devices ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, *d)
	}
	return devices, rows.Err()
}

// TouchLastSeen records that a device reported in.
func (s *DeviceStore) TouchLastSeen(id int64) error {
	_, err := s.db.Exec(`UPDATE devices SET last_seen = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch device: %w", err)
	}
	return nil
}

func (s *DeviceStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}
