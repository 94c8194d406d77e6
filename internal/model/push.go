package model

import "time"

// PushSubscription is a browser push endpoint registered for brew-day and
// fermentation alerts.
type PushSubscription struct {
	ID        int64     `json:"id"`
	Endpoint  string    `json:"endpoint"`
	P256dhKey string    `json:"-"`
	AuthKey   string    `json:"-"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotStatus tracks the lifecycle of an off-site database snapshot.
type SnapshotStatus string

const (
	SnapshotPending   SnapshotStatus = "pending"
	SnapshotUploading SnapshotStatus = "uploading"
	SnapshotCompleted SnapshotStatus = "completed"
	SnapshotFailed    SnapshotStatus = "failed"
)

// Snapshot records one encrypted database snapshot in object storage.
type Snapshot struct {
	ID          int64          `json:"id"`
	Filename    string         `json:"filename"`
	ObjectKey   string         `json:"object_key"`
	Status      SnapshotStatus `json:"status"`
	SizeBytes   int64          `json:"size_bytes"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at"`
}
