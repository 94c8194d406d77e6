package model

import "time"

// GravityReading is a single specific-gravity sample reported by a device
// during fermentation.
type GravityReading struct {
	ID         int64     `json:"id"`
	BatchID    int64     `json:"batch_id"`
	DeviceID   *int64    `json:"device_id"`
	Gravity    float64   `json:"gravity"`
	TempC      *float64  `json:"temp_c"`
	RecordedAt time.Time `json:"recorded_at"`
}

// AlertSeverity ranks fermentation alerts for display ordering.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// FermentationAlert is a condition raised against a fermenting batch,
// such as a temperature excursion or a stalled gravity curve.
type FermentationAlert struct {
	ID             int64         `json:"id"`
	BatchID        int64         `json:"batch_id"`
	Severity       AlertSeverity `json:"severity"`
	Kind           string        `json:"kind"`
	Message        string        `json:"message"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at"`
	CreatedAt      time.Time     `json:"created_at"`
}
