package store

import (
	"testing"

	"github.com/tmackey/wortwatch/internal/model"
)

func TestAlertLifecycle(t *testing.T) {
	db := openTestDB(t)
	as := NewAlertStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), NewBatchStore(db))

	alert, err := as.Create(batch.ID, model.SeverityWarning, "stalled", "gravity unchanged for 48h")
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if alert.Acknowledged {
		t.Error("new alert should be unacknowledged")
	}

	open, err := as.HasOpen(batch.ID, "stalled")
	if err != nil {
		t.Fatalf("has open: %v", err)
	}
	if !open {
		t.Error("expected open stalled alert")
	}

	acked, err := as.Acknowledge(alert.ID)
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if !acked.Acknowledged || acked.AcknowledgedAt == nil {
		t.Errorf("acknowledge not recorded: %+v", acked)
	}

	open, err = as.HasOpen(batch.ID, "stalled")
	if err != nil {
		t.Fatalf("has open: %v", err)
	}
	if open {
		t.Error("acknowledged alert should not count as open")
	}
}

func TestAlertListOrdering(t *testing.T) {
	db := openTestDB(t)
	as := NewAlertStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), NewBatchStore(db))

	first, err := as.Create(batch.ID, model.SeverityInfo, "temp_low", "18.1C, below range")
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if _, err := as.Create(batch.ID, model.SeverityCritical, "temp_high", "26.3C, above range"); err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if _, err := as.Acknowledge(first.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	alerts, err := as.ListByBatch(batch.ID)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Acknowledged {
		t.Error("unacknowledged alerts should sort first")
	}
}
