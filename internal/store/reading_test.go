package store

import (
	"testing"
	"time"
)

func TestReadingCreateAndList(t *testing.T) {
	db := openTestDB(t)
	bs := NewBatchStore(db)
	rs := NewReadingStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), bs)

	base := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	temp := 19.5
	for i, g := range []float64{1.065, 1.048, 1.030} {
		if _, err := rs.Create(batch.ID, nil, g, &temp, base.Add(time.Duration(i)*24*time.Hour)); err != nil {
			t.Fatalf("create reading: %v", err)
		}
	}

	readings, err := rs.ListByBatch(batch.ID)
	if err != nil {
		t.Fatalf("list readings: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	if readings[0].Gravity != 1.065 || readings[2].Gravity != 1.030 {
		t.Errorf("readings not in chronological order: %+v", readings)
	}
	if readings[0].TempC == nil || *readings[0].TempC != 19.5 {
		t.Errorf("temp = %v, want 19.5", readings[0].TempC)
	}

	latest, err := rs.Latest(batch.ID)
	if err != nil {
		t.Fatalf("latest reading: %v", err)
	}
	if latest == nil || latest.Gravity != 1.030 {
		t.Errorf("latest = %+v, want gravity 1.030", latest)
	}
}

func TestReadingSince(t *testing.T) {
	db := openTestDB(t)
	bs := NewBatchStore(db)
	rs := NewReadingStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), bs)

	base := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	for i, g := range []float64{1.060, 1.050, 1.040, 1.035} {
		if _, err := rs.Create(batch.ID, nil, g, nil, base.Add(time.Duration(i)*12*time.Hour)); err != nil {
			t.Fatalf("create reading: %v", err)
		}
	}

	recent, err := rs.Since(batch.ID, base.Add(18*time.Hour))
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent readings, got %d", len(recent))
	}
	if recent[0].Gravity != 1.040 {
		t.Errorf("first recent gravity = %v, want 1.040", recent[0].Gravity)
	}
}

func TestReadingLatestEmpty(t *testing.T) {
	db := openTestDB(t)
	rs := NewReadingStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), NewBatchStore(db))

	latest, err := rs.Latest(batch.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil latest for empty batch, got %+v", latest)
	}
}
