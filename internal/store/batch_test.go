package store

import (
	"testing"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/timer"
)

func createTestBatch(t *testing.T, rs *RecipeStore, bs *BatchStore) *model.Batch {
	t.Helper()
	recipe, err := rs.Create(testRecipe())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	batch, err := bs.Create(recipe.ID, "Batch #1")
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	return batch
}

func TestBatchCreateDefaults(t *testing.T) {
	db := openTestDB(t)
	batch := createTestBatch(t, NewRecipeStore(db), NewBatchStore(db))

	if batch.Status != model.StatusPlanning {
		t.Errorf("status = %q, want planning", batch.Status)
	}
	if batch.TimerPhase != model.PhaseIdle {
		t.Errorf("timer phase = %q, want idle", batch.TimerPhase)
	}
	if batch.MeasuredOG != nil {
		t.Error("expected no measured OG on a new batch")
	}
}

func TestBatchStatusTransitions(t *testing.T) {
	db := openTestDB(t)
	bs := NewBatchStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), bs)

	got, err := bs.UpdateStatus(batch.ID, model.StatusBrewing)
	if err != nil {
		t.Fatalf("planning -> brewing: %v", err)
	}
	if got.Status != model.StatusBrewing {
		t.Errorf("status = %q, want brewing", got.Status)
	}
	if got.BrewedAt == nil {
		t.Error("expected brewed_at stamp on entering brewing")
	}

	// Skipping ahead is rejected.
	if _, err := bs.UpdateStatus(batch.ID, model.StatusCompleted); err == nil {
		t.Error("expected error for brewing -> completed")
	}
	// Going backwards is rejected.
	if _, err := bs.UpdateStatus(batch.ID, model.StatusPlanning); err == nil {
		t.Error("expected error for brewing -> planning")
	}

	for _, next := range []model.BatchStatus{model.StatusFermenting, model.StatusConditioning, model.StatusCompleted, model.StatusArchived} {
		if got, err = bs.UpdateStatus(batch.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at stamp")
	}
}

func TestBatchMeasurements(t *testing.T) {
	db := openTestDB(t)
	bs := NewBatchStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), bs)

	og := 1.065
	got, err := bs.UpdateMeasurements(batch.ID, &og, nil, nil)
	if err != nil {
		t.Fatalf("update measurements: %v", err)
	}
	if got.MeasuredOG == nil || *got.MeasuredOG != 1.065 {
		t.Errorf("measured OG = %v, want 1.065", got.MeasuredOG)
	}

	// A later FG must not clear the stored OG.
	fg := 1.014
	abv := 6.7
	got, err = bs.UpdateMeasurements(batch.ID, nil, &fg, &abv)
	if err != nil {
		t.Fatalf("update measurements: %v", err)
	}
	if got.MeasuredOG == nil || *got.MeasuredOG != 1.065 {
		t.Errorf("measured OG lost on FG update: %v", got.MeasuredOG)
	}
	if got.MeasuredFG == nil || *got.MeasuredFG != 1.014 {
		t.Errorf("measured FG = %v, want 1.014", got.MeasuredFG)
	}
}

func TestBatchSaveTimerRoundTrip(t *testing.T) {
	db := openTestDB(t)
	bs := NewBatchStore(db)
	batch := createTestBatch(t, NewRecipeStore(db), bs)

	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	paused := started.Add(10 * time.Minute)
	st := timer.State{
		Phase:           model.PhaseMash,
		StartedAt:       &started,
		PausedAt:        &paused,
		DurationSeconds: 3600,
	}
	if err := bs.SaveTimer(batch.ID, st); err != nil {
		t.Fatalf("save timer: %v", err)
	}

	got, err := bs.GetByID(batch.ID)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	restored := timer.FromBatch(got)
	if restored.Phase != model.PhaseMash {
		t.Errorf("phase = %q, want mash", restored.Phase)
	}
	if restored.DurationSeconds != 3600 {
		t.Errorf("duration = %d, want 3600", restored.DurationSeconds)
	}
	if restored.StartedAt == nil || !restored.StartedAt.Equal(started) {
		t.Errorf("started at = %v, want %v", restored.StartedAt, started)
	}
	if restored.PausedAt == nil || !restored.PausedAt.Equal(paused) {
		t.Errorf("paused at = %v, want %v", restored.PausedAt, paused)
	}

	// The paused countdown survives persistence intact.
	if remaining := restored.Remaining(paused.Add(time.Hour)); remaining != 50*60 {
		t.Errorf("remaining = %d, want 3000", remaining)
	}
}

func TestBatchListActive(t *testing.T) {
	db := openTestDB(t)
	rs := NewRecipeStore(db)
	bs := NewBatchStore(db)

	active := createTestBatch(t, rs, bs)
	finished := createTestBatch(t, rs, bs)
	for _, next := range []model.BatchStatus{model.StatusBrewing, model.StatusFermenting, model.StatusConditioning, model.StatusCompleted} {
		if _, err := bs.UpdateStatus(finished.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}

	batches, err := bs.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(batches) != 1 || batches[0].ID != active.ID {
		t.Errorf("expected only the active batch, got %+v", batches)
	}
}
