package model

import "testing"

func TestStatusTransitions(t *testing.T) {
	forward := []struct {
		from, to BatchStatus
	}{
		{StatusPlanning, StatusBrewing},
		{StatusBrewing, StatusFermenting},
		{StatusFermenting, StatusConditioning},
		{StatusConditioning, StatusCompleted},
		{StatusCompleted, StatusArchived},
	}
	for _, tt := range forward {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tt.from, tt.to)
		}
		if CanTransition(tt.to, tt.from) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tt.to, tt.from)
		}
	}
	if CanTransition(StatusPlanning, StatusFermenting) {
		t.Error("skipping a stage should be rejected")
	}
	if CanTransition(StatusArchived, StatusPlanning) {
		t.Error("archived is terminal")
	}
}

func TestBatchAttenuation(t *testing.T) {
	og, fg := 1.060, 1.015
	b := Batch{MeasuredOG: &og, MeasuredFG: &fg}
	att := b.Attenuation()
	if att == nil {
		t.Fatal("Attenuation() = nil, want value")
	}
	if *att < 74.9 || *att > 75.1 {
		t.Errorf("Attenuation() = %.2f, want 75", *att)
	}

	if (&Batch{MeasuredOG: &og}).Attenuation() != nil {
		t.Error("Attenuation() with missing FG should be nil")
	}
	flat := 1.000
	if (&Batch{MeasuredOG: &flat, MeasuredFG: &fg}).Attenuation() != nil {
		t.Error("Attenuation() with degenerate OG should be nil")
	}
}
