package profile

import (
	"context"
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/scoring"
)

var now = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func TestFoldFirstContribution(t *testing.T) {
	p, effect := Fold(Profile{UserID: "usr_1"}, scoring.Scored(70), now)
	if effect != EffectContributed {
		t.Fatalf("effect = %s, want contributed", effect)
	}
	if p.AverageScore != 70 || p.TotalScored != 1 {
		t.Errorf("got avg=%d n=%d, want avg=70 n=1", p.AverageScore, p.TotalScored)
	}
	if !p.UpdatedAt.Equal(now) {
		t.Error("UpdatedAt not stamped")
	}
}

func TestFoldRunningAverageFloors(t *testing.T) {
	// 70 then 81: (70*1+81)/2 = 75 (floor of 75.5)
	p, _ := Fold(Profile{UserID: "usr_1"}, scoring.Scored(70), now)
	p, _ = Fold(p, scoring.Scored(81), now)
	if p.AverageScore != 75 || p.TotalScored != 2 {
		t.Errorf("got avg=%d n=%d, want avg=75 n=2", p.AverageScore, p.TotalScored)
	}

	// Third contribution folds against the floored value: (75*2+50... must exceed 40)
	p, _ = Fold(p, scoring.Scored(44), now)
	if p.AverageScore != (75*2+44)/3 {
		t.Errorf("got avg=%d, want %d", p.AverageScore, (75*2+44)/3)
	}
}

func TestFoldThresholdBoundary(t *testing.T) {
	tests := []struct {
		score int
		want  Effect
	}{
		{40, EffectBelowThreshold}, // at the threshold: excluded
		{41, EffectContributed},    // strictly above: included
		{0, EffectBelowThreshold},
		{100, EffectContributed},
	}
	for _, tt := range tests {
		p, effect := Fold(Profile{UserID: "usr_1"}, scoring.Scored(tt.score), now)
		if effect != tt.want {
			t.Errorf("score %d: effect = %s, want %s", tt.score, effect, tt.want)
		}
		if tt.want != EffectContributed && p.TotalScored != 0 {
			t.Errorf("score %d must not change the profile", tt.score)
		}
	}
}

func TestFoldUnavailableIsNotZero(t *testing.T) {
	start, _ := Fold(Profile{UserID: "usr_1"}, scoring.Scored(80), now)

	p, effect := Fold(start, scoring.NoScore(), now)
	if effect != EffectUnavailable {
		t.Fatalf("effect = %s, want unavailable", effect)
	}
	if p != start {
		t.Error("unavailable assessment must leave the profile untouched")
	}

	// Contrast: a genuine 0 is below threshold, also untouched, but via
	// a different path. Both skip, for different reasons.
	p, effect = Fold(start, scoring.Scored(0), now)
	if effect != EffectBelowThreshold {
		t.Fatalf("effect = %s, want below_threshold", effect)
	}
	if p != start {
		t.Error("below-threshold score must leave the profile untouched")
	}
}

func TestFoldStreamOrderDependence(t *testing.T) {
	// Floor rounding makes the fold order-sensitive; replaying the same
	// stream must reproduce the same value.
	stream := []int{55, 90, 62, 77, 41}
	run := func() Profile {
		p := Profile{UserID: "usr_1"}
		for _, v := range stream {
			p, _ = Fold(p, scoring.Scored(v), now)
		}
		return p
	}
	first, second := run(), run()
	if first != second {
		t.Errorf("replay mismatch: %+v vs %+v", first, second)
	}
	if first.TotalScored != len(stream) {
		t.Errorf("TotalScored = %d, want %d", first.TotalScored, len(stream))
	}
}

func TestMemoryStoreDefaultsAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p, err := store.Get(ctx, "usr_missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.UserID != "usr_missing" || p.TotalScored != 0 || p.AverageScore != 0 {
		t.Errorf("missing profile must default to zero state, got %+v", p)
	}

	folded, _ := Fold(p, scoring.Scored(90), now)
	if err := store.Upsert(ctx, folded); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "usr_missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != folded {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, folded)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List returned %d profiles, want 1", len(all))
	}
}
