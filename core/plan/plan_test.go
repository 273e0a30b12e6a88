package plan

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"retunefm/core/meta"
	"retunefm/core/musickey"
)

func metadata(key string, tempo int) meta.TrackMetadata {
	return meta.TrackMetadata{Key: &key, Tempo: &tempo}
}

func TestPlanRelativeMinor(t *testing.T) {
	// c major and a minor share a semitone class, so only tempo changes.
	p, err := Plan(metadata("c major", 120), "a minor", 90)
	if err != nil {
		t.Fatalf("Plan() err = %v; want nil", err)
	}
	if p.SemitoneShift != 0 {
		t.Fatalf("SemitoneShift = %d; want 0", p.SemitoneShift)
	}
	if p.PitchFactor != 1.0 {
		t.Fatalf("PitchFactor = %v; want 1.0", p.PitchFactor)
	}
	product := 1.0
	for _, stage := range p.TempoStages {
		product *= stage
	}
	if math.Abs(product-0.75) > 1e-6 {
		t.Fatalf("stage product = %v; want 0.75", product)
	}
}

func TestPlanShiftAndChain(t *testing.T) {
	p, err := Plan(metadata("g major", 100), "c major", 300)
	if err != nil {
		t.Fatalf("Plan() err = %v; want nil", err)
	}
	if p.SemitoneShift != 5 {
		t.Fatalf("SemitoneShift = %d; want 5", p.SemitoneShift)
	}
	wantFactor := math.Pow(2, 5.0/12)
	if math.Abs(p.PitchFactor-wantFactor) > 1e-12 {
		t.Fatalf("PitchFactor = %v; want %v", p.PitchFactor, wantFactor)
	}
	if want := []float64{2.0, 1.5}; !reflect.DeepEqual(p.TempoStages, want) {
		t.Fatalf("TempoStages = %v; want %v", p.TempoStages, want)
	}
}

func TestPlanIncompleteMetadata(t *testing.T) {
	key := "c major"
	tempo := 120
	tests := []struct {
		name string
		md   meta.TrackMetadata
	}{
		{"no metadata", meta.TrackMetadata{}},
		{"missing tempo", meta.TrackMetadata{Key: &key}},
		{"missing key", meta.TrackMetadata{Tempo: &tempo}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Plan(tt.md, "a minor", 90); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Plan() err = %v; want ErrInvalidInput", err)
			}
		})
	}
}

func TestPlanInvalidTargets(t *testing.T) {
	if _, err := Plan(metadata("c major", 120), "", 90); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty target key err = %v; want ErrInvalidInput", err)
	}
	if _, err := Plan(metadata("c major", 120), "a minor", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero target tempo err = %v; want ErrInvalidInput", err)
	}
}

func TestPlanUnknownKey(t *testing.T) {
	if _, err := Plan(metadata("c major", 120), "x major", 90); !errors.Is(err, musickey.ErrUnknownKey) {
		t.Fatalf("unknown target key err = %v; want ErrUnknownKey", err)
	}
	if _, err := Plan(metadata("h major", 120), "a minor", 90); !errors.Is(err, musickey.ErrUnknownKey) {
		t.Fatalf("unknown source key err = %v; want ErrUnknownKey", err)
	}
}

func TestPlanIsPure(t *testing.T) {
	first, err := Plan(metadata("eb minor", 140), "f# major", 70)
	if err != nil {
		t.Fatalf("Plan() err = %v; want nil", err)
	}
	second, err := Plan(metadata("eb minor", 140), "f# major", 70)
	if err != nil {
		t.Fatalf("Plan() err = %v; want nil", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Plan() not deterministic: %+v vs %+v", first, second)
	}
}
