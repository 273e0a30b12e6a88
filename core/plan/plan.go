package plan

import (
	"errors"
	"fmt"

	"retunefm/core/meta"
	"retunefm/core/musickey"
	"retunefm/core/tempo"
)

// ErrInvalidInput is returned when the source metadata or the caller's
// targets cannot form a transform request.
var ErrInvalidInput = errors.New("invalid transform input")

// TransformRequest pairs extracted source metadata with the caller's
// targets.
type TransformRequest struct {
	SourceKey   string `json:"sourceKey"`
	SourceTempo int    `json:"sourceTempo"`
	TargetKey   string `json:"targetKey"`
	TargetTempo int    `json:"targetTempo"`
}

// TransformPlan is the parameter set handed to the rendering engine: one
// pitch factor and an ordered chain of tempo stages whose product is the
// overall tempo ratio.
type TransformPlan struct {
	SemitoneShift int       `json:"semitoneShift"`
	PitchFactor   float64   `json:"pitchFactor"`
	TempoRatio    float64   `json:"tempoRatio"`
	TempoStages   []float64 `json:"tempoStages"`
}

// Plan validates extracted metadata against the caller's targets and builds
// the transform plan. It fails with ErrInvalidInput when metadata or targets
// are incomplete and with musickey.ErrUnknownKey when either key has no
// table entry. Pure; the renderer is never touched on failure.
func Plan(md meta.TrackMetadata, targetKey string, targetTempo int) (*TransformPlan, error) {
	if md.Key == nil || md.Tempo == nil {
		return nil, fmt.Errorf("%w: filename metadata incomplete (key=%v, tempo=%v)", ErrInvalidInput, md.Key != nil, md.Tempo != nil)
	}
	return Build(TransformRequest{
		SourceKey:   *md.Key,
		SourceTempo: *md.Tempo,
		TargetKey:   targetKey,
		TargetTempo: targetTempo,
	})
}

// Build computes the plan for an explicit transform request.
func Build(req TransformRequest) (*TransformPlan, error) {
	if req.SourceKey == "" || req.SourceTempo <= 0 {
		return nil, fmt.Errorf("%w: source key and tempo are required", ErrInvalidInput)
	}
	if req.TargetKey == "" || req.TargetTempo <= 0 {
		return nil, fmt.Errorf("%w: target key and a positive target tempo are required", ErrInvalidInput)
	}

	shift, err := musickey.Resolve(req.SourceKey, req.TargetKey)
	if err != nil {
		return nil, err
	}

	ratio := float64(req.TargetTempo) / float64(req.SourceTempo)
	return &TransformPlan{
		SemitoneShift: shift,
		PitchFactor:   musickey.PitchFactor(shift),
		TempoRatio:    ratio,
		TempoStages:   tempo.BuildChain(ratio),
	}, nil
}
