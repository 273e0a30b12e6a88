package model

import "time"

// Remix job statuses.
const (
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// RemixJob records one retune request: the metadata extracted from the
// uploaded filename, the caller's targets, the computed plan parameters and
// the render outcome.
type RemixJob struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"originalFilename"`
	SourceKey        string    `json:"sourceKey"`
	SourceBPM        int       `json:"sourceBpm"`
	TargetKey        string    `json:"targetKey"`
	TargetBPM        int       `json:"targetBpm"`
	SemitoneShift    int       `json:"semitoneShift"`
	PitchFactor      float64   `json:"pitchFactor"`
	TempoStages      []float64 `json:"tempoStages"`
	Duration         float32   `json:"duration"` // Source duration in seconds; 0 when probing failed
	Status           string    `json:"status"`
	OutputObjectKey  string    `json:"outputObjectKey,omitempty"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
