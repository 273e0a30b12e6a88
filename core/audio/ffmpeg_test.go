package audio

import (
	"testing"

	"retunefm/core/plan"
)

func TestFilterGraph(t *testing.T) {
	tests := []struct {
		name string
		plan plan.TransformPlan
		want string
	}{
		{
			"identity",
			plan.TransformPlan{PitchFactor: 1.0, TempoStages: []float64{1.0}},
			"rubberband=pitch=1.000000,atempo=1.00",
		},
		{
			"shift up with chained stages",
			plan.TransformPlan{PitchFactor: 1.059463, TempoStages: []float64{2.0, 1.5}},
			"rubberband=pitch=1.059463,atempo=2.00,atempo=1.50",
		},
		{
			"shift down with slow-down chain",
			plan.TransformPlan{PitchFactor: 0.749154, TempoStages: []float64{0.5, 0.8}},
			"rubberband=pitch=0.749154,atempo=0.50,atempo=0.80",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterGraph(&tt.plan)
			if got != tt.want {
				t.Fatalf("FilterGraph() = %q; want %q", got, tt.want)
			}
		})
	}
}
