package tempo

import "math"

// ffmpeg's atempo filter accepts a factor in [0.5, 2.0] per instance;
// larger changes are chained.
const (
	MinStage = 0.5
	MaxStage = 2.0
)

// BuildChain decomposes a tempo ratio into stage factors. While the
// remaining ratio is outside [MinStage, MaxStage] a boundary stage is
// extracted, moving the remainder toward 1.0; the chain terminates with the
// residual ratio rounded to two decimals. A ratio already in range yields a
// single-element chain.
func BuildChain(ratio float64) []float64 {
	var stages []float64
	for ratio > MaxStage || ratio < MinStage {
		if ratio > MaxStage {
			stages = append(stages, MaxStage)
			ratio /= MaxStage
		} else {
			stages = append(stages, MinStage)
			ratio /= MinStage
		}
	}
	return append(stages, math.Round(ratio*100)/100)
}
