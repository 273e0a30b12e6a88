package audio

import "retunefm/core/plan"

// Renderer defines the interface for rendering a transform plan to disk.
type Renderer interface {
	// Render applies the plan's pitch factor and tempo stage chain to
	// inputFile and writes the result to outputFile.
	Render(inputFile, outputFile string, p *plan.TransformPlan) error
	// Duration returns the length of an audio file in seconds.
	Duration(inputFile string) (float32, error)
}
