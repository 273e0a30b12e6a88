package audio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"retunefm/core/plan"
	"retunefm/logger"
)

// FFmpegRenderer implements the Renderer interface using ffmpeg.
type FFmpegRenderer struct {
	ffmpegPath string
}

// NewFFmpegRenderer creates a new FFmpegRenderer.
func NewFFmpegRenderer(ffmpegPath string) *FFmpegRenderer {
	return &FFmpegRenderer{ffmpegPath: ffmpegPath}
}

// FilterGraph builds the ffmpeg -af graph for a transform plan: one pitch
// shift filter followed by one atempo instance per stage, applied in order.
func FilterGraph(p *plan.TransformPlan) string {
	parts := make([]string, 0, len(p.TempoStages)+1)
	parts = append(parts, fmt.Sprintf("rubberband=pitch=%.6f", p.PitchFactor))
	for _, stage := range p.TempoStages {
		parts = append(parts, fmt.Sprintf("atempo=%.2f", stage))
	}
	return strings.Join(parts, ",")
}

// Render transcodes inputFile through the plan's filter graph into
// outputFile.
func (r *FFmpegRenderer) Render(inputFile, outputFile string, p *plan.TransformPlan) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", filepath.Dir(outputFile), err)
	}

	filterGraph := FilterGraph(p)
	args := []string{
		"-y",
		"-i", inputFile,
		"-af", filterGraph,
		outputFile,
	}

	cmd := exec.Command(r.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Info("Executing FFmpeg render",
		logger.String("input", inputFile),
		logger.String("output", outputFile),
		logger.String("filterGraph", filterGraph),
	)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg execution failed for %s: %w\nFFmpeg Error: %s", inputFile, err, stderr.String())
	}

	logger.Info("Render finished", logger.String("output", outputFile))
	return nil
}

// ffprobeOutput defines the structure for ffprobe JSON output.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration uses ffprobe to get the duration of an audio file in seconds.
func (r *FFmpegRenderer) Duration(inputFile string) (float32, error) {
	ffprobePath := strings.Replace(r.ffmpegPath, "ffmpeg", "ffprobe", 1)

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		inputFile,
	}

	cmd := exec.Command(ffprobePath, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe execution failed for %s: %w\nFFprobe Error: %s", inputFile, err, stderr.String())
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probeData); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ffprobe output for %s: %w\nFFprobe Output: %s", inputFile, err, out.String())
	}

	if probeData.Format.Duration == "" {
		return 0, fmt.Errorf("duration not found in ffprobe output for %s\nFFprobe Output: %s", inputFile, out.String())
	}

	duration, err := strconv.ParseFloat(probeData.Format.Duration, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration string %q for %s: %w", probeData.Format.Duration, inputFile, err)
	}

	return float32(duration), nil
}
