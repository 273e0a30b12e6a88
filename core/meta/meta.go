package meta

import (
	"regexp"
	"strconv"
	"strings"
)

// TrackMetadata holds the key and tempo recovered from a filename. A nil
// field means that extraction failed, not that the value is zero.
type TrackMetadata struct {
	Key   *string `json:"key"`
	Tempo *int    `json:"tempo"`
}

// Complete reports whether both key and tempo were extracted.
func (m TrackMetadata) Complete() bool {
	return m.Key != nil && m.Tempo != nil
}

var (
	// Note letter, optional accidental, mode token starting maj/min,
	// matched against the normalized filename.
	keyPattern = regexp.MustCompile(`([a-g][#b]?)(maj|min)`)
	// First run of two or three digits in the original filename.
	tempoPattern = regexp.MustCompile(`[0-9]{2,3}`)
	separators   = regexp.MustCompile(`[\s_]+`)
)

// Extract parses key and tempo out of a filename. The two extractions are
// independent: either may fail without affecting the other. The key match
// runs against a normalized copy (whitespace and underscores stripped,
// lowercased); the tempo match runs against the original filename.
func Extract(filename string) TrackMetadata {
	var md TrackMetadata

	normalized := strings.ToLower(separators.ReplaceAllString(filename, ""))
	if m := keyPattern.FindStringSubmatch(normalized); m != nil {
		mode := "minor"
		if m[2] == "maj" {
			mode = "major"
		}
		key := m[1] + " " + mode
		md.Key = &key
	}

	if digits := tempoPattern.FindString(filename); digits != "" {
		if bpm, err := strconv.Atoi(digits); err == nil && bpm > 0 {
			md.Tempo = &bpm
		}
	}

	return md
}
