// Package audio handles the narration track at the boundary of the synthesis
// core: duration probing and the PCM-to-WAV wrapper the voice collaborator
// applies before audio reaches the engine.
package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strings"

	"github.com/jerin370/YtAutomator/internal/captions"
)

// Source is a playable narration audio resource. The engine reads it, the
// recorder muxes it; neither mutates it.
type Source struct {
	Path     string
	Duration float64 // seconds
}

// Probe resolves the duration of an audio file via ffprobe and validates it.
// A non-finite or non-positive duration fails with ErrInvalidDuration before
// anything downstream is parameterized.
func Probe(ctx context.Context, path string) (*Source, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %v (%s)", path, err, strings.TrimSpace(string(out)))
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration); err != nil {
		return nil, fmt.Errorf("ffprobe %s: unparseable duration %q", path, strings.TrimSpace(string(out)))
	}

	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, fmt.Errorf("audio %s: duration %f: %w", path, duration, captions.ErrInvalidDuration)
	}

	return &Source{Path: path, Duration: duration}, nil
}
