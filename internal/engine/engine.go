// Package engine orchestrates one synthesis run: load every input, derive the
// caption and visual timelines from the audio duration, then drive the
// compositor into the recorder until the container is complete.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jerin370/YtAutomator/internal/asset"
	"github.com/jerin370/YtAutomator/internal/audio"
	"github.com/jerin370/YtAutomator/internal/captions"
	"github.com/jerin370/YtAutomator/internal/config"
	"github.com/jerin370/YtAutomator/internal/recorder"
	"github.com/jerin370/YtAutomator/internal/renderer"
	"github.com/jerin370/YtAutomator/internal/timeline"
)

// Result carries everything a completed run produced.
type Result struct {
	Container []byte
	Captions  []captions.Caption
	Duration  float64
	Frames    int
}

// SynthesisRun assembles one video. All state is per-run; nothing survives
// into the next invocation.
type SynthesisRun struct {
	Config *config.Config
	Script string
	Specs  []asset.Spec

	runID string
}

// NewSynthesisRun prepares a run over the given inputs.
func NewSynthesisRun(cfg *config.Config, script string, specs []asset.Spec) *SynthesisRun {
	return &SynthesisRun{
		Config: cfg,
		Script: script,
		Specs:  specs,
		runID:  uuid.NewString(),
	}
}

// ID returns the run's identity, used in logs and reports.
func (r *SynthesisRun) ID() string { return r.runID }

// Run executes the synthesis. Either a complete container comes back or an
// error does; a partial result is never returned. Caption estimation failures
// other than an invalid audio duration degrade to a title-card overlay
// instead of aborting.
func (r *SynthesisRun) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	if len(r.Specs) == 0 {
		return nil, timeline.ErrNoVisuals
	}

	// Audio metadata first: the duration parameterizes the estimator, the
	// scheduler and the compositor. An invalid duration aborts before any
	// asset is touched.
	src, err := audio.Probe(ctx, r.Config.AudioPath)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[*] Run %s: audio %.2fs, %d visuals\n", shortID(r.runID), src.Duration, len(r.Specs))

	caps, err := captions.Estimate(r.Script, src.Duration)
	if err != nil {
		if errors.Is(err, captions.ErrInvalidDuration) {
			return nil, err
		}
		// Captions are a presentation enhancement, not a correctness
		// requirement.
		log.Printf("[!] Caption estimation failed, falling back to title overlay: %v", err)
		caps = nil
	}
	if len(caps) == 0 {
		fmt.Println("[*] No narration captions; using static title overlay")
	} else {
		fmt.Printf("[*] Estimated %d captions\n", len(caps))
	}

	// Join barrier: nothing renders or records until every asset is ready.
	loadStart := time.Now()
	visuals, err := asset.LoadAll(ctx, r.Specs, r.Config.FPS)
	if err != nil {
		return nil, err
	}
	defer asset.CloseAll(visuals)
	loadTime := time.Since(loadStart)

	comp, err := renderer.New(renderer.Params{
		Width:      r.Config.Width,
		Height:     r.Config.Height,
		FPS:        r.Config.FPS,
		FadeFrames: r.Config.FadeFrames,
		Duration:   src.Duration,
		Visuals:    visuals,
		Captions:   caps,
		Title:      r.Config.Title,
		ChannelURL: r.Config.ChannelURL,
		FontPath:   r.Config.FontPath,
	})
	if err != nil {
		return nil, err
	}

	rec, err := recorder.Start(ctx, recorder.Options{
		AudioPath:    src.Path,
		Width:        r.Config.Width,
		Height:       r.Config.Height,
		FPS:          r.Config.FPS,
		VideoEncoder: r.Config.VideoEncoder,
		AudioEncoder: r.Config.AudioEncoder,
		Quality:      r.Config.Quality,
	})
	if err != nil {
		return nil, err
	}

	fmt.Printf("[*] Rendering %d frames at %d fps...\n", comp.TotalFrames()+1, r.Config.FPS)
	renderStart := time.Now()
	if err := comp.Run(ctx, rec); err != nil {
		rec.Abort()
		return nil, err
	}
	renderTime := time.Since(renderStart)

	blob, err := rec.Finalize()
	if err != nil {
		return nil, err
	}

	if r.Config.ShowStats {
		r.reportStats(startTime, loadTime, renderTime, rec.Frames(), len(blob))
	}

	return &Result{
		Container: blob,
		Captions:  caps,
		Duration:  src.Duration,
		Frames:    rec.Frames(),
	}, nil
}

func (r *SynthesisRun) reportStats(startTime time.Time, loadTime, renderTime time.Duration, frames, size int) {
	totalTime := time.Since(startTime)
	fps := float64(frames) / totalTime.Seconds()

	fmt.Printf(
		"--- [SYNTHESIS REPORT] ---\n"+
			"Run: %s\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Asset Loading: %.2fs\n"+
			"Render+Encode: %.2fs\n"+
			"Frames: %d | Output: %d KiB\n"+
			"Effective FPS: %.2f\n"+
			"--------------------------\n",
		shortID(r.runID), r.Config.BuildVersion, totalTime.Seconds(),
		loadTime.Seconds(), renderTime.Seconds(), frames, size/1024, fps,
	)

	logEntry := fmt.Sprintf("[%s] Run: %s | Build: %s | Audio: %s | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		shortID(r.runID),
		r.Config.BuildVersion,
		filepath.Base(r.Config.AudioPath),
		frames,
		totalTime.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		log.Printf("[!] Could not write benchmark.log: %v", err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
