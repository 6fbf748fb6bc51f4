package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jerin370/YtAutomator/internal/asset"
	"github.com/jerin370/YtAutomator/internal/audio"
	"github.com/jerin370/YtAutomator/internal/captions"
	"github.com/jerin370/YtAutomator/internal/config"
	"github.com/jerin370/YtAutomator/internal/engine"
	"github.com/jerin370/YtAutomator/internal/system"
)

const buildVersion = "1.2.0"

func main() {
	system.InitResourceLimits()

	// Default input and output layout; created if missing.
	dirs := []string{"input/audio", "input/script", "input/visuals", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	audioPtr := flag.String("audio", "", "Narration audio file, .wav/.mp3/.ogg or raw .pcm (default: newest file in input/audio/)")
	scriptPtr := flag.String("script", "", "Script text file; narration is read from double-quoted spans (default: newest file in input/script/)")
	visualsPtr := flag.String("visuals", "input/visuals", "Directory of visual assets, or a YAML manifest")
	outputPtr := flag.String("output", "", "Output video path (default: generated under output/)")
	captionsOutPtr := flag.String("captions-out", "", "Write estimated captions to this WebVTT file")
	titlePtr := flag.String("title", "", "Title overlay used when no captions can be derived")
	channelPtr := flag.String("channel", "", "Channel URL rendered as a QR watermark")
	fontPtr := flag.String("font", "", "TTF font for caption text (default: embedded Go Regular)")
	qualityPtr := flag.Int("quality", 31, "VP9 CRF, lower is better")
	statsPtr := flag.Bool("stats", false, "Print a synthesis report and append to benchmark.log")

	flag.Parse()

	audioPath := *audioPtr
	if audioPath == "" {
		latest, err := system.FindLatestAudio("input/audio")
		if err != nil {
			log.Fatalf("[-] No audio: %v. Put a narration file in input/audio/", err)
		}
		audioPath = latest
		fmt.Printf("[*] Audio: %s\n", audioPath)
	}

	// Raw PCM from the voice pipeline gets a WAV header so ffprobe and ffmpeg
	// can read it.
	if strings.HasSuffix(strings.ToLower(audioPath), ".pcm") {
		wrapped, err := wrapPCMFile(audioPath)
		if err != nil {
			log.Fatalf("[-] Could not wrap PCM audio: %v", err)
		}
		defer os.Remove(wrapped)
		fmt.Printf("[*] Wrapped raw PCM as %s\n", wrapped)
		audioPath = wrapped
	}

	scriptPath := *scriptPtr
	if scriptPath == "" {
		if latest, err := system.FindLatestScript("input/script"); err == nil {
			scriptPath = latest
			fmt.Printf("[*] Script: %s\n", scriptPath)
		}
	}
	script := ""
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			log.Fatalf("[-] Could not read script: %v", err)
		}
		script = string(data)
	}

	specs, manifest, err := collectVisuals(*visualsPtr)
	if err != nil {
		log.Fatalf("[-] Could not collect visuals: %v", err)
	}
	if len(specs) == 0 {
		log.Fatalf("[-] No visuals found in %s. Add images or clips, or point -visuals at a manifest", *visualsPtr)
	}
	fmt.Printf("[*] Visuals: %d\n", len(specs))

	videoCodec, audioCodec, err := system.DetectEncoders()
	if err != nil {
		log.Fatalf("[-] Encoder check failed: %v", err)
	}
	if videoCodec != "libvpx-vp9" {
		fmt.Printf("[!] VP9 unavailable, falling back to %s\n", videoCodec)
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		baseName := filepath.Base(audioPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.webm", cleanName, timestamp))
	}

	cfg := config.Default()
	cfg.AudioPath = audioPath
	cfg.ScriptPath = scriptPath
	cfg.VisualsPath = *visualsPtr
	cfg.OutputPath = finalOutput
	cfg.CaptionsOut = *captionsOutPtr
	cfg.Title = *titlePtr
	cfg.ChannelURL = *channelPtr
	cfg.FontPath = *fontPtr
	cfg.VideoEncoder = videoCodec
	cfg.AudioEncoder = audioCodec
	cfg.Quality = *qualityPtr
	cfg.ShowStats = *statsPtr
	cfg.BuildVersion = buildVersion

	// Manifest metadata fills in what the flags left empty.
	if manifest != nil {
		if cfg.Title == "" {
			cfg.Title = manifest.Title
		}
		if cfg.ChannelURL == "" {
			cfg.ChannelURL = manifest.Channel
		}
	}

	run := engine.NewSynthesisRun(cfg, script, specs)
	res, err := run.Run(context.Background())
	if err != nil {
		log.Fatalf("[-] Synthesis failed: %v", err)
	}

	if err := os.WriteFile(finalOutput, res.Container, 0644); err != nil {
		log.Fatalf("[-] Could not write output: %v", err)
	}

	if cfg.CaptionsOut != "" && len(res.Captions) > 0 {
		if err := captions.WriteVTT(res.Captions, cfg.CaptionsOut); err != nil {
			log.Fatalf("[-] Could not write captions: %v", err)
		}
		fmt.Printf("[*] Captions: %s\n", cfg.CaptionsOut)
	}

	fmt.Printf("[+++] Success! Output: %s (%.2fs, %d frames)\n", finalOutput, res.Duration, res.Frames)
}

// collectVisuals turns the -visuals argument into asset specs. A .yaml/.yml
// path is read as a manifest; a directory is scanned with kind derived from
// the extension, in lexical order so the slot order is stable.
func collectVisuals(path string) ([]asset.Spec, *config.Manifest, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		m, err := config.ReadManifest(path)
		if err != nil {
			return nil, nil, err
		}
		base := filepath.Dir(path)
		specs := make([]asset.Spec, 0, len(m.Visuals))
		for _, e := range m.Visuals {
			p := e.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(base, p)
			}
			name := e.Name
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			}
			kind := asset.KindImage
			if e.Kind == "clip" {
				kind = asset.KindClip
			}
			specs = append(specs, asset.Spec{Name: name, Path: p, Kind: kind})
		}
		return specs, m, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, nil, err
	}

	var specs []asset.Spec
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, ok := kindForExt(filepath.Ext(e.Name()))
		if !ok {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		specs = append(specs, asset.Spec{
			Name: name,
			Path: filepath.Join(path, e.Name()),
			Kind: kind,
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	return specs, nil, nil
}

func kindForExt(ext string) (asset.Kind, bool) {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg":
		return asset.KindImage, true
	case ".mp4", ".webm", ".mov":
		return asset.KindClip, true
	}
	return 0, false
}

// wrapPCMFile headers a raw 24kHz mono s16le file as WAV next to the original.
func wrapPCMFile(path string) (string, error) {
	samples, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
	if err := os.WriteFile(out, audio.WrapPCM(samples), 0644); err != nil {
		return "", err
	}
	return out, nil
}
