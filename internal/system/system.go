package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// InitResourceLimits raises the open-file limit (macOS/Linux). Decoding clip
// frames and piping to ffmpeg opens a fair number of descriptors.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Could not raise file limit: %v", err)
	}
}

// FindLatest returns the most recently modified file in dir whose lowercased
// name carries one of the given extensions.
func FindLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(extensions, "/"), dir)
	}
	return latestFile, nil
}

// FindLatestAudio returns the newest audio file in dir.
func FindLatestAudio(dir string) (string, error) {
	return FindLatest(dir, []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac", ".pcm"})
}

// FindLatestScript returns the newest script text file in dir.
func FindLatestScript(dir string) (string, error) {
	return FindLatest(dir, []string{".txt", ".md"})
}

// DetectEncoders picks the best available WebM codec pair. VP9 is preferred,
// VP8 is the fallback; Opus has no fallback because the output contract is an
// Opus-class audio track.
func DetectEncoders() (videoCodec, audioCodec string, err error) {
	out, cmdErr := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if cmdErr != nil {
		return "", "", fmt.Errorf("ffmpeg not available: %v", cmdErr)
	}

	encoders := string(out)
	switch {
	case strings.Contains(encoders, "libvpx-vp9"):
		videoCodec = "libvpx-vp9"
	case strings.Contains(encoders, "libvpx"):
		videoCodec = "libvpx"
	default:
		return "", "", fmt.Errorf("no VP8/VP9 encoder in this ffmpeg build")
	}

	if !strings.Contains(encoders, "libopus") {
		return "", "", fmt.Errorf("no Opus encoder in this ffmpeg build")
	}
	return videoCodec, "libopus", nil
}
