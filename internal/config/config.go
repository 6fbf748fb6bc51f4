package config

// Render parameters are fixed for a synthesis run; the zero-value Config is
// not usable, call Default first.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultFPS        = 30
	DefaultFadeFrames = 15 // caption fade-in window, ~0.5s at 30fps
)

type Config struct {
	AudioPath   string
	ScriptPath  string
	VisualsPath string // directory of assets, or a YAML manifest
	OutputPath  string
	CaptionsOut string // optional WebVTT sidecar path

	Width      int
	Height     int
	FPS        int
	FadeFrames int

	Title      string // static overlay when no captions can be derived
	ChannelURL string // optional QR watermark target
	FontPath   string // optional TTF override for caption text

	VideoEncoder string
	AudioEncoder string
	Quality      int // CRF

	ShowStats    bool
	BuildVersion string
}

// Default returns a Config with the fixed render parameters applied.
func Default() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FPS:        DefaultFPS,
		FadeFrames: DefaultFadeFrames,
		Quality:    31,
	}
}
