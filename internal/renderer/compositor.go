// Package renderer drives the frame-rate-locked render loop: per tick it
// resolves the active visual and caption, composes one frame onto the run's
// surface and hands it to the recorder, in strict frame order.
package renderer

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/jerin370/YtAutomator/internal/asset"
	"github.com/jerin370/YtAutomator/internal/captions"
	"github.com/jerin370/YtAutomator/internal/timeline"
)

// FrameSink receives composited frames in strictly increasing frame order.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
}

// Params parameterizes one compositing run.
type Params struct {
	Width      int
	Height     int
	FPS        int
	FadeFrames int
	Duration   float64 // audio duration, seconds

	Visuals  []asset.Visual
	Captions []captions.Caption

	Title      string // static overlay when Captions is empty
	ChannelURL string // optional QR watermark
	FontPath   string
}

// renderState is the per-run mutable state, owned exclusively by the
// compositor's tick handler.
type renderState struct {
	frame       int
	activeIndex int // -1 until the first frame resolves a visual
	fadeLeft    int
	lastCaption string
}

// Compositor owns the surface and render state for exactly one run.
type Compositor struct {
	width, height int
	fps           int
	fadeFrames    int
	duration      float64

	visuals []asset.Visual
	caps    []captions.Caption
	title   string

	surface *image.RGBA
	text    *TextRenderer
	qr      image.Image

	state renderState
	tick  time.Duration
}

// New builds a compositor for one run. The visual list must be non-empty and
// the duration positive; both are validated before any resource is touched.
func New(p Params) (*Compositor, error) {
	if len(p.Visuals) == 0 {
		return nil, timeline.ErrNoVisuals
	}
	if math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) || p.Duration <= 0 {
		return nil, captions.ErrInvalidDuration
	}

	text, err := NewTextRenderer(p.FontPath)
	if err != nil {
		return nil, err
	}

	var qr image.Image
	if p.ChannelURL != "" {
		qr, err = newQRImage(p.ChannelURL)
		if err != nil {
			return nil, err
		}
	}

	return &Compositor{
		width:      p.Width,
		height:     p.Height,
		fps:        p.FPS,
		fadeFrames: p.FadeFrames,
		duration:   p.Duration,
		visuals:    p.Visuals,
		caps:       p.Captions,
		title:      p.Title,
		surface:    image.NewRGBA(image.Rect(0, 0, p.Width, p.Height)),
		text:       text,
		qr:         qr,
		state:      renderState{activeIndex: -1},
		tick:       time.Second / time.Duration(p.FPS),
	}, nil
}

// TotalFrames returns the index of the last frame; the loop renders frames
// 0..TotalFrames inclusive.
func (c *Compositor) TotalFrames() int {
	return int(math.Ceil(c.duration * float64(c.fps)))
}

// RenderFrame composes frame n onto the surface and returns it. The returned
// image is the compositor-owned surface, valid until the next call.
func (c *Compositor) RenderFrame(frame int) (*image.RGBA, error) {
	t := float64(frame) / float64(c.fps)

	idx, err := timeline.ActiveIndex(t, len(c.visuals), c.duration)
	if err != nil {
		return nil, err
	}
	if idx != c.state.activeIndex {
		// Slot transition: pause+rewind the old clip, start the new one
		// from its beginning.
		if c.state.activeIndex >= 0 {
			c.visuals[c.state.activeIndex].Pause()
		}
		c.visuals[idx].Start()
		c.state.activeIndex = idx
	}

	draw.Draw(c.surface, c.surface.Bounds(), image.Black, image.Point{}, draw.Src)

	v := c.visuals[idx]
	frameImg := v.Frame()
	if frameImg == nil || frameImg.Bounds().Empty() {
		return nil, &asset.DecodeError{Asset: v.Name(), Err: errors.New("no drawable pixels")}
	}
	drawCover(c.surface, frameImg)
	v.Advance()

	if cue, ok := captions.ActiveAt(c.caps, t); ok {
		if cue.Text != c.state.lastCaption {
			c.state.fadeLeft = c.fadeFrames
			c.state.lastCaption = cue.Text
		}
		alpha := 1.0
		if c.state.fadeLeft > 0 {
			eased := 1 - float64(c.state.fadeLeft)/float64(c.fadeFrames)
			alpha = eased * eased
			c.state.fadeLeft--
		}
		c.text.DrawCaption(c.surface, cue.Text, alpha)
	} else {
		c.state.lastCaption = ""
		if len(c.caps) == 0 {
			c.text.DrawTitle(c.surface, c.title)
		}
	}

	if c.qr != nil {
		drawQR(c.surface, c.qr)
	}

	c.state.frame++
	return c.surface, nil
}

// Run drives the tick loop: one frame per tick, frames 0..TotalFrames
// inclusive, then stops playback and returns. Ticks may be delayed under
// load but frames are never skipped or reordered; the frame number is the
// loop counter, not a function of wall time. A sink error stops the loop on
// the same tick.
func (c *Compositor) Run(ctx context.Context, sink FrameSink) error {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	defer c.stopPlayback()

	total := c.TotalFrames()
	for frame := 0; frame <= total; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		img, err := c.RenderFrame(frame)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(img); err != nil {
			return err
		}
	}
	return nil
}

// stopPlayback pauses any in-progress motion clip.
func (c *Compositor) stopPlayback() {
	if c.state.activeIndex >= 0 {
		c.visuals[c.state.activeIndex].Pause()
	}
}

// coverRect computes the destination rectangle for cover fitting: the media
// is scaled uniformly by max(sw/mw, sh/mh) and centered, fully covering the
// surface with any excess cropped. Never letterboxed, never stretched
// non-uniformly.
func coverRect(surfW, surfH, mediaW, mediaH int) image.Rectangle {
	scale := math.Max(
		float64(surfW)/float64(mediaW),
		float64(surfH)/float64(mediaH),
	)
	dw := int(math.Round(float64(mediaW) * scale))
	dh := int(math.Round(float64(mediaH) * scale))
	x0 := (surfW - dw) / 2
	y0 := (surfH - dh) / 2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

func drawCover(dst *image.RGBA, src image.Image) {
	b := dst.Bounds()
	sb := src.Bounds()
	target := coverRect(b.Dx(), b.Dy(), sb.Dx(), sb.Dy()).Add(b.Min)
	// The scaler clips the parts of the target rectangle that fall outside
	// the surface.
	xdraw.ApproxBiLinear.Scale(dst, target, src, sb, xdraw.Src, nil)
}
