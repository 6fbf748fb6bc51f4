package asset

import (
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jerin370/YtAutomator/internal/system"
)

// Decoded clip frames may not claim more than this share of currently
// available memory.
const clipMemoryShare = 0.5

// Clip is a short motion-clip asset. All frames are decoded up front at the
// render rate, so playback during compositing is just an index walk: Start
// rewinds to frame zero and begins advancing, Pause stops and rewinds. A clip
// shorter than its slot holds its last frame.
type Clip struct {
	name    string
	frames  []*image.RGBA
	pos     int
	playing bool
}

// LoadClip extracts the clip's frames via ffmpeg at the given frame rate.
func LoadClip(ctx context.Context, name, path string, fps int) (*Clip, error) {
	w, h, dur, err := probeClip(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := checkClipMemory(name, w, h, dur, fps); err != nil {
		return nil, err
	}

	frames, err := decodeFrames(ctx, path, w, h, fps)
	if err != nil {
		return nil, &DecodeError{Asset: name, Err: err}
	}
	if len(frames) == 0 {
		return nil, &DecodeError{Asset: name, Err: fmt.Errorf("no frames decoded")}
	}

	return &Clip{name: name, frames: frames}, nil
}

func probeClip(ctx context.Context, path string) (w, h int, dur float64, err error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("ffprobe %s: %v (%s)", path, err, strings.TrimSpace(string(out)))
	}

	// Three lines: width, height, duration.
	if _, err := fmt.Sscanf(string(out), "%d\n%d\n%f", &w, &h, &dur); err != nil {
		return 0, 0, 0, fmt.Errorf("ffprobe %s: unparseable output %q", path, string(out))
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, fmt.Errorf("ffprobe %s: bad dimensions %dx%d", path, w, h)
	}
	return w, h, dur, nil
}

// checkClipMemory refuses to buffer a clip whose decoded frames would not fit
// comfortably in available memory.
func checkClipMemory(name string, w, h int, dur float64, fps int) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		// Memory stats are a guard, not a requirement.
		return nil
	}

	estimated := uint64(w) * uint64(h) * 4 * uint64(dur*float64(fps)+1)
	if float64(estimated) > float64(vm.Available)*clipMemoryShare {
		return &DecodeError{
			Asset: name,
			Err: fmt.Errorf("decoded frames need ~%d MiB, only %d MiB available",
				estimated/(1<<20), vm.Available/(1<<20)),
		}
	}
	return nil
}

func decodeFrames(ctx context.Context, path string, w, h, fps int) ([]*image.RGBA, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-r", fmt.Sprintf("%d", fps),
		"pipe:1",
	)
	var errBuf strings.Builder
	cmd.Stderr = &errBuf

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}

	rect := image.Rect(0, 0, w, h)
	var frames []*image.RGBA
	for {
		frame := system.GetImage(rect)
		_, err := io.ReadFull(stdout, frame.Pix)
		if err == io.EOF {
			system.PutImage(frame)
			break
		}
		if err == io.ErrUnexpectedEOF {
			// Trailing partial frame, drop it.
			system.PutImage(frame)
			break
		}
		if err != nil {
			system.PutImage(frame)
			cmd.Process.Kill()
			cmd.Wait()
			return nil, fmt.Errorf("read frame %d: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}

	if err := cmd.Wait(); err != nil {
		for _, f := range frames {
			system.PutImage(f)
		}
		return nil, fmt.Errorf("ffmpeg: %v (%s)", err, strings.TrimSpace(errBuf.String()))
	}
	return frames, nil
}

func (c *Clip) Name() string { return c.name }
func (c *Clip) Kind() Kind   { return KindClip }

func (c *Clip) Bounds() image.Rectangle { return c.frames[0].Bounds() }

func (c *Clip) Frame() image.Image { return c.frames[c.pos] }

// Advance moves playback one frame forward when playing, holding the last
// frame once the clip is exhausted.
func (c *Clip) Advance() {
	if c.playing && c.pos < len(c.frames)-1 {
		c.pos++
	}
}

// Start begins playback from the clip's own beginning.
func (c *Clip) Start() {
	c.pos = 0
	c.playing = true
}

// Pause stops playback and rewinds, so a later scheduling restarts cleanly.
func (c *Clip) Pause() {
	c.playing = false
	c.pos = 0
}

func (c *Clip) Close() {
	for _, f := range c.frames {
		system.PutImage(f)
	}
	c.frames = nil
}
