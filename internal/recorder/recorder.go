// Package recorder muxes the composited frame stream and the narration audio
// into a single WebM container. ffmpeg does the encoding: raw RGBA frames go
// in over stdin, encoded container chunks come back over stdout and are
// accumulated until the compositor signals completion.
package recorder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
)

// RecordingError reports an encoder that failed or could not be initialized.
// It is terminal for the run; no partial output survives it.
type RecordingError struct {
	Err error
	Log string // tail of the encoder's stderr, for diagnostics
}

func (e *RecordingError) Error() string {
	if e.Log != "" {
		return fmt.Sprintf("recording failed: %v (%s)", e.Err, e.Log)
	}
	return fmt.Sprintf("recording failed: %v", e.Err)
}

func (e *RecordingError) Unwrap() error { return e.Err }

// Options parameterizes one recording.
type Options struct {
	AudioPath    string
	Width        int
	Height       int
	FPS          int
	VideoEncoder string // libvpx-vp9 or libvpx
	AudioEncoder string // libopus
	Quality      int    // CRF
}

// Recorder is a single-use muxer: Start, WriteFrame repeatedly, Finalize.
type Recorder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer

	chunks   [][]byte
	readErr  error
	readDone chan struct{}

	frames int
	width  int
	height int
}

// Start launches the encoder. Initialization failure is a RecordingError;
// nothing is written anywhere until the first frame arrives.
func Start(ctx context.Context, opts Options) (*Recorder, error) {
	args := buildArgs(opts)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	r := &Recorder{
		cmd:      cmd,
		readDone: make(chan struct{}),
		width:    opts.Width,
		height:   opts.Height,
	}
	cmd.Stderr = &r.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &RecordingError{Err: err}
	}
	r.stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &RecordingError{Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &RecordingError{Err: err}
	}

	// Chunks are accumulated passively as the encoder produces them and
	// only concatenated on clean completion.
	go func() {
		defer close(r.readDone)
		buf := make([]byte, 64<<10)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				r.chunks = append(r.chunks, chunk)
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				r.readErr = err
				return
			}
		}
	}()

	return r, nil
}

func buildArgs(opts Options) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
		"-i", opts.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", opts.VideoEncoder,
		"-crf", fmt.Sprintf("%d", opts.Quality),
		"-b:v", "0",
		"-pix_fmt", "yuv420p",
		"-c:a", opts.AudioEncoder,
		"-b:a", "128k",
		"-f", "webm",
		"pipe:1",
	}
	return args
}

// WriteFrame streams one raw RGBA frame to the encoder, in call order.
// Implements the compositor's frame sink.
func (r *Recorder) WriteFrame(img *image.RGBA) error {
	if err := r.writeRawRGBA(r.stdin, img); err != nil {
		return &RecordingError{Err: err, Log: r.stderrTail()}
	}
	r.frames++
	return nil
}

func (r *Recorder) writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if bounds.Dx() != r.width || bounds.Dy() != r.height {
		return fmt.Errorf("frame size %dx%d does not match recording %dx%d",
			bounds.Dx(), bounds.Dy(), r.width, r.height)
	}
	// Re-blit when the buffer is not tightly packed at the origin.
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}

// Frames returns how many frames were accepted so far.
func (r *Recorder) Frames() int { return r.frames }

// Finalize closes the frame stream, waits for the encoder to drain and
// returns the complete container. On any encoder failure every accumulated
// chunk is discarded; a partial file is never returned.
func (r *Recorder) Finalize() ([]byte, error) {
	r.stdin.Close()
	<-r.readDone

	if err := r.cmd.Wait(); err != nil {
		r.chunks = nil
		return nil, &RecordingError{Err: err, Log: r.stderrTail()}
	}
	if r.readErr != nil {
		r.chunks = nil
		return nil, &RecordingError{Err: r.readErr, Log: r.stderrTail()}
	}

	out := bytes.Join(r.chunks, nil)
	r.chunks = nil
	if len(out) == 0 {
		return nil, &RecordingError{Err: fmt.Errorf("encoder produced no output"), Log: r.stderrTail()}
	}
	return out, nil
}

// Abort kills the encoder and discards everything accumulated so far.
func (r *Recorder) Abort() {
	r.stdin.Close()
	if r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
	<-r.readDone
	r.cmd.Wait()
	r.chunks = nil
}

func (r *Recorder) stderrTail() string {
	s := strings.TrimSpace(r.stderr.String())
	const tail = 512
	if len(s) > tail {
		s = "..." + s[len(s)-tail:]
	}
	return s
}
