package recorder

import (
	"bytes"
	"image"
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	args := buildArgs(Options{
		AudioPath:    "voice.wav",
		Width:        1280,
		Height:       720,
		FPS:          30,
		VideoEncoder: "libvpx-vp9",
		AudioEncoder: "libopus",
		Quality:      31,
	})
	joined := strings.Join(args, " ")

	checks := []string{
		"-f rawvideo",
		"-pixel_format rgba",
		"-video_size 1280x720",
		"-framerate 30",
		"-i - -i voice.wav",
		"-map 0:v:0 -map 1:a:0", // exactly one video and one audio track
		"-c:v libvpx-vp9",
		"-crf 31",
		"-c:a libopus",
		"-f webm pipe:1",
	}
	for _, c := range checks {
		if !strings.Contains(joined, c) {
			t.Errorf("Args missing %q: %s", c, joined)
		}
	}
}

func TestWriteRawRGBAPacked(t *testing.T) {
	r := &Recorder{width: 4, height: 3}
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := r.writeRawRGBA(&buf, img); err != nil {
		t.Fatalf("writeRawRGBA: %v", err)
	}
	if buf.Len() != 4*3*4 {
		t.Errorf("Expected %d bytes, got %d", 4*3*4, buf.Len())
	}
	if !bytes.Equal(buf.Bytes(), img.Pix) {
		t.Error("Packed frame must be written verbatim")
	}
}

func TestWriteRawRGBAOffsetRect(t *testing.T) {
	// A subimage with a non-zero origin must be re-blitted, not written raw.
	r := &Recorder{width: 2, height: 2}
	base := image.NewRGBA(image.Rect(0, 0, 8, 8))
	sub := base.SubImage(image.Rect(3, 3, 5, 5)).(*image.RGBA)

	var buf bytes.Buffer
	if err := r.writeRawRGBA(&buf, sub); err != nil {
		t.Fatalf("writeRawRGBA: %v", err)
	}
	if buf.Len() != 2*2*4 {
		t.Errorf("Expected %d bytes, got %d", 2*2*4, buf.Len())
	}
}

func TestWriteRawRGBASizeMismatch(t *testing.T) {
	r := &Recorder{width: 1280, height: 720}
	img := image.NewRGBA(image.Rect(0, 0, 640, 360))

	var buf bytes.Buffer
	if err := r.writeRawRGBA(&buf, img); err == nil {
		t.Error("Expected size mismatch error")
	}
}

func TestRecordingErrorFormatting(t *testing.T) {
	e := &RecordingError{Err: bytes.ErrTooLarge, Log: "encoder log tail"}
	if !strings.Contains(e.Error(), "encoder log tail") {
		t.Errorf("Error must carry the encoder log: %s", e.Error())
	}
	if e.Unwrap() != bytes.ErrTooLarge {
		t.Error("Unwrap must expose the cause")
	}
}
