package asset

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStill(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "a.png", 64, 32)

	s, err := LoadStill("a", path)
	if err != nil {
		t.Fatalf("LoadStill: %v", err)
	}
	defer s.Close()

	if s.Kind() != KindImage {
		t.Errorf("Expected KindImage, got %v", s.Kind())
	}
	if b := s.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("Bounds mismatch: %v", b)
	}
	// Playback operations are no-ops on stills.
	s.Start()
	s.Advance()
	s.Pause()
	if s.Frame() == nil {
		t.Error("Frame must stay drawable")
	}
}

func TestLoadStillDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadStill("garbage", path)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Expected DecodeError, got %v", err)
	}
	if de.Asset != "garbage" {
		t.Errorf("DecodeError must name the asset, got %q", de.Asset)
	}
}

func TestLoadAllJoinsAndNamesFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeTestPNG(t, dir, "good.png", 16, 16)

	specs := []Spec{
		{Name: "good", Path: good, Kind: KindImage},
		{Name: "missing", Path: filepath.Join(dir, "nope.png"), Kind: KindImage},
	}

	_, err := LoadAll(context.Background(), specs, 30)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected LoadError, got %v", err)
	}
	if le.Asset != "missing" {
		t.Errorf("LoadError must name the failing asset, got %q", le.Asset)
	}
}

func TestLoadAllSuccess(t *testing.T) {
	dir := t.TempDir()
	specs := []Spec{
		{Name: "a", Path: writeTestPNG(t, dir, "a.png", 8, 8), Kind: KindImage},
		{Name: "b", Path: writeTestPNG(t, dir, "b.png", 8, 8), Kind: KindImage},
	}

	visuals, err := LoadAll(context.Background(), specs, 30)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	defer CloseAll(visuals)

	if len(visuals) != 2 {
		t.Fatalf("Expected 2 visuals, got %d", len(visuals))
	}
	for i, v := range visuals {
		if v == nil {
			t.Errorf("Visual %d is nil after successful join", i)
		}
	}
}

func TestClipPlaybackContract(t *testing.T) {
	frames := []*image.RGBA{
		image.NewRGBA(image.Rect(0, 0, 4, 4)),
		image.NewRGBA(image.Rect(0, 0, 4, 4)),
		image.NewRGBA(image.Rect(0, 0, 4, 4)),
	}
	c := &Clip{name: "c", frames: frames}

	// Entering a slot starts from the clip's own beginning.
	c.Start()
	if c.Frame() != frames[0] {
		t.Error("Start must rewind to frame 0")
	}

	c.Advance()
	c.Advance()
	if c.Frame() != frames[2] {
		t.Error("Advance must walk frames while playing")
	}

	// Exhausted clips hold their last frame.
	c.Advance()
	if c.Frame() != frames[2] {
		t.Error("Exhausted clip must hold its last frame")
	}

	// Leaving a slot pauses and rewinds, so re-scheduling restarts cleanly.
	c.Pause()
	if c.Frame() != frames[0] {
		t.Error("Pause must rewind to frame 0")
	}
	c.Advance()
	if c.Frame() != frames[0] {
		t.Error("Paused clip must not advance")
	}

	c.Start()
	c.Advance()
	if c.Frame() != frames[1] {
		t.Error("Restarted clip must play from the beginning")
	}
}
