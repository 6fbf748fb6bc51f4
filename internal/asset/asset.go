// Package asset loads and owns the visual inputs of a synthesis run. A visual
// is one of exactly two kinds, a still image or a short motion clip, behind a
// common playback interface. Kind is always declared by the caller, never
// sniffed from content.
package asset

import (
	"image"

	// Registers the decoders for the still-image formats the core accepts.
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Kind is the declared media category of a visual.
type Kind int

const (
	KindImage Kind = iota
	KindClip
)

func (k Kind) String() string {
	if k == KindClip {
		return "clip"
	}
	return "image"
}

// Spec names a visual to be loaded.
type Spec struct {
	Name string
	Path string
	Kind Kind
}

// Visual is a loaded asset the compositor can draw. Frame never advances
// playback on its own; the compositor calls Advance once per tick. Start and
// Pause implement the slot-transition contract: entering a slot starts
// playback from the beginning, leaving it pauses and rewinds so a later
// scheduling restarts cleanly. Both are no-ops for stills.
type Visual interface {
	Name() string
	Kind() Kind
	Bounds() image.Rectangle
	Frame() image.Image
	Advance()
	Start()
	Pause()
	Close()
}

// Still is a static image asset. Playback operations are no-ops.
type Still struct {
	name string
	img  image.Image
}

// LoadStill decodes a still image from disk.
func LoadStill(name, path string) (*Still, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Asset: name, Err: err}
	}
	return &Still{name: name, img: img}, nil
}

func (s *Still) Name() string            { return s.name }
func (s *Still) Kind() Kind              { return KindImage }
func (s *Still) Bounds() image.Rectangle { return s.img.Bounds() }
func (s *Still) Frame() image.Image      { return s.img }
func (s *Still) Advance()                {}
func (s *Still) Start()                  {}
func (s *Still) Pause()                  {}
func (s *Still) Close()                  {}
