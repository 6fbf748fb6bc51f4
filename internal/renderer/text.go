package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	captionFontSize  = 36.0
	captionWidthFrac = 0.9 // lines wrap at 90% of surface width
	captionBottomPad = 48  // gap between the lowest box and the surface edge
	boxPadX          = 16
	boxPadY          = 8
	lineGap          = 6
	boxAlpha         = 160 // semi-transparent dark background
)

// TextRenderer measures and draws caption text. Line breaks are decided from
// measured pixel widths, not character counts.
type TextRenderer struct {
	face font.Face
}

// NewTextRenderer builds a text renderer. An empty fontPath selects the
// embedded Go Regular face; otherwise the TTF at fontPath is used.
func NewTextRenderer(fontPath string) (*TextRenderer, error) {
	if fontPath == "" {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse embedded font: %w", err)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    captionFontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("build embedded face: %w", err)
		}
		return &TextRenderer{face: face}, nil
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", fontPath, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", fontPath, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    captionFontSize,
		Hinting: font.HintingFull,
	})
	return &TextRenderer{face: face}, nil
}

// Measure returns the advance width of s in pixels.
func (tr *TextRenderer) Measure(s string) int {
	return font.MeasureString(tr.face, s).Ceil()
}

// wrap breaks text greedily into lines whose measured width stays within
// maxWidth. A single word wider than maxWidth gets a line of its own.
func (tr *TextRenderer) wrap(text string, maxWidth int) []string {
	words := strings.Fields(text)
	var lines []string
	current := ""

	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if current == "" || tr.Measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// DrawCaption draws text bottom-anchored on dst: the last wrapped line sits
// nearest the bottom, each line over a padded translucent box. alpha in [0,1]
// scales both box and text for the fade-in.
func (tr *TextRenderer) DrawCaption(dst *image.RGBA, text string, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	bounds := dst.Bounds()
	maxW := int(captionWidthFrac * float64(bounds.Dx()))
	lines := tr.wrap(text, maxW)

	m := tr.face.Metrics()
	ascent := m.Ascent.Ceil()
	boxH := ascent + m.Descent.Ceil() + 2*boxPadY

	boxCol := image.NewUniform(color.NRGBA{0, 0, 0, uint8(boxAlpha * alpha)})
	textCol := image.NewUniform(color.NRGBA{255, 255, 255, uint8(255 * alpha)})

	y := bounds.Max.Y - captionBottomPad
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		boxW := tr.Measure(line) + 2*boxPadX
		x0 := bounds.Min.X + (bounds.Dx()-boxW)/2

		box := image.Rect(x0, y-boxH, x0+boxW, y)
		draw.Draw(dst, box, boxCol, image.Point{}, draw.Over)

		d := &font.Drawer{
			Dst:  dst,
			Src:  textCol,
			Face: tr.face,
			Dot:  fixed.P(x0+boxPadX, y-boxH+boxPadY+ascent),
		}
		d.DrawString(line)

		y -= boxH + lineGap
	}
}

// DrawTitle draws a static centered title card. Used when no captions could
// be derived from the script.
func (tr *TextRenderer) DrawTitle(dst *image.RGBA, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}

	bounds := dst.Bounds()
	maxW := int(captionWidthFrac * float64(bounds.Dx()))
	lines := tr.wrap(title, maxW)

	m := tr.face.Metrics()
	ascent := m.Ascent.Ceil()
	boxH := ascent + m.Descent.Ceil() + 2*boxPadY
	blockH := len(lines)*boxH + (len(lines)-1)*lineGap

	boxCol := image.NewUniform(color.NRGBA{0, 0, 0, boxAlpha})
	textCol := image.NewUniform(color.NRGBA{255, 255, 255, 255})

	y := bounds.Min.Y + (bounds.Dy()-blockH)/2 + boxH
	for _, line := range lines {
		boxW := tr.Measure(line) + 2*boxPadX
		x0 := bounds.Min.X + (bounds.Dx()-boxW)/2

		box := image.Rect(x0, y-boxH, x0+boxW, y)
		draw.Draw(dst, box, boxCol, image.Point{}, draw.Over)

		d := &font.Drawer{
			Dst:  dst,
			Src:  textCol,
			Face: tr.face,
			Dot:  fixed.P(x0+boxPadX, y-boxH+boxPadY+ascent),
		}
		d.DrawString(line)

		y += boxH + lineGap
	}
}
