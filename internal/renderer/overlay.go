package renderer

import (
	"fmt"
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrSize   = 96
	qrMargin = 24
)

// newQRImage renders a channel-link QR code for the corner watermark.
func newQRImage(url string) (image.Image, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr for %q: %w", url, err)
	}
	q.DisableBorder = true
	return q.Image(qrSize), nil
}

// drawQR composites the watermark into the top-right corner of dst.
func drawQR(dst *image.RGBA, qr image.Image) {
	b := dst.Bounds()
	pos := image.Pt(b.Max.X-qrSize-qrMargin, b.Min.Y+qrMargin)
	draw.Draw(dst, image.Rectangle{Min: pos, Max: pos.Add(image.Pt(qrSize, qrSize))},
		qr, qr.Bounds().Min, draw.Over)
}
