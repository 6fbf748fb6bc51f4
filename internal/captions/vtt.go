package captions

import (
	"fmt"
	"os"
	"strings"
)

// WriteVTT writes the caption sequence as a WebVTT sidecar file, the format
// upload targets accept next to the video itself.
func WriteVTT(caps []Caption, path string) error {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	for i, c := range caps {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, vttTimestamp(c.Start), vttTimestamp(c.End), c.Text)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

func vttTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
