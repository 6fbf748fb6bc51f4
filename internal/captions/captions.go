package captions

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ErrInvalidDuration is returned when the narration audio length is not a
// finite positive number of seconds.
var ErrInvalidDuration = errors.New("captions: audio duration must be finite and positive")

// Caption is a single timed narration segment. Start/End are offsets in
// seconds from the beginning of the audio track, 0 <= Start < End.
type Caption struct {
	Text  string
	Start float64
	End   float64
}

var narrationRe = regexp.MustCompile(`"([^"]*)"`)

// ExtractNarration pulls the voiced text out of a script. Only double-quoted
// spans are narration; section labels and stage directions outside quotes are
// discarded. Spans are joined with a single space.
func ExtractNarration(script string) string {
	matches := narrationRe.FindAllStringSubmatch(script, -1)
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] != "" {
			parts = append(parts, m[1])
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// SplitSentences splits narration text on sentence-terminal punctuation
// (. ! ?) immediately followed by whitespace. The terminal mark stays attached
// to the preceding sentence. Text with no boundary comes back as a single
// sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if !isTerminal(runes[i]) {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Estimate derives caption timing for a script against an audio track of the
// given duration. Each sentence gets a duration proportional to its character
// count and sentences are laid back-to-back from t=0.
//
// This is an approximation, not forced alignment: it assumes a constant
// speaking rate across the whole narration. Because inter-sentence separators
// are counted toward the overall rate but belong to no sentence, the final
// caption's End drifts slightly short of the audio duration. That drift is
// accepted, not corrected.
func Estimate(script string, audioDuration float64) ([]Caption, error) {
	if math.IsNaN(audioDuration) || math.IsInf(audioDuration, 0) || audioDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	narration := ExtractNarration(script)
	totalChars := len([]rune(narration))
	if totalChars == 0 {
		return nil, nil
	}

	charsPerSecond := float64(totalChars) / audioDuration

	sentences := SplitSentences(narration)
	caps := make([]Caption, 0, len(sentences))
	cursor := 0.0
	for _, s := range sentences {
		d := float64(len([]rune(s))) / charsPerSecond
		caps = append(caps, Caption{
			Text:  s,
			Start: cursor,
			End:   cursor + d,
		})
		cursor += d
	}
	return caps, nil
}

// ActiveAt resolves the caption covering time t, scanning for the first entry
// with Start <= t < End. The sequence is short and ordered, so a linear scan
// is enough.
func ActiveAt(caps []Caption, t float64) (Caption, bool) {
	for _, c := range caps {
		if c.Start <= t && t < c.End {
			return c, true
		}
	}
	return Caption{}, false
}
