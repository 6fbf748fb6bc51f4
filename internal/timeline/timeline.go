// Package timeline maps playback time onto the visual track. The audio
// duration is divided into equal slots, one per visual asset, and the active
// asset is a pure function of time.
package timeline

import (
	"errors"
	"math"
)

// ErrNoVisuals is returned when scheduling is attempted with an empty visual
// list.
var ErrNoVisuals = errors.New("timeline: no visual assets to schedule")

// ActiveIndex returns the index of the visual active at time t for n visuals
// spread uniformly over total seconds. The result is clamped to n-1 so the
// final slot absorbs any tail beyond n*slot caused by floating-point drift.
func ActiveIndex(t float64, n int, total float64) (int, error) {
	if n <= 0 {
		return 0, ErrNoVisuals
	}
	if t <= 0 || total <= 0 {
		return 0, nil
	}

	slot := total / float64(n)
	idx := int(math.Floor(t / slot))
	if idx > n-1 {
		idx = n - 1
	}
	return idx, nil
}

// SlotDuration returns the length in seconds of one visual slot.
func SlotDuration(n int, total float64) (float64, error) {
	if n <= 0 {
		return 0, ErrNoVisuals
	}
	return total / float64(n), nil
}
