package tracker

import "github.com/mhwtrack/trackcore/internal/grid"

// DayObject is the object a Track is attached to on one day. On a split
// day it is the union of every child component that matched the track
// (§4.2 step 3); on every other day it is a single labeller object's
// cells.
type DayObject struct {
	Day   int
	Cells []grid.CellID
}

// Track is a time-ordered sequence of DayObjects linked by sufficient
// overlap (§4.2a). Days strictly increase while the track is active;
// once archived it never changes again.
type Track struct {
	OriDay   int
	OriOrder int

	History   []DayObject
	SplitDays []int
	SplitNum  []int

	archived bool
}

// LastDay returns the day of the most recent object attached to the
// track.
func (t *Track) LastDay() int {
	return t.History[len(t.History)-1].Day
}

// LastCells returns the cells of the most recent object attached to the
// track — the operand the tracker scores new candidates against.
func (t *Track) LastCells() []grid.CellID {
	return t.History[len(t.History)-1].Cells
}

// Days returns the track's day sequence.
func (t *Track) Days() []int {
	days := make([]int, len(t.History))
	for i, h := range t.History {
		days[i] = h.Day
	}
	return days
}

// ObjectOn returns the cells attached to the track on the given day, and
// whether the track has an entry for that day.
func (t *Track) ObjectOn(day int) ([]grid.CellID, bool) {
	for _, h := range t.History {
		if h.Day == day {
			return h.Cells, true
		}
	}
	return nil, false
}

// Archived reports whether the track has transitioned out of the
// tracker's active search set.
func (t *Track) Archived() bool { return t.archived }

// TrackSet is the final archive produced by a tracker run. Tracks are
// independent of one another; archive order is implementation-defined
// and must not be relied upon (§5).
type TrackSet struct {
	Tracks []*Track
}

// Filter returns the subset of tracks whose duration (day count) is at
// least minDuration — the supplemented cut_off post-hoc filter named but
// left unspecified by §4.2/§6. minDuration <= 0 returns ts unchanged.
func (ts TrackSet) Filter(minDuration int) TrackSet {
	if minDuration <= 0 {
		return ts
	}
	out := TrackSet{Tracks: make([]*Track, 0, len(ts.Tracks))}
	for _, tr := range ts.Tracks {
		if len(tr.History) >= minDuration {
			out.Tracks = append(out.Tracks, tr)
		}
	}
	return out
}
