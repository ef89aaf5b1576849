// Package tracker links per-day Objects into Tracks that may split and
// merge, using only the overlap kernel (package overlap) and opaque
// per-object cell sets — it has no knowledge of the grid topology that
// produced them.
package tracker

import (
	"context"

	"github.com/mhwtrack/trackcore/internal/grid"
	"github.com/mhwtrack/trackcore/internal/labeller"
	"github.com/mhwtrack/trackcore/internal/overlap"
)

// Progress is called once per processed day, with the 1-based day number
// and the total day count, so a caller can surface progress without this
// package importing a logging library (§10's ambient-stack convention:
// callbacks instead of a logger, matching the teacher's LoadOptions).
type Progress func(day, total int)

// Run links a sequence of per-day object lists (DayObjects[i] is day
// i+1) into a TrackSet, following the per-day procedure of §4.2.
//
// ctx is checked at day boundaries only (§5: cancellation is cooperative
// at day boundaries); a cancelled context returns the TrackSet as it
// stands at the point of cancellation — everything already archived,
// plus the still-active search set archived early — and a nil error.
func Run(ctx context.Context, days []labeller.DayObjects, cfg Config, progress Progress) (TrackSet, error) {
	if err := cfg.Validate(); err != nil {
		return TrackSet{}, err
	}

	var search []*Track
	var archive []*Track
	total := len(days)

	for t := 1; t <= total; t++ {
		if err := ctx.Err(); err != nil {
			archive = append(archive, search...)
			search = nil
			break
		}

		dayObjs := days[t-1]

		if t == 1 {
			search = birth(dayObjs, t, nil)
			if progress != nil {
				progress(t, total)
			}
			continue
		}

		search, archive = step(search, archive, dayObjs, t, cfg.Alpha)

		if progress != nil {
			progress(t, total)
		}
	}

	// End of input: every remaining active track is archived.
	archive = append(archive, search...)
	for _, tr := range archive {
		tr.archived = true
	}

	return TrackSet{Tracks: archive}, nil
}

// claim records that track k's matched-index set I included child index
// idx, in the iteration order tracks were scored.
type claim struct {
	track *Track
	idx   int
}

// step runs one day's worth of scoring, matching, split, merge, birth and
// death (§4.2 steps 2-6) and returns the updated search and archive
// sets.
func step(search, archive []*Track, dayObjs labeller.DayObjects, day int, alpha float64) ([]*Track, []*Track) {
	used := make([]int, len(dayObjs))
	claims := make([]claim, 0, len(dayObjs))
	pending := make(map[*Track]DayObject, len(search))

	// Step 2+3: overlap scoring and per-track matching. search order is
	// the iteration order the merge policy (step 4) breaks ties with.
	for _, tr := range search {
		a := tr.LastCells()
		var matched []int
		for k, obj := range dayObjs {
			if overlap.Score(a, obj.Cells) >= alpha {
				matched = append(matched, k)
			}
		}
		switch len(matched) {
		case 0:
			// Track does not continue; it will die at this step's end.
		case 1:
			used[matched[0]]++
			claims = append(claims, claim{tr, matched[0]})
			pending[tr] = DayObject{Day: day, Cells: dayObjs[matched[0]].Cells}
		default:
			tr.SplitDays = append(tr.SplitDays, day)
			tr.SplitNum = append(tr.SplitNum, len(matched))
			union := unionCells(dayObjs, matched)
			for _, k := range matched {
				used[k]++
				claims = append(claims, claim{tr, k})
			}
			pending[tr] = DayObject{Day: day, Cells: union}
		}
	}

	// Step 4: merge handling. For every child index with used[k] > 1,
	// the first claimant (by iteration/search order) survives and stays
	// in search; every other claimant is archived as completed-on-day-t.
	survivorOf := make(map[int]*Track)
	demoted := make(map[*Track]bool)
	for _, c := range claims {
		if used[c.idx] <= 1 {
			continue
		}
		if _, ok := survivorOf[c.idx]; !ok {
			survivorOf[c.idx] = c.track
			continue
		}
		if survivorOf[c.idx] != c.track {
			demoted[c.track] = true
		}
	}

	var nextSearch []*Track
	for _, tr := range search {
		obj, continued := pending[tr]
		if !continued {
			tr.archived = true
			archive = append(archive, tr)
			continue
		}
		tr.History = append(tr.History, obj)
		if demoted[tr] {
			tr.archived = true
			archive = append(archive, tr)
			continue
		}
		nextSearch = append(nextSearch, tr)
	}

	// Step 5: birth. Every object nobody claimed seeds a new track.
	nextSearch = append(nextSearch, birth(dayObjs, day, used)...)

	return nextSearch, archive
}

// birth seeds a new Track for every DayObjects index with used[k] == 0
// (or for every index, on day 1, when used is nil).
func birth(dayObjs labeller.DayObjects, day int, used []int) []*Track {
	var born []*Track
	for k, obj := range dayObjs {
		if used != nil && used[k] != 0 {
			continue
		}
		born = append(born, &Track{
			OriDay:   day,
			OriOrder: k + 1,
			History:  []DayObject{{Day: day, Cells: obj.Cells}},
		})
	}
	return born
}

func unionCells(dayObjs labeller.DayObjects, indices []int) []grid.CellID {
	n := 0
	for _, k := range indices {
		n += len(dayObjs[k].Cells)
	}
	out := make([]grid.CellID, 0, n)
	for _, k := range indices {
		out = append(out, dayObjs[k].Cells...)
	}
	return out
}
