package tracker

import (
	"context"
	"testing"

	"github.com/mhwtrack/trackcore/internal/grid"
	"github.com/mhwtrack/trackcore/internal/labeller"
)

func mkCells(ids ...int) []grid.CellID {
	out := make([]grid.CellID, len(ids))
	for i, id := range ids {
		out[i] = grid.CellID{Face: 0, I: id, J: 1}
	}
	return out
}

func mkObj(id int, cells []grid.CellID) labeller.Object {
	return labeller.Object{ID: id, Cells: cells}
}

func idRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// TestStraightContinuation reproduces seed scenario 2: an identical
// object on three consecutive days yields one track with no splits.
func TestStraightContinuation(t *testing.T) {
	block := mkCells(idRange(100, 109)...)
	days := []labeller.DayObjects{
		{mkObj(0, block)},
		{mkObj(0, block)},
		{mkObj(0, block)},
	}

	ts, err := Run(context.Background(), days, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ts.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(ts.Tracks))
	}
	tr := ts.Tracks[0]
	if got := tr.Days(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("expected days [1 2 3], got %v", got)
	}
	if len(tr.SplitDays) != 0 {
		t.Fatalf("expected no splits, got %v", tr.SplitDays)
	}
}

// TestSplit reproduces the split behaviour of seed scenario 3: a track
// whose object is later matched by two children on the same day records
// a split and continues attached to their union.
func TestSplit(t *testing.T) {
	day1 := labeller.DayObjects{mkObj(0, mkCells(idRange(1, 10)...))}
	day2 := labeller.DayObjects{
		mkObj(0, mkCells(idRange(1, 6)...)),
		mkObj(1, mkCells(idRange(7, 12)...)),
	}

	ts, err := Run(context.Background(), []labeller.DayObjects{day1, day2}, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ts.Tracks) != 1 {
		t.Fatalf("expected 1 track (children absorbed by split), got %d", len(ts.Tracks))
	}
	tr := ts.Tracks[0]
	if len(tr.SplitDays) != 1 || tr.SplitDays[0] != 2 {
		t.Fatalf("expected a split recorded on day 2, got %v", tr.SplitDays)
	}
	if tr.SplitNum[0] != 2 {
		t.Fatalf("expected split_num=2, got %d", tr.SplitNum[0])
	}
	obj, ok := tr.ObjectOn(2)
	if !ok || len(obj) != 12 {
		t.Fatalf("expected day-2 object to be the 12-cell union, got %d cells (ok=%v)", len(obj), ok)
	}
}

// TestMerge reproduces seed scenario 4: two tracks that both reach the
// same single child on the same day are resolved by archiving all but
// the first (in search order) as completed-on-that-day.
func TestMerge(t *testing.T) {
	day1 := labeller.DayObjects{
		mkObj(0, mkCells(idRange(1, 5)...)),
		mkObj(1, mkCells(idRange(20, 25)...)),
	}
	day2 := labeller.DayObjects{
		mkObj(0, mkCells(idRange(1, 6)...)),
		mkObj(1, mkCells(idRange(20, 26)...)),
	}
	combined := append(mkCells(idRange(1, 6)...), mkCells(idRange(20, 26)...)...)
	day3 := labeller.DayObjects{mkObj(0, combined)}
	day4 := labeller.DayObjects{mkObj(0, append(combined, grid.CellID{Face: 0, I: 99, J: 1}))}

	ts, err := Run(context.Background(), []labeller.DayObjects{day1, day2, day3, day4}, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ts.Tracks) != 2 {
		t.Fatalf("expected 2 tracks (one merged away), got %d", len(ts.Tracks))
	}

	var survivorDays, demotedDays int
	for _, tr := range ts.Tracks {
		if len(tr.History) == 4 {
			survivorDays = len(tr.History)
		} else {
			demotedDays = len(tr.History)
		}
	}
	if survivorDays != 4 {
		t.Fatalf("expected a surviving track spanning all 4 days, got %d", survivorDays)
	}
	if demotedDays != 3 {
		t.Fatalf("expected the merged-away track to stop at day 3, got %d", demotedDays)
	}
}

func TestEmptyDayKillsActiveTracks(t *testing.T) {
	day1 := labeller.DayObjects{mkObj(0, mkCells(idRange(1, 10)...))}
	day2 := labeller.DayObjects{}
	day3 := labeller.DayObjects{mkObj(0, mkCells(idRange(1, 10)...))}

	ts, err := Run(context.Background(), []labeller.DayObjects{day1, day2, day3}, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ts.Tracks) != 2 {
		t.Fatalf("expected 2 tracks (day-1 track dies, day-3 is a new birth), got %d", len(ts.Tracks))
	}
	for _, tr := range ts.Tracks {
		if len(tr.History) != 1 {
			t.Fatalf("expected each track to span exactly 1 day across the empty gap, got %d", len(tr.History))
		}
	}
}

func TestParameterOutOfRange(t *testing.T) {
	_, err := Run(context.Background(), nil, Config{Alpha: 1.5}, nil)
	if err == nil {
		t.Fatal("expected error for alpha out of range")
	}
	if _, ok := err.(*ParameterOutOfRangeError); !ok {
		t.Fatalf("expected *ParameterOutOfRangeError, got %T", err)
	}
}

func TestCancellationArchivesPartialState(t *testing.T) {
	day1 := labeller.DayObjects{mkObj(0, mkCells(idRange(1, 10)...))}
	day2 := labeller.DayObjects{mkObj(0, mkCells(idRange(1, 10)...))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ts, err := Run(ctx, []labeller.DayObjects{day1, day2}, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ts.Tracks) != 0 {
		t.Fatalf("expected a pre-cancelled context to archive nothing before day 1, got %d", len(ts.Tracks))
	}
}

func TestCutOffFilter(t *testing.T) {
	short := &Track{History: []DayObject{{Day: 1}}}
	long := &Track{History: []DayObject{{Day: 1}, {Day: 2}, {Day: 3}}}
	ts := TrackSet{Tracks: []*Track{short, long}}

	filtered := ts.Filter(2)
	if len(filtered.Tracks) != 1 || filtered.Tracks[0] != long {
		t.Fatalf("expected only the long track to survive cut_off=2")
	}

	unfiltered := ts.Filter(0)
	if len(unfiltered.Tracks) != 2 {
		t.Fatalf("expected cut_off=0 to disable filtering")
	}
}
