package labeller

import (
	"sort"

	"github.com/mhwtrack/trackcore/internal/disjointset"
	"github.com/mhwtrack/trackcore/internal/grid"
)

// Config3D configures the alternative 3-D (time-as-a-dimension) labeller
// of §4.1's "Alternative 3-D mode". It shares MinPix and Connectivity
// with the 2-D labeller's Config, plus a morphological closing radius.
type Config3D struct {
	Config
	// CloseOpenRadius is the number of grid-step dilation/erosion passes
	// applied per time-slice (close then open) before labelling. Zero
	// disables the filter.
	CloseOpenRadius int
}

// DefaultConfig3D returns Config3D with the 2-D labeller defaults and the
// morphological filter disabled.
func DefaultConfig3D() Config3D {
	return Config3D{Config: DefaultConfig(), CloseOpenRadius: 0}
}

// Component3D is one connected component of a stacked time x space mask:
// the list of (day, cells) pairs contributed by each day it touches, in
// increasing day order. It carries no split/merge annotations, matching
// §4.1's description of the 3-D alternative.
type Component3D struct {
	ID   int
	Days []int
	// Cells[k] are the member cells found on Days[k].
	Cells [][]grid.CellID
}

// Label3D runs 3-D (time x face x i x j) connected-component labelling
// over a sequence of per-day masks, treating consecutive days as adjacent
// along the time axis in addition to the declared spatial topology. Each
// resulting component is a Component3D; there is no overlap-based linking
// step, since temporal connectivity is established directly by the 3-D
// scan.
func Label3D(days []*DayMask, cfg Config3D) ([]Component3D, error) {
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	filtered := make([]*DayMask, len(days))
	for t, m := range days {
		filtered[t] = closeOpen(m, cfg.CloseOpenRadius)
	}

	// Assign one global label per active (t, face, i, j) cell, offset per
	// day and face, mirroring the 2-D labeller's offset/local-label split
	// but with time folded in as an outer loop.
	type key struct {
		t, f, i, j int
	}
	globalID := make(map[key]int)
	var cellOf []key
	for t, m := range filtered {
		for f := 0; f < m.Grid.NumFaces(); f++ {
			shape := m.Grid.FaceShape(f)
			for i := 1; i <= shape.Nx; i++ {
				for j := 1; j <= shape.Ny; j++ {
					if !m.Get(f, i, j) {
						continue
					}
					k := key{t, f, i, j}
					globalID[k] = len(cellOf)
					cellOf = append(cellOf, k)
				}
			}
		}
	}
	if len(cellOf) == 0 {
		return nil, nil
	}

	forest := disjointset.New(len(cellOf))
	offsets := cfg.Connectivity.offsets()
	for idx, k := range cellOf {
		m := filtered[k.t]
		// Spatial neighbours within the same day.
		for _, off := range offsets {
			n, ok := m.Grid.Neighbor(grid.CellID{Face: k.f, I: k.i, J: k.j}, off)
			if !ok || !m.Get(n.Face, n.I, n.J) {
				continue
			}
			if nIdx, ok := globalID[key{k.t, n.Face, n.I, n.J}]; ok {
				forest.Union(idx, nIdx)
			}
		}
		// Temporal neighbour: same cell, next day (time is the third
		// connectivity dimension).
		if k.t+1 < len(filtered) {
			next := filtered[k.t+1]
			if next.Get(k.f, k.i, k.j) {
				if nIdx, ok := globalID[key{k.t + 1, k.f, k.i, k.j}]; ok {
					forest.Union(idx, nIdx)
				}
			}
		}
	}

	buckets := make(map[int][]int)
	for idx := range cellOf {
		root := forest.Find(idx)
		buckets[root] = append(buckets[root], idx)
	}

	var components []Component3D
	for _, members := range buckets {
		if len(members) < cfg.MinPix {
			continue
		}
		byDay := make(map[int][]grid.CellID)
		for _, idx := range members {
			k := cellOf[idx]
			byDay[k.t] = append(byDay[k.t], grid.CellID{Face: k.f, I: k.i, J: k.j})
		}
		days := make([]int, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Ints(days)
		cells := make([][]grid.CellID, len(days))
		for i, d := range days {
			cs := byDay[d]
			sort.Slice(cs, func(a, b int) bool { return cellLess(cs[a], cs[b]) })
			cells[i] = cs
		}
		components = append(components, Component3D{Days: days, Cells: cells})
	}
	sort.Slice(components, func(a, b int) bool {
		if components[a].Days[0] != components[b].Days[0] {
			return components[a].Days[0] < components[b].Days[0]
		}
		return cellLess(components[a].Cells[0][0], components[b].Cells[0][0])
	})
	for i := range components {
		components[i].ID = i
	}
	return components, nil
}

// closeOpen applies a morphological closing (dilate then erode) followed
// by an opening (erode then dilate), each radius-many grid steps, to
// suppress single-cell noise and bridge small gaps before 3-D labelling.
// radius == 0 returns m unchanged.
func closeOpen(m *DayMask, radius int) *DayMask {
	if radius <= 0 {
		return m
	}
	closed := m
	for i := 0; i < radius; i++ {
		closed = dilate(closed)
	}
	for i := 0; i < radius; i++ {
		closed = erode(closed)
	}
	opened := closed
	for i := 0; i < radius; i++ {
		opened = erode(opened)
	}
	for i := 0; i < radius; i++ {
		opened = dilate(opened)
	}
	return opened
}

func dilate(m *DayMask) *DayMask {
	out := NewDayMask(m.Grid)
	for f := 0; f < m.Grid.NumFaces(); f++ {
		shape := m.Grid.FaceShape(f)
		for i := 1; i <= shape.Nx; i++ {
			for j := 1; j <= shape.Ny; j++ {
				if m.Get(f, i, j) {
					out.Set(f, i, j, true)
					continue
				}
				for _, off := range grid.Offsets8 {
					n, ok := m.Grid.Neighbor(grid.CellID{Face: f, I: i, J: j}, off)
					if ok && m.Get(n.Face, n.I, n.J) {
						out.Set(f, i, j, true)
						break
					}
				}
			}
		}
	}
	return out
}

func erode(m *DayMask) *DayMask {
	out := NewDayMask(m.Grid)
	for f := 0; f < m.Grid.NumFaces(); f++ {
		shape := m.Grid.FaceShape(f)
		for i := 1; i <= shape.Nx; i++ {
			for j := 1; j <= shape.Ny; j++ {
				if !m.Get(f, i, j) {
					continue
				}
				keep := true
				for _, off := range grid.Offsets8 {
					n, ok := m.Grid.Neighbor(grid.CellID{Face: f, I: i, J: j}, off)
					if !ok || !m.Get(n.Face, n.I, n.J) {
						keep = false
						break
					}
				}
				out.Set(f, i, j, keep)
			}
		}
	}
	return out
}
