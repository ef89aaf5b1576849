// Package labeller turns a per-day boolean mask into a list of spatially
// connected Objects, using per-face scanline labelling followed by a
// disjoint-set merge pass across declared boundaries between different
// faces. A seam that joins a face to itself (the cyclic-longitude wrap
// column) is resolved inside that face's scanline pass, since the
// neighbours across it lie on the same face.
package labeller

import (
	"sort"

	"github.com/mhwtrack/trackcore/internal/disjointset"
	"github.com/mhwtrack/trackcore/internal/grid"
)

// Connectivity selects which compass offsets count as adjacent.
type Connectivity int

const (
	// Connectivity8 treats diagonal neighbours as adjacent (the default).
	Connectivity8 Connectivity = iota
	// Connectivity4 counts only the four axis-aligned neighbours.
	Connectivity4
)

func (c Connectivity) offsets() []grid.Offset {
	if c == Connectivity4 {
		return grid.Offsets4
	}
	return grid.Offsets8
}

// Config configures the day labeller.
type Config struct {
	// MinPix drops objects with fewer than this many cells. Must be >= 1.
	MinPix int
	// Connectivity selects 4- or 8-neighbour adjacency. Zero value is
	// Connectivity8.
	Connectivity Connectivity
}

// DefaultConfig returns the spec's default labeller configuration:
// MinPix=10, 8-connectivity.
func DefaultConfig() Config {
	return Config{MinPix: 10, Connectivity: Connectivity8}
}

// Validate checks Config against §7's ParameterOutOfRange rule.
func (c Config) Validate() error {
	if c.MinPix < 1 {
		return &ParameterOutOfRangeError{Parameter: "minpix", Value: float64(c.MinPix)}
	}
	return nil
}

// DayMask is a grid-shaped boolean field for a single day. Active[f] is
// indexed [i-1][j-1] for cell (f, i, j), i.e. 0-based storage behind the
// 1-based CellID boundary.
type DayMask struct {
	Grid   *grid.Grid
	Active [][][]bool // Active[face][i-1][j-1]
}

// NewDayMask allocates an all-false mask shaped to g.
func NewDayMask(g *grid.Grid) *DayMask {
	active := make([][][]bool, g.NumFaces())
	for f := 0; f < g.NumFaces(); f++ {
		shape := g.FaceShape(f)
		rows := make([][]bool, shape.Nx)
		for i := range rows {
			rows[i] = make([]bool, shape.Ny)
		}
		active[f] = rows
	}
	return &DayMask{Grid: g, Active: active}
}

// Set marks cell (face, i, j) active or inactive (1-based i, j).
func (m *DayMask) Set(face, i, j int, active bool) {
	m.Active[face][i-1][j-1] = active
}

// Get reports whether cell (face, i, j) is active (1-based i, j).
func (m *DayMask) Get(face, i, j int) bool {
	return m.Active[face][i-1][j-1]
}

// Object is a non-empty, unordered set of cell identifiers forming one
// connected component. ID is a stable per-emission integer handed out by
// Label, preferable to content-hash equality per the design notes:
// two Objects with the same ID are the same object; no two objects
// emitted by the same Label call share an ID.
type Object struct {
	ID    int
	Cells []grid.CellID
}

// Size returns the number of member cells.
func (o Object) Size() int { return len(o.Cells) }

// DayObjects is the ordered list of Objects found on one day; the slice
// index plus 1 is the "ori_order" identifier the tracker uses to name
// where a track began.
type DayObjects []Object

// Label runs the two-pass topology-aware connected-component algorithm
// of the day labeller: per-face local labelling, a disjoint-set merge
// pass across face boundaries (the topology primitive of package grid),
// then minpix filtering. Objects are returned sorted by their minimum
// member CellID, for deterministic output.
//
// An empty result is not an error (EmptyMask is a documented, non-failing
// outcome): Label never returns an error for an all-false mask.
func Label(m *DayMask, cfg Config) (DayObjects, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Pass 1: local per-face labels, offset into a single global label
	// space as they're assigned.
	localLabel, offset, totalLabels := localLabels(m, cfg)

	// Pass 2: union labels across face boundaries using the grid's
	// neighbor primitive, restricted to neighbours that land on a
	// different face (same-face adjacency was already resolved in pass 1).
	forest := disjointset.New(totalLabels + 1) // label 0 is unused (inactive)
	offsets := cfg.Connectivity.offsets()
	for f := 0; f < m.Grid.NumFaces(); f++ {
		shape := m.Grid.FaceShape(f)
		for i := 1; i <= shape.Nx; i++ {
			for j := 1; j <= shape.Ny; j++ {
				lbl := localLabel[f][i-1][j-1]
				if lbl == 0 {
					continue
				}
				g := offset[f] + lbl
				for _, off := range offsets {
					n, ok := m.Grid.Neighbor(grid.CellID{Face: f, I: i, J: j}, off)
					if !ok || n.Face == f {
						continue // same-face handled by pass 1
					}
					nLbl := localLabel[n.Face][n.I-1][n.J-1]
					if nLbl == 0 {
						continue
					}
					forest.Union(g, offset[n.Face]+nLbl)
				}
			}
		}
	}

	// Pass 3: bucket cells by root, then drop undersized buckets.
	buckets := make(map[int][]grid.CellID)
	for f := 0; f < m.Grid.NumFaces(); f++ {
		shape := m.Grid.FaceShape(f)
		for i := 1; i <= shape.Nx; i++ {
			for j := 1; j <= shape.Ny; j++ {
				lbl := localLabel[f][i-1][j-1]
				if lbl == 0 {
					continue
				}
				g := offset[f] + lbl
				root := forest.Find(g)
				buckets[root] = append(buckets[root], grid.CellID{Face: f, I: i, J: j})
			}
		}
	}

	objects := make(DayObjects, 0, len(buckets))
	id := 0
	for _, cells := range buckets {
		if len(cells) < cfg.MinPix {
			continue
		}
		sort.Slice(cells, func(a, b int) bool { return cellLess(cells[a], cells[b]) })
		objects = append(objects, Object{ID: id, Cells: cells})
		id++
	}
	sort.Slice(objects, func(a, b int) bool { return cellLess(objects[a].Cells[0], objects[b].Cells[0]) })
	// Re-assign IDs after sort so ID order matches emission order.
	for i := range objects {
		objects[i].ID = i
	}
	return objects, nil
}

func cellLess(a, b grid.CellID) bool {
	if a.Face != b.Face {
		return a.Face < b.Face
	}
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}

// localLabels runs 2-D connectivity labelling independently on each face
// (a standard two-pass union-find scan), returning per-face local labels
// and the running offset assigned to each face's label range.
func localLabels(m *DayMask, cfg Config) (labels [][][]int, offset []int, total int) {
	offsets := cfg.Connectivity.offsets()
	numFaces := m.Grid.NumFaces()
	labels = make([][][]int, numFaces)
	offset = make([]int, numFaces)

	running := 0
	for f := 0; f < numFaces; f++ {
		shape := m.Grid.FaceShape(f)
		local := make([][]int, shape.Nx)
		for i := range local {
			local[i] = make([]int, shape.Ny)
		}

		// Union-find over a generous upper bound of local labels (one per
		// active cell, worst case), then compact to 1..n in a second pass.
		maxLabels := shape.Nx*shape.Ny + 1
		uf := disjointset.New(maxLabels)
		next := 1
		provisional := make([][]int, shape.Nx)
		for i := range provisional {
			provisional[i] = make([]int, shape.Ny)
		}

		for i := 1; i <= shape.Nx; i++ {
			for j := 1; j <= shape.Ny; j++ {
				if !m.Get(f, i, j) {
					continue
				}
				var neighborLabels []int
				for _, off := range offsets {
					n, ok := m.Grid.Neighbor(grid.CellID{Face: f, I: i, J: j}, off)
					if !ok || n.Face != f {
						continue
					}
					if n.I > shape.Nx || n.I < 1 || n.J > shape.Ny || n.J < 1 {
						continue
					}
					// Only consider already-visited neighbours (scan order:
					// earlier i, or same i and earlier j) to build the
					// provisional union-find incrementally, matching a
					// standard single-pass scanline labeller.
					if n.I > i || (n.I == i && n.J > j) {
						continue
					}
					if l := provisional[n.I-1][n.J-1]; l != 0 {
						neighborLabels = append(neighborLabels, l)
					}
				}
				if len(neighborLabels) == 0 {
					provisional[i-1][j-1] = next
					next++
					continue
				}
				first := neighborLabels[0]
				provisional[i-1][j-1] = first
				for _, l := range neighborLabels[1:] {
					uf.Union(first, l)
				}
			}
		}

		// Compact provisional labels to dense 1..n per-face labels.
		compact := make(map[int]int)
		nFace := 0
		for i := 1; i <= shape.Nx; i++ {
			for j := 1; j <= shape.Ny; j++ {
				p := provisional[i-1][j-1]
				if p == 0 {
					continue
				}
				root := uf.Find(p)
				c, ok := compact[root]
				if !ok {
					nFace++
					c = nFace
					compact[root] = c
				}
				local[i-1][j-1] = c
			}
		}

		labels[f] = local
		offset[f] = running
		running += nFace
	}
	return labels, offset, running
}
