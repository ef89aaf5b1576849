// Package grid declares the topology of a gridded geophysical field: a
// small atlas of rectangular faces joined along declared edges.
//
// The degenerate single-face case with a left<->right adjacency on the
// same face models cyclic longitude (a cylinder). Several faces joined
// pairwise along left/right/top/bottom edges model a tiled sphere. Either
// way, callers never see the distinction: Grid exposes one primitive,
// Neighbor, that is total over the 8 compass offsets.
package grid

import "fmt"

// Edge names one side of a rectangular face.
type Edge int

const (
	Left Edge = iota
	Right
	Top
	Bottom
)

func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Adjacency declares that edge A of face A is joined to edge B of face B.
// Reversed indicates that the shared boundary runs in opposite directions
// along the two edges (the index that increases along edge A decreases
// along edge B), which matters for the diagonal offsets near a seam.
type Adjacency struct {
	FaceA, FaceB int
	EdgeA, EdgeB Edge
	Reversed     bool
}

// Face declares the shape of a single rectangular tile.
type Face struct {
	Nx, Ny int
}

// CellID identifies a single grid cell. Coordinates are 1-based, per the
// convention used throughout this module's public surface; see
// translation notes in labeller and tracker for where 1-based identifiers
// are translated to 0-based slice indices.
type CellID struct {
	Face int
	I, J int
}

func (c CellID) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.Face, c.I, c.J)
}

// Grid is an immutable atlas of faces and their edge adjacencies.
type Grid struct {
	faces       []Face
	adjacencies []Adjacency
	// byEdge indexes adjacencies by (face, edge) for O(1) neighbor lookup.
	byEdge map[faceEdge]Adjacency
}

type faceEdge struct {
	face int
	edge Edge
}

// New validates and builds a Grid from face shapes and edge adjacencies.
// It returns InvalidGridError if any face has a non-positive dimension or
// any adjacency references a face outside [0, len(faces)).
func New(faces []Face, adjacencies []Adjacency) (*Grid, error) {
	if len(faces) == 0 {
		return nil, &InvalidGridError{Reason: "grid must declare at least one face"}
	}
	for i, f := range faces {
		if f.Nx <= 0 || f.Ny <= 0 {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("face %d has non-positive shape (%d,%d)", i, f.Nx, f.Ny)}
		}
	}

	byEdge := make(map[faceEdge]Adjacency, 2*len(adjacencies))
	for _, a := range adjacencies {
		if a.FaceA < 0 || a.FaceA >= len(faces) {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("adjacency references missing face %d", a.FaceA)}
		}
		if a.FaceB < 0 || a.FaceB >= len(faces) {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("adjacency references missing face %d", a.FaceB)}
		}
		byEdge[faceEdge{a.FaceA, a.EdgeA}] = a
		// The adjacency is symmetric; register the reverse view too so
		// Neighbor can look it up from either face.
		byEdge[faceEdge{a.FaceB, a.EdgeB}] = Adjacency{
			FaceA: a.FaceB, EdgeA: a.EdgeB,
			FaceB: a.FaceA, EdgeB: a.EdgeA,
			Reversed: a.Reversed,
		}
	}

	g := &Grid{
		faces:       append([]Face(nil), faces...),
		adjacencies: append([]Adjacency(nil), adjacencies...),
		byEdge:      byEdge,
	}
	return g, nil
}

// NewCylinder builds the common single-face cylindrical-longitude grid:
// a single Nx-by-Ny face whose left and right edges are joined (wrapping
// longitude), with true north/south boundaries (poles, or grid edges
// that have no neighbour).
func NewCylinder(nx, ny int) (*Grid, error) {
	return New(
		[]Face{{Nx: nx, Ny: ny}},
		[]Adjacency{{FaceA: 0, EdgeA: Left, FaceB: 0, EdgeB: Right}},
	)
}

// NumFaces returns the number of faces in the atlas.
func (g *Grid) NumFaces() int { return len(g.faces) }

// FaceShape returns the (Nx, Ny) shape of a face.
func (g *Grid) FaceShape(face int) Face { return g.faces[face] }

// Offset is one of the 8 compass directions (di, dj) != (0, 0).
type Offset struct{ DI, DJ int }

// Offsets8 enumerates the eight 8-connectivity compass offsets.
var Offsets8 = []Offset{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Offsets4 enumerates the four axis-aligned 4-connectivity offsets.
var Offsets4 = []Offset{
	{0, -1}, {-1, 0}, {1, 0}, {0, 1},
}

// Neighbor returns the cell adjacent to c in direction (di, dj), and
// whether a neighbour exists. A false return means a true boundary (a
// pole, or an undeclared edge) rather than an error: Neighbor is total
// over every valid CellID and every offset in Offsets8.
func (g *Grid) Neighbor(c CellID, off Offset) (CellID, bool) {
	face := g.faces[c.Face]
	ni, nj := c.I+off.DI, c.J+off.DJ

	// Fast path: neighbour stays within the face.
	if ni >= 1 && ni <= face.Nx && nj >= 1 && nj <= face.Ny {
		return CellID{Face: c.Face, I: ni, J: nj}, true
	}

	// Off-face: resolve at most one edge crossing per axis. A diagonal
	// offset that crosses two edges at once (a face corner) is handled by
	// trying crossEdge on the left/right edge first and then on the
	// top/bottom edge; if neither
	// produces a valid cell, there is no neighbour (a corner where fewer
	// than three faces meet, or a declared boundary).
	cell, ok := CellID{}, false
	switch {
	case ni < 1:
		cell, ok = g.crossEdge(c, Left, off)
	case ni > face.Nx:
		cell, ok = g.crossEdge(c, Right, off)
	}
	if ok {
		return cell, true
	}
	switch {
	case nj < 1:
		cell, ok = g.crossEdge(c, Top, off)
	case nj > face.Ny:
		cell, ok = g.crossEdge(c, Bottom, off)
	}
	return cell, ok
}

// crossEdge resolves stepping off face c.Face across the named edge,
// translating the in-plane coordinate (and applying axis swap/reversal)
// per the declared Adjacency, then re-applying the remaining component of
// the offset on the destination face.
func (g *Grid) crossEdge(c CellID, e Edge, off Offset) (CellID, bool) {
	adj, ok := g.byEdge[faceEdge{c.Face, e}]
	if !ok {
		return CellID{}, false
	}

	src := g.faces[c.Face]
	dst := g.faces[adj.FaceB]

	// along is the position of c measured along the shared edge, in
	// [1, edgeLength]; it is I for top/bottom edges and J for left/right
	// edges (the axis running parallel to the seam).
	var along, edgeLen int
	switch e {
	case Left, Right:
		along, edgeLen = c.J, src.Ny
	case Top, Bottom:
		along, edgeLen = c.I, src.Nx
	}
	if adj.Reversed {
		along = edgeLen + 1 - along
	}

	var dstEdgeLen int
	switch adj.EdgeB {
	case Left, Right:
		dstEdgeLen = dst.Ny
	case Top, Bottom:
		dstEdgeLen = dst.Nx
	}
	if along < 1 || along > dstEdgeLen {
		// The two edges declare incompatible lengths; no neighbour rather
		// than an out-of-range cell.
		return CellID{}, false
	}

	// Remaining perpendicular step: only the component of the offset that
	// pointed off this face's edge has been consumed; the other remains to
	// be applied on the new face, one cell in from the entered edge.
	var ni, nj int
	switch adj.EdgeB {
	case Left:
		ni, nj = 1, along
	case Right:
		ni, nj = dst.Nx, along
	case Top:
		ni, nj = along, 1
	case Bottom:
		ni, nj = along, dst.Ny
	}

	cand := CellID{Face: adj.FaceB, I: ni, J: nj}

	// If the offset was purely perpendicular to the crossed edge (a
	// straight, non-diagonal step), cand is the answer. A diagonal offset
	// also carries a component parallel to the seam; apply it now on the
	// destination face, respecting any axis swap from Reversed.
	var parallel int
	switch e {
	case Left, Right:
		parallel = off.DJ
	case Top, Bottom:
		parallel = off.DI
	}
	if adj.Reversed {
		parallel = -parallel
	}
	if parallel == 0 {
		return cand, true
	}

	switch adj.EdgeB {
	case Left, Right:
		return g.Neighbor(cand, Offset{0, parallel})
	default:
		return g.Neighbor(cand, Offset{parallel, 0})
	}
}
