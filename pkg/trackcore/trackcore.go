package trackcore

import (
	"context"

	"github.com/mhwtrack/trackcore/internal/composite"
	"github.com/mhwtrack/trackcore/internal/geo"
	"github.com/mhwtrack/trackcore/internal/grid"
	"github.com/mhwtrack/trackcore/internal/labeller"
	"github.com/mhwtrack/trackcore/internal/normalize"
	"github.com/mhwtrack/trackcore/internal/tracker"
	"github.com/mhwtrack/trackcore/internal/workerpool"
)

// Re-exported types so callers never need to import internal/ packages
// directly.
type (
	Grid       = grid.Grid
	Face       = grid.Face
	Edge       = grid.Edge
	Adjacency  = grid.Adjacency
	CellID     = grid.CellID
	DayMask    = labeller.DayMask
	DayObjects = labeller.DayObjects
	Object     = labeller.Object
	Track      = tracker.Track
	TrackSet   = tracker.TrackSet
	Lookup     = geo.Lookup
	Coord      = geo.Coord

	AnomalySource  = normalize.AnomalySource
	CompositeTensor = [][][][]float64
	NormalizedTensor = [][][][][]float64
)

// Config bundles every stage's options with the spec's defaults (§6).
type Config struct {
	Labeller  labeller.Config
	Tracker   tracker.Config
	Normalize normalize.Config
	Composite composite.Config
}

// DefaultConfig returns the spec's defaults for every stage.
func DefaultConfig() Config {
	return Config{
		Labeller:  labeller.DefaultConfig(),
		Tracker:   tracker.DefaultConfig(),
		Normalize: normalize.DefaultConfig(),
		Composite: composite.DefaultConfig(),
	}
}

// NewCylinder builds a single-face grid with wrapped longitude, the
// common case for a global lon-lat field (§4.0).
func NewCylinder(nx, ny int) (*Grid, error) { return grid.NewCylinder(nx, ny) }

// NewGrid builds a multi-face grid from explicit face shapes and
// edge adjacencies (§4.0).
func NewGrid(faces []Face, adjacencies []Adjacency) (*Grid, error) {
	return grid.New(faces, adjacencies)
}

// NewDayMask allocates a mask covering g, initially all-inactive.
func NewDayMask(g *Grid) *DayMask { return labeller.NewDayMask(g) }

// Detect runs the full day-labelling and tracking pipeline (§4.1, §4.2)
// over a sequence of per-day masks, and applies the configured cut_off
// filter to the result. Day labelling runs over the independent-days
// axis identified in §5 via a worker pool; the tracker itself is
// strictly sequential in day order.
func Detect(ctx context.Context, masks []*DayMask, cfg Config, progress tracker.Progress) (TrackSet, error) {
	dayResults, errs := workerpool.Map(len(masks), workerpool.DefaultOptions(), func(i int) (labeller.DayObjects, error) {
		return labeller.Label(masks[i], cfg.Labeller)
	})
	if len(errs) > 0 {
		return TrackSet{}, errs[0]
	}

	ts, err := tracker.Run(ctx, dayResults, cfg.Tracker, progress)
	if err != nil {
		return TrackSet{}, err
	}
	return ts.Filter(cfg.Tracker.CutOff), nil
}

// NormalizeAll projects every (track, variable) pair in tracks onto the
// polar grid and lifecycle phases (§4.3), running the independent
// (track, variable) axis identified in §5 over a worker pool. The
// returned tensor is laid out T[r][theta][p][n][v], matching §6's
// row-major (r, θ, p, n, v) layout.
//
// The spatial index over src's grid (internal/normalize.Index) is built
// once here and shared across every (track, variable) call, rather than
// once per call. A ShapeMismatch, InvalidGrid, or ParameterOutOfRange
// from any single (track, variable) pair aborts the whole run, per §7.
func NormalizeAll(tracks TrackSet, src AnomalySource, lookup Lookup, cfg Config) (NormalizedTensor, error) {
	n := len(tracks.Tracks)
	v := src.NumVars()
	r := cfg.Normalize.Resolution
	p := cfg.Normalize.NPhases

	idx := normalize.NewIndex(src)

	total := n * v
	opts := workerpool.DefaultOptions()
	opts.SkipErrors = false
	slices, errs := workerpool.Map(total, opts, func(i int) ([][][]float64, error) {
		ti, vi := i/v, i%v
		tr := tracks.Tracks[ti]

		days := make([]normalize.DayTrack, len(tr.History))
		cellsByDay := make([][]grid.CellID, len(tr.History))
		for d, h := range tr.History {
			days[d] = normalize.DayTrack{Day: h.Day - 1, Cells: h.Cells}
			cellsByDay[d] = h.Cells
		}
		rMax := geo.TrackRMaxR(cellsByDay, lookup, cfg.Normalize.EarthRadius)
		return normalize.Normalize(days, src, idx, lookup, rMax, vi, cfg.Normalize)
	})
	if len(errs) > 0 {
		return nil, errs[0]
	}

	tensor := make(NormalizedTensor, r)
	for ri := range tensor {
		tensor[ri] = make([][][][]float64, r)
		for ti := range tensor[ri] {
			tensor[ri][ti] = make([][][]float64, p)
			for pi := range tensor[ri][ti] {
				tensor[ri][ti][pi] = make([][]float64, n)
				for ni := range tensor[ri][ti][pi] {
					tensor[ri][ti][pi][ni] = make([]float64, v)
				}
			}
		}
	}
	for i, slice := range slices {
		ti, vi := i/v, i%v
		if slice == nil {
			continue
		}
		for ri := 0; ri < r; ri++ {
			for thetai := 0; thetai < r; thetai++ {
				for pi := 0; pi < p; pi++ {
					tensor[ri][thetai][pi][ti][vi] = slice[ri][thetai][pi]
				}
			}
		}
	}
	return tensor, nil
}

// Composite reduces a NormalizedTensor's track axis into a single
// aggregate (§4.4).
func Composite(tensor NormalizedTensor, cfg composite.Config) CompositeTensor {
	return composite.Reduce(tensor, cfg)
}
