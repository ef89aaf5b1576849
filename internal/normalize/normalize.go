// Package normalize maps a Track over a longitude-latitude anomaly field
// onto a standard polar grid and a fixed set of lifecycle phases (§4.3),
// producing one (R × R × P) slice per (track, variable).
//
// The spatial projection's nearby-cell search is backed by an R-tree
// (github.com/dhconnelly/rtreego), the same library the teacher used for
// its chart-coverage index: an Index is built once per AnomalySource (as
// the teacher's ChartIndex is built once per chart directory via
// BuildIndexFromDir) and then queried once per track-day via
// SearchIntersect, rather than re-scanning every grid cell on every call.
package normalize

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/mhwtrack/trackcore/internal/geo"
	"github.com/mhwtrack/trackcore/internal/grid"
)

// Config configures the normaliser.
type Config struct {
	// Resolution is the polar target grid's side length R.
	Resolution int
	// NPhases is the lifecycle phase count P.
	NPhases int
	// EarthRadius is the geodesic sphere radius, in km.
	EarthRadius float64
}

// DefaultConfig returns the spec's defaults: Resolution=50, NPhases=5,
// EarthRadius=6371.0.
func DefaultConfig() Config {
	return Config{Resolution: 50, NPhases: 5, EarthRadius: geo.EarthRadiusKM}
}

func (c Config) Validate() error {
	if c.Resolution < 2 {
		return &ParameterOutOfRangeError{Parameter: "resolution", Value: float64(c.Resolution)}
	}
	if c.NPhases < 1 {
		return &ParameterOutOfRangeError{Parameter: "n_phases", Value: float64(c.NPhases)}
	}
	if c.EarthRadius <= 0 {
		return &ParameterOutOfRangeError{Parameter: "earth_radius", Value: c.EarthRadius}
	}
	return nil
}

// AnomalySource is the normaliser's read-only view of the 4-D anomaly
// field D[lon, lat, day, var] plus the grid's coordinate vectors (§6).
// lonIdx and latIdx are 1-based, matching grid.CellID.I/.J.
type AnomalySource interface {
	Lons() []float64
	Lats() []float64
	NumDays() int
	NumVars() int
	At(lonIdx, latIdx, day, v int) float64
}

// DayTrack is the minimal per-day shape the normaliser needs from a
// tracker.Track: the day index into the AnomalySource (0-based) and the
// member cells of the track's object on that day.
type DayTrack struct {
	Day   int
	Cells []grid.CellID
}

// cellPoint implements rtreego.Spatial for a single grid cell's (lon,
// lat), used to answer the spatial interpolator's nearby-cell queries.
type cellPoint struct {
	cell     grid.CellID
	lon, lat float64
}

func (p cellPoint) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(rtreego.Point{p.lon, p.lat}, []float64{1e-9, 1e-9})
	return rect
}

// Index is an R-tree over an AnomalySource's grid cells, built once and
// reused across every track, day, and variable that source is queried
// for — the teacher's BuildIndexFromDir/ChartIndex pattern applied to
// grid cells instead of chart coverage rectangles.
type Index struct {
	rtree *rtreego.Rtree
}

// NewIndex builds an Index over every (lon, lat) grid point named by
// src's coordinate vectors.
func NewIndex(src AnomalySource) *Index {
	lons, lats := src.Lons(), src.Lats()
	rtree := rtreego.NewTree(2, 25, 50)
	for i := 1; i <= len(lons); i++ {
		for j := 1; j <= len(lats); j++ {
			rtree.Insert(cellPoint{cell: grid.CellID{I: i, J: j}, lon: lons[i-1], lat: lats[j-1]})
		}
	}
	return &Index{rtree: rtree}
}

// query returns every indexed cell within the axis-aligned box centred
// on centroid, extending halfLon in longitude and halfLatDeg (already in
// degrees) in latitude in either direction.
func (idx *Index) query(centroid geo.Coord, halfLon, halfLatDeg float64) []cellPoint {
	point := rtreego.Point{centroid.Lon - halfLon, centroid.Lat - halfLatDeg}
	lengths := []float64{2 * halfLon, 2 * halfLatDeg}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}
	spatials := idx.rtree.SearchIntersect(rect)
	out := make([]cellPoint, len(spatials))
	for i, sp := range spatials {
		out[i] = sp.(cellPoint)
	}
	return out
}

// polarTarget precomputes the unit-disc target points for resolution R
// (§4.3 step 1).
type polarTarget struct {
	x, y [][]float64 // [r][theta]
}

func newPolarTarget(r int) polarTarget {
	pt := polarTarget{
		x: make([][]float64, r),
		y: make([][]float64, r),
	}
	for radius := 0; radius < r; radius++ {
		pt.x[radius] = make([]float64, r)
		pt.y[radius] = make([]float64, r)
		for theta := 0; theta < r; theta++ {
			angle := 2 * math.Pi * float64(theta) / float64(r)
			scale := float64(radius) / float64(r-1)
			pt.x[radius][theta] = scale * math.Sin(angle)
			pt.y[radius][theta] = scale * math.Cos(angle)
		}
	}
	return pt
}

// validateSource implements the §7 ShapeMismatch check: every cell and
// day index the track touches must fall within src's advertised shape,
// checked up front so a mismatch fails the whole run rather than
// panicking partway through At().
func validateSource(track []DayTrack, src AnomalySource) error {
	nLon := len(src.Lons())
	nLat := len(src.Lats())
	nDays := src.NumDays()
	for _, day := range track {
		if day.Day < 0 || day.Day >= nDays {
			return &ShapeMismatchError{Reason: fmt.Sprintf("day index %d out of range [0, %d)", day.Day, nDays)}
		}
		for _, c := range day.Cells {
			if c.I < 1 || c.I > nLon || c.J < 1 || c.J > nLat {
				return &ShapeMismatchError{Reason: fmt.Sprintf("cell (%d, %d) out of source bounds (%d lons, %d lats)", c.I, c.J, nLon, nLat)}
			}
		}
	}
	return nil
}

// Normalize runs the full per-track, per-variable procedure of §4.3 and
// returns the (R × R × P) slice for the given variable. idx must be an
// Index built from the same src (via NewIndex), shared across every
// track/day/variable to avoid rebuilding the R-tree per call.
//
// rMax is the track's R_max (§4.3a). A zero rMax is the RadiusZero
// condition: the track is skipped and the returned slice is all-NaN.
func Normalize(track []DayTrack, src AnomalySource, idx *Index, lookup geo.Lookup, rMax float64, v int, cfg Config) ([][][]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateSource(track, src); err != nil {
		return nil, err
	}

	out := allNaN3D(cfg.Resolution, cfg.NPhases)
	if rMax == 0 {
		return out, nil
	}

	target := newPolarTarget(cfg.Resolution)
	spatial := make([][][]float64, len(track)) // [day][r][theta]
	for d, day := range track {
		spatial[d] = projectDay(day, src, idx, lookup, rMax, v, target, cfg)
	}

	k := len(track)
	for r := 0; r < cfg.Resolution; r++ {
		for theta := 0; theta < cfg.Resolution; theta++ {
			samples := make([]float64, k)
			for d := 0; d < k; d++ {
				samples[d] = spatial[d][r][theta]
			}
			out[r][theta] = resamplePhases(samples, k, cfg.NPhases)
		}
	}
	return out, nil
}

// projectDay implements §4.3 step 2 for a single day and variable. The
// candidate cell set comes entirely from idx.query: there is no
// redundant manual linear scan alongside it.
func projectDay(day DayTrack, src AnomalySource, idx *Index, lookup geo.Lookup, rMax float64, v int, target polarTarget, cfg Config) [][]float64 {
	slice := allNaN2D(cfg.Resolution)
	if len(day.Cells) == 0 {
		return slice
	}

	centroid := geo.Centroid(day.Cells, lookup)

	// §4.3 step 2's bounding box: |Δlon| < 2 R_max (compared directly, per
	// the spec's literal formula) and |Δlat° · R_earth · π/180| < 2 R_max
	// (an arc-length comparison, so the degree threshold used against the
	// index — which stores plain lon/lat degrees — must be converted back
	// out of kilometres before querying).
	halfLon := 2 * rMax
	halfLatDeg := (2 * rMax) / (cfg.EarthRadius * math.Pi / 180)

	candidates := idx.query(centroid, halfLon, halfLatDeg)

	var xs, ys, zs []float64
	for _, cp := range candidates {
		anomaly := src.At(cp.cell.I, cp.cell.J, day.Day, v)
		if math.IsNaN(anomaly) {
			continue
		}
		cellCoord := geo.Coord{Lon: cp.lon, Lat: cp.lat}
		xLocal := sign(cp.lon-centroid.Lon) * geo.HaversineR(geo.Coord{Lon: centroid.Lon, Lat: centroid.Lat}, geo.Coord{Lon: cellCoord.Lon, Lat: centroid.Lat}, cfg.EarthRadius)
		yLocal := sign(cp.lat-centroid.Lat) * geo.HaversineR(geo.Coord{Lon: centroid.Lon, Lat: centroid.Lat}, geo.Coord{Lon: centroid.Lon, Lat: cellCoord.Lat}, cfg.EarthRadius)
		xs = append(xs, xLocal/rMax)
		ys = append(ys, yLocal/rMax)
		zs = append(zs, anomaly)
	}

	if len(xs) < 4 {
		return slice
	}

	interp := newLocalPlaneInterpolator(xs, ys, zs)
	for r := 0; r < cfg.Resolution; r++ {
		for theta := 0; theta < cfg.Resolution; theta++ {
			slice[r][theta] = interp.Eval(target.x[r][theta], target.y[r][theta])
		}
	}
	return slice
}

// resamplePhases implements §4.3 step 3: linear interpolation of a single
// polar cell's per-day samples onto P left-edge lifecycle phases.
func resamplePhases(samples []float64, k, p int) []float64 {
	out := make([]float64, p)
	for i := range out {
		out[i] = math.NaN()
	}

	var tOrig, sOrig []float64
	for d := 0; d < k; d++ {
		if math.IsNaN(samples[d]) {
			continue
		}
		tOrig = append(tOrig, float64(d)/float64(k))
		sOrig = append(sOrig, samples[d])
	}
	if len(tOrig) < 2 {
		return out
	}

	for i := 0; i < p; i++ {
		tTgt := float64(i) / float64(p)
		out[i] = linterp(tOrig, sOrig, tTgt)
	}
	return out
}

// linterp linearly interpolates (x, y) at query, clamping to the nearest
// endpoint outside the sample range.
func linterp(x, y []float64, query float64) float64 {
	if query <= x[0] {
		return y[0]
	}
	if query >= x[len(x)-1] {
		return y[len(y)-1]
	}
	for i := 1; i < len(x); i++ {
		if query <= x[i] {
			frac := (query - x[i-1]) / (x[i] - x[i-1])
			return y[i-1] + frac*(y[i]-y[i-1])
		}
	}
	return y[len(y)-1]
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

func allNaN2D(r int) [][]float64 {
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, r)
		for j := range out[i] {
			out[i][j] = math.NaN()
		}
	}
	return out
}

func allNaN3D(r, p int) [][][]float64 {
	out := make([][][]float64, r)
	for i := range out {
		out[i] = make([][]float64, r)
		for j := range out[i] {
			out[i][j] = make([]float64, p)
			for k := range out[i][j] {
				out[i][j][k] = math.NaN()
			}
		}
	}
	return out
}
