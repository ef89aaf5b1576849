// Package geo provides the small set of spherical-geometry primitives the
// normaliser needs: great-circle distance, an object's centroid, and a
// track's characteristic radius (§4.3a).
package geo

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mhwtrack/trackcore/internal/grid"
)

// EarthRadiusKM is the sphere radius used throughout the geodesic
// calculations (§6's earth_radius parameter default).
const EarthRadiusKM = 6371.0

// Coord is a (longitude, latitude) pair in degrees.
type Coord struct {
	Lon float64
	Lat float64
}

// Lookup resolves a cell identifier to its grid coordinate. The tracker
// and labeller packages work in opaque CellIDs; geo is the boundary where
// a caller's coordinate vectors are consulted.
type Lookup func(c grid.CellID) Coord

// Haversine returns the great-circle distance between a and b, in
// kilometres, on a sphere of radius EarthRadiusKM.
func Haversine(a, b Coord) float64 {
	return HaversineR(a, b, EarthRadiusKM)
}

// HaversineR is Haversine with an explicit sphere radius (km), for callers
// honouring the earth_radius configuration option (§6) instead of the
// package default.
func HaversineR(a, b Coord, radiusKM float64) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinHalfLat := math.Sin(dLat / 2)
	sinHalfLon := math.Sin(dLon / 2)
	h := sinHalfLat*sinHalfLat + math.Cos(lat1)*math.Cos(lat2)*sinHalfLon*sinHalfLon
	return 2 * radiusKM * math.Asin(math.Sqrt(h))
}

// Centroid returns the arithmetic mean of a set of cells' coordinates.
// §4.3a is explicit that no spherical centroid is required — R_max is used
// as a scale, not an invariant quantity — so a plain mean suffices.
func Centroid(cells []grid.CellID, lookup Lookup) Coord {
	if len(cells) == 0 {
		return Coord{}
	}
	lons := make([]float64, len(cells))
	lats := make([]float64, len(cells))
	for i, c := range cells {
		coord := lookup(c)
		lons[i] = coord.Lon
		lats[i] = coord.Lat
	}
	return Coord{
		Lon: floats.Sum(lons) / float64(len(lons)),
		Lat: floats.Sum(lats) / float64(len(lats)),
	}
}

// TrackRMax computes R_max(track): the largest cell-to-centroid geodesic
// distance observed over the track's lifetime, where the centroid is
// recomputed for each day's member cells. days[d] is the set of cells the
// track occupies on its d-th recorded day.
//
// TrackRMax returns 0 for a track with no multi-cell day — the RadiusZero
// condition (§4.3) that the normaliser must treat as a skip.
func TrackRMax(days [][]grid.CellID, lookup Lookup) float64 {
	return TrackRMaxR(days, lookup, EarthRadiusKM)
}

// TrackRMaxR is TrackRMax with an explicit sphere radius, for callers
// honouring the earth_radius configuration option.
func TrackRMaxR(days [][]grid.CellID, lookup Lookup, radiusKM float64) float64 {
	max := 0.0
	for _, cells := range days {
		if len(cells) == 0 {
			continue
		}
		centroid := Centroid(cells, lookup)
		dists := make([]float64, len(cells))
		for i, c := range cells {
			dists[i] = HaversineR(lookup(c), centroid, radiusKM)
		}
		if d := floats.Max(dists); d > max {
			max = d
		}
	}
	return max
}
