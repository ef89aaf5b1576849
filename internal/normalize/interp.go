package normalize

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// localPlaneInterpolator is a bilinear scattered-data interpolator: each
// query point is answered by fitting a local plane z = a + b·x̃ + c·ỹ +
// d·x̃ỹ to the neighbourSize nearest samples by least squares (gonum/mat),
// then evaluating that plane at the query point. A query point outside
// the convex hull of the sample set receives NaN (§4.3 step 2).
type localPlaneInterpolator struct {
	x, y, z []float64
	hull    []point
}

const neighbourSize = 12

func newLocalPlaneInterpolator(x, y, z []float64) *localPlaneInterpolator {
	pts := make([]point, len(x))
	for i := range x {
		pts[i] = point{x: x[i], y: y[i]}
	}
	return &localPlaneInterpolator{x: x, y: y, z: z, hull: convexHull(pts)}
}

type neighbour struct {
	idx  int
	dist float64
}

func (ip *localPlaneInterpolator) Eval(qx, qy float64) float64 {
	if !insideHull(ip.hull, point{x: qx, y: qy}) {
		return math.NaN()
	}

	n := len(ip.x)
	k := neighbourSize
	if k > n {
		k = n
	}

	neighbours := make([]neighbour, n)
	for i := range ip.x {
		dx := ip.x[i] - qx
		dy := ip.y[i] - qy
		neighbours[i] = neighbour{idx: i, dist: math.Hypot(dx, dy)}
	}
	sort.Slice(neighbours, func(a, b int) bool { return neighbours[a].dist < neighbours[b].dist })
	near := neighbours[:k]

	if k < 4 {
		// Not enough local support for a bilinear fit; fall back to the
		// nearest sample.
		if k == 0 {
			return math.NaN()
		}
		return ip.z[near[0].idx]
	}

	a := mat.NewDense(k, 4, nil)
	b := mat.NewDense(k, 1, nil)
	for row, nb := range near {
		xi, yi, zi := ip.x[nb.idx], ip.y[nb.idx], ip.z[nb.idx]
		a.SetRow(row, []float64{1, xi, yi, xi * yi})
		b.Set(row, 0, zi)
	}

	var coeffs mat.Dense
	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveTo(&coeffs, false, b); err != nil {
		return math.NaN()
	}

	return coeffs.At(0, 0) + coeffs.At(1, 0)*qx + coeffs.At(2, 0)*qy + coeffs.At(3, 0)*qx*qy
}

type point struct{ x, y float64 }

func cross(o, a, b point) float64 {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}

// convexHull returns the convex hull of pts in counter-clockwise order,
// via Andrew's monotone chain. Fewer than 3 input points are returned as
// given, and insideHull reports every query as outside them. Three or more
// points whose hull has fewer than 3 vertices (all collinear) are returned
// sorted, and insideHull then reports every point on their common line as
// inside.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([]point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].x != sorted[j].x {
			return sorted[i].x < sorted[j].x
		}
		return sorted[i].y < sorted[j].y
	})

	build := func(points []point) []point {
		var hull []point
		for _, p := range points {
			for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
				hull = hull[:len(hull)-1]
			}
			hull = append(hull, p)
		}
		return hull
	}

	lower := build(sorted)
	reversed := make([]point, len(sorted))
	for i, p := range sorted {
		reversed[len(sorted)-1-i] = p
	}
	upper := build(reversed)

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return sorted
	}
	return hull
}

// insideHull reports whether p lies within (or on the boundary of) the
// convex polygon hull, via a consistent cross-product-sign test.
func insideHull(hull []point, p point) bool {
	if len(hull) < 3 {
		return false
	}
	var sawPositive, sawNegative bool
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		side := cross(a, b, p)
		if side > 0 {
			sawPositive = true
		} else if side < 0 {
			sawNegative = true
		}
		if sawPositive && sawNegative {
			return false
		}
	}
	return true
}
