package labeller

import (
	"testing"

	"github.com/mhwtrack/trackcore/internal/grid"
)

func cylinder(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.NewCylinder(360, 20)
	if err != nil {
		t.Fatalf("NewCylinder: %v", err)
	}
	return g
}

// TestCrossBoundarySingleObject reproduces seed scenario 1: a block of
// cells straddling the longitude seam must be a single object.
func TestCrossBoundarySingleObject(t *testing.T) {
	g := cylinder(t)
	m := NewDayMask(g)
	lons := []int{356, 357, 358, 359, 360, 1, 2, 3, 4, 5}
	for _, lon := range lons {
		for lat := 10; lat <= 15; lat++ {
			m.Set(0, lon, lat, true)
		}
	}

	objs, err := Label(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objs))
	}
	if objs[0].Size() != 60 {
		t.Fatalf("expected object of size 60, got %d", objs[0].Size())
	}
}

// TestMinPixDropsUndersizedObjects reproduces seed scenario 5: an object
// below minpix is dropped entirely, and EmptyMask is not an error.
func TestMinPixDropsUndersizedObjects(t *testing.T) {
	g := cylinder(t)
	m := NewDayMask(g)
	// A 5-cell object, below the default minpix of 10.
	m.Set(0, 100, 10, true)
	m.Set(0, 101, 10, true)
	m.Set(0, 102, 10, true)
	m.Set(0, 100, 11, true)
	m.Set(0, 101, 11, true)

	objs, err := Label(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("expected no objects below minpix, got %d", len(objs))
	}
}

func TestObjectsAreDisjointAndConnected(t *testing.T) {
	g := cylinder(t)
	m := NewDayMask(g)
	for lon := 100; lon <= 109; lon++ {
		for lat := 5; lat <= 14; lat++ {
			m.Set(0, lon, lat, true)
		}
	}
	for lon := 200; lon <= 209; lon++ {
		for lat := 5; lat <= 14; lat++ {
			m.Set(0, lon, lat, true)
		}
	}

	objs, err := Label(m, DefaultConfig())
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 disjoint objects, got %d", len(objs))
	}
	seen := make(map[grid.CellID]bool)
	for _, o := range objs {
		if o.Size() < 10 {
			t.Fatalf("object %d below minpix: %d", o.ID, o.Size())
		}
		for _, c := range o.Cells {
			if seen[c] {
				t.Fatalf("cell %v claimed by more than one object", c)
			}
			seen[c] = true
		}
	}
}

func TestParameterOutOfRange(t *testing.T) {
	g := cylinder(t)
	m := NewDayMask(g)
	_, err := Label(m, Config{MinPix: 0})
	if err == nil {
		t.Fatal("expected error for minpix < 1")
	}
	if _, ok := err.(*ParameterOutOfRangeError); !ok {
		t.Fatalf("expected *ParameterOutOfRangeError, got %T", err)
	}
}

func TestLabel3DBuildsComponentAcrossDays(t *testing.T) {
	g := cylinder(t)
	days := make([]*DayMask, 3)
	for d := range days {
		m := NewDayMask(g)
		for lon := 100; lon <= 109; lon++ {
			for lat := 5; lat <= 14; lat++ {
				m.Set(0, lon, lat, true)
			}
		}
		days[d] = m
	}

	comps, err := Label3D(days, DefaultConfig3D())
	if err != nil {
		t.Fatalf("Label3D: %v", err)
	}
	if len(comps) != 1 {
		t.Fatalf("expected 1 component, got %d", len(comps))
	}
	if len(comps[0].Days) != 3 {
		t.Fatalf("expected component spanning 3 days, got %d", len(comps[0].Days))
	}
}
