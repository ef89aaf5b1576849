package composite

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// nanEqual treats two NaN floats as equal, matching the spec's notion
// that a NaN cell is a sentinel value, not a comparable number.
var nanEqual = cmp.Comparer(func(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
})

// trackAxisTensor builds a tensor[r=1][theta=1][p=1][n=len(values)][v=1]
// tensor whose n (track) axis carries values — a single (r, θ, p) cell's
// per-track samples for one variable, the axis Reduce actually collapses.
func trackAxisTensor(values []float64) [][][][][]float64 {
	n := make([][]float64, len(values))
	for i, v := range values {
		n[i] = []float64{v}
	}
	return [][][][][]float64{{{n}}}
}

func TestReduceMean(t *testing.T) {
	out := Reduce(trackAxisTensor([]float64{1, 2, 3}), Config{Method: Mean})
	if got := out[0][0][0][0]; got != 2 {
		t.Fatalf("expected mean 2, got %v", got)
	}
}

func TestReduceMedian(t *testing.T) {
	out := Reduce(trackAxisTensor([]float64{3, 1, 2}), Config{Method: Median})
	if got := out[0][0][0][0]; got != 2 {
		t.Fatalf("expected median 2, got %v", got)
	}
}

func TestReduceStd(t *testing.T) {
	out := Reduce(trackAxisTensor([]float64{2, 4, 4, 4, 5, 5, 7, 9}), Config{Method: Std})
	want := 2.0
	if got := out[0][0][0][0]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected population stddev %v, got %v", want, got)
	}
}

func TestReduceIgnoresNaN(t *testing.T) {
	out := Reduce(trackAxisTensor([]float64{math.NaN(), 4, 6}), Config{Method: Mean})
	if got := out[0][0][0][0]; got != 5 {
		t.Fatalf("expected NaN-ignoring mean 5, got %v", got)
	}
}

func TestReduceAllNaNStaysNaN(t *testing.T) {
	out := Reduce(trackAxisTensor([]float64{math.NaN(), math.NaN()}), Config{Method: Mean})
	if got := out[0][0][0][0]; !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

// TestReduceKeepsVariablesIndependent catches the n/v axis swap directly:
// with 2 tracks and 2 variables, each variable's aggregate must only see
// its own column across tracks, not the other variable's.
func TestReduceKeepsVariablesIndependent(t *testing.T) {
	// tensor[0][0][0] is the (track, variable) matrix for this (r, θ, p):
	// track 0 = (var0=1, var1=100), track 1 = (var0=3, var1=300).
	tensor := [][][][][]float64{{{{
		{1, 100},
		{3, 300},
	}}}}
	out := Reduce(tensor, Config{Method: Mean})
	if len(out[0][0][0]) != 2 {
		t.Fatalf("expected 2 variables in output, got %d", len(out[0][0][0]))
	}
	if got := out[0][0][0][0]; got != 2 {
		t.Fatalf("expected var0 mean over tracks = 2, got %v", got)
	}
	if got := out[0][0][0][1]; got != 200 {
		t.Fatalf("expected var1 mean over tracks = 200, got %v", got)
	}
}

func TestParseMethod(t *testing.T) {
	cases := map[string]Method{"mean": Mean, "": Mean, "median": Median, "std": Std}
	for in, want := range cases {
		got, err := ParseMethod(in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseMethodRejectsUnknown(t *testing.T) {
	if _, err := ParseMethod("mode"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestReduceIsDeterministic(t *testing.T) {
	tensor := trackAxisTensor([]float64{1, math.NaN(), 3, 5})
	a := Reduce(tensor, Config{Method: Mean})
	b := Reduce(tensor, Config{Method: Mean})
	if diff := cmp.Diff(a, b, nanEqual); diff != "" {
		t.Fatalf("expected repeated reductions over identical input to agree (-a +b):\n%s", diff)
	}
}
