// Package composite reduces a NormalisedTensor's track axis into a single
// aggregate per (r, θ, p, v) cell (§4.4), using gonum/stat for the
// mean/median/std statistics themselves.
package composite

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Method selects the aggregate statistic applied over the track axis.
type Method int

const (
	Mean Method = iota
	Median
	Std
)

func (m Method) String() string {
	switch m {
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Std:
		return "std"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps the composite_method configuration string (§6) to a
// Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "mean", "":
		return Mean, nil
	case "median":
		return Median, nil
	case "std":
		return Std, nil
	default:
		return 0, &UnknownMethodError{Method: s}
	}
}

// Config configures the composite reducer.
type Config struct {
	Method Method
}

// DefaultConfig returns the spec's default: Method=Mean.
func DefaultConfig() Config {
	return Config{Method: Mean}
}

// Reduce aggregates tensor[r][theta][p][n][v] over its n (track) axis,
// ignoring NaN inputs, and returns composite[r][theta][p][v]. A cell with
// no finite inputs remains NaN.
func Reduce(tensor [][][][][]float64, cfg Config) [][][][]float64 {
	r := len(tensor)
	out := make([][][][]float64, r)
	for ri := range tensor {
		theta := len(tensor[ri])
		out[ri] = make([][][]float64, theta)
		for ti := range tensor[ri] {
			p := len(tensor[ri][ti])
			out[ri][ti] = make([][]float64, p)
			for pi := range tensor[ri][ti] {
				n := len(tensor[ri][ti][pi])
				v := 0
				if n > 0 {
					v = len(tensor[ri][ti][pi][0])
				}
				out[ri][ti][pi] = make([]float64, v)
				for vi := 0; vi < v; vi++ {
					samples := make([]float64, n)
					for ni := 0; ni < n; ni++ {
						samples[ni] = tensor[ri][ti][pi][ni][vi]
					}
					out[ri][ti][pi][vi] = aggregate(samples, cfg.Method)
				}
			}
		}
	}
	return out
}

func aggregate(n []float64, method Method) float64 {
	finite := finiteValues(n)
	if len(finite) == 0 {
		return math.NaN()
	}
	switch method {
	case Mean:
		return stat.Mean(finite, nil)
	case Median:
		return medianOf(finite)
	case Std:
		return stat.PopStdDev(finite, nil)
	default:
		return math.NaN()
	}
}

func finiteValues(n []float64) []float64 {
	out := make([]float64, 0, len(n))
	for _, v := range n {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// medianOf computes the population median via gonum/stat's quantile
// estimator on a sorted copy, using the empirical (no-interpolation-gap)
// CDF so a single sample returns itself.
func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	insertionSort(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func insertionSort(values []float64) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j-1] > values[j]; j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}
