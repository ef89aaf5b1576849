package workerpool

import (
	"errors"
	"testing"
)

func TestMapSerial(t *testing.T) {
	out, errs := Map(5, Options{Parallel: false}, func(i int) (int, error) {
		return i * i, nil
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []int{0, 1, 4, 9, 16}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], v)
		}
	}
}

func TestMapParallelPreservesOrder(t *testing.T) {
	out, errs := Map(100, DefaultOptions(), func(i int) (int, error) {
		return i * 2, nil
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for i := range out {
		if out[i] != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], i*2)
		}
	}
}

func TestMapSkipErrorsCollectsAndContinues(t *testing.T) {
	opts := DefaultOptions()
	out, errs := Map(10, opts, func(i int) (int, error) {
		if i == 3 {
			return 0, errors.New("boom")
		}
		return i, nil
	})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if out[3] != 0 {
		t.Fatalf("expected zero value at failed index, got %d", out[3])
	}
	if out[5] != 5 {
		t.Fatalf("expected other indices to succeed, got %d", out[5])
	}
}

func TestMapAbortsWithoutSkipErrors(t *testing.T) {
	opts := Options{Parallel: false, SkipErrors: false}
	out, errs := Map(5, opts, func(i int) (int, error) {
		if i == 2 {
			return 0, errors.New("boom")
		}
		return i, nil
	})
	if out != nil {
		t.Fatalf("expected nil results on abort, got %v", out)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(errs))
	}
}

func TestMapEmptyInput(t *testing.T) {
	out, errs := Map(0, DefaultOptions(), func(i int) (int, error) {
		t.Fatal("fn should not be called for n=0")
		return 0, nil
	})
	if len(out) != 0 || errs != nil {
		t.Fatalf("expected empty results, got out=%v errs=%v", out, errs)
	}
}
