// Package costplan estimates the wall-clock cost of a full-scale fetch run
// from a small observed sample, e.g. "30 counties took a minute, how long
// for all 3000?". The model is a deliberate linear extrapolation — per-unit
// cost is assumed constant — because the numbers feed a go/no-go planning
// decision, not a billing system.
package costplan

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoObservedUnits is returned when an estimate is requested over a sample
// that observed zero (or negatively many) units.
var ErrNoObservedUnits = errors.New("costplan: observed unit count must be positive")

// Estimate extrapolates the observed duration over observedUnits to
// totalUnits linearly.
func Estimate(observed time.Duration, observedUnits, totalUnits int) (time.Duration, error) {
	if observedUnits <= 0 {
		return 0, ErrNoObservedUnits
	}
	if totalUnits < 0 {
		return 0, fmt.Errorf("costplan: total unit count must not be negative, got %d", totalUnits)
	}
	return time.Duration(int64(observed) * int64(totalUnits) / int64(observedUnits)), nil
}

// Sample is an ephemeral measurement of a fetch run: how long it took and
// how many units it covered. It is never persisted.
type Sample struct {
	Elapsed time.Duration
	Units   int
}

// EstimateTotal extrapolates the sample to totalUnits.
func (s Sample) EstimateTotal(totalUnits int) (time.Duration, error) {
	return Estimate(s.Elapsed, s.Units, totalUnits)
}

// Measure times fn over a known unit count and returns the resulting Sample.
// If fn fails, no sample is returned — a partial run says nothing reliable
// about per-unit cost.
func Measure(ctx context.Context, units int, fn func(ctx context.Context) error) (Sample, error) {
	start := time.Now()
	if err := fn(ctx); err != nil {
		return Sample{}, err
	}
	return Sample{Elapsed: time.Since(start), Units: units}, nil
}
