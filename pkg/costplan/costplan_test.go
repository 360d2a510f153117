package costplan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-fetchcache/pkg/costplan"
)

func TestEstimate(t *testing.T) {
	t.Run("Extrapolates linearly", func(t *testing.T) {
		// A 30-county sample took a minute; the full 3000-county run
		// should come out at 100 minutes.
		total, err := costplan.Estimate(60*time.Second, 30, 3000)

		require.NoError(t, err)
		assert.Equal(t, 6000*time.Second, total)
		assert.Equal(t, 100*time.Minute, total)
	})

	t.Run("Scales down as well as up", func(t *testing.T) {
		total, err := costplan.Estimate(10*time.Minute, 100, 5)

		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, total)
	})

	t.Run("Zero observed units is an error, not infinity", func(t *testing.T) {
		_, err := costplan.Estimate(time.Minute, 0, 100)

		assert.ErrorIs(t, err, costplan.ErrNoObservedUnits)
	})

	t.Run("Negative total units is rejected", func(t *testing.T) {
		_, err := costplan.Estimate(time.Minute, 30, -1)

		require.Error(t, err)
	})
}

func TestSample_EstimateTotal(t *testing.T) {
	sample := costplan.Sample{Elapsed: 60 * time.Second, Units: 30}

	total, err := sample.EstimateTotal(3000)

	require.NoError(t, err)
	assert.Equal(t, 100*time.Minute, total)
}

func TestMeasure(t *testing.T) {
	ctx := context.Background()

	t.Run("Times a successful run", func(t *testing.T) {
		sample, err := costplan.Measure(ctx, 5, func(_ context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 5, sample.Units)
		assert.GreaterOrEqual(t, sample.Elapsed, 10*time.Millisecond)
	})

	t.Run("Discards the sample when the run fails", func(t *testing.T) {
		runErr := errors.New("api unreachable")

		sample, err := costplan.Measure(ctx, 5, func(_ context.Context) error {
			return runErr
		})

		assert.ErrorIs(t, err, runErr)
		assert.Zero(t, sample)
	})
}
