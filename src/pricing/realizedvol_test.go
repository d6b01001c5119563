package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealizedVolatility(t *testing.T) {
	t.Run("annualizes the standard deviation of log returns", func(t *testing.T) {
		closes := []float64{100, 101, 100, 102}

		vol, err := RealizedVolatility(closes, 252)
		assert.NoError(t, err)
		assert.Less(t, math.Abs(vol-0.1965), equalityThreshold)
	})

	t.Run("constant series has zero volatility", func(t *testing.T) {
		closes := []float64{42, 42, 42, 42, 42}

		vol, err := RealizedVolatility(closes, 252)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, vol)
	})

	t.Run("requires at least two closes", func(t *testing.T) {
		_, err := RealizedVolatility([]float64{100}, 252)
		assert.Error(t, err)
	})

	t.Run("rejects non positive closes", func(t *testing.T) {
		_, err := RealizedVolatility([]float64{100, 0, 101}, 252)
		assert.Error(t, err)
	})

	t.Run("rejects non positive periods", func(t *testing.T) {
		_, err := RealizedVolatility([]float64{100, 101}, 0)
		assert.Error(t, err)
	})
}
