package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
)

func TestImpliedVolatility(t *testing.T) {
	t.Run("recovers volatility from a market price", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)
		in.Volatility = 0

		sigma, err := ImpliedVolatility(in, 10.4506, DefaultSolverConfig())
		assert.NoError(t, err)
		assert.Less(t, math.Abs(sigma-0.20), 1e-3)
	})

	t.Run("round trips prices for both option types", func(t *testing.T) {
		for _, optionType := range []optionmodels.OptionType{optionmodels.Call, optionmodels.Put} {
			for _, sigma := range []float64{0.1, 0.2, 0.35, 0.6} {
				in := baseInputs(optionType)
				in.Volatility = sigma

				priced, err := BlackScholes(in)
				assert.NoError(t, err)

				in.Volatility = 0
				recovered, err := ImpliedVolatility(in, priced.OptionPrice, DefaultSolverConfig())
				assert.NoError(t, err)
				assert.Less(t, math.Abs(recovered-sigma), 1e-4)
			}
		}
	})

	t.Run("price below intrinsic value does not converge", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)
		in.StrikePrice = 80
		in.Volatility = 0

		_, err := ImpliedVolatility(in, 15, DefaultSolverConfig())
		assert.ErrorIs(t, err, ErrNotConverged)
	})

	t.Run("at the money with zero rate does not converge", func(t *testing.T) {
		// the initial guess collapses to zero here, which fails the
		// first model evaluation before bisection can run
		in := baseInputs(optionmodels.Call)
		in.RiskFreeRate = 0
		in.Volatility = 0

		_, err := ImpliedVolatility(in, 7.9656, DefaultSolverConfig())
		assert.ErrorIs(t, err, ErrNotConverged)
	})

	t.Run("zero value config falls back to defaults", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)
		in.Volatility = 0

		sigma, err := ImpliedVolatility(in, 10.4506, SolverConfig{})
		assert.NoError(t, err)
		assert.Less(t, math.Abs(sigma-0.20), 1e-3)
	})
}

func TestNewtonRaphson(t *testing.T) {
	t.Run("converges from the initial guess", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)
		marketPrice := 10.4506

		sigma, converged, err := newtonRaphson(in, marketPrice, initialGuess(in, marketPrice), DefaultSolverConfig())
		assert.NoError(t, err)
		assert.True(t, converged)
		assert.Less(t, math.Abs(sigma-0.20), 1e-3)
	})

	t.Run("stops without error when vega vanishes", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)
		in.StrikePrice = 80

		_, converged, err := newtonRaphson(in, 15, 0.0001, DefaultSolverConfig())
		assert.NoError(t, err)
		assert.False(t, converged)
	})

	t.Run("reports an error when a step leaves the valid domain", func(t *testing.T) {
		// a near-zero market price forces an overshoot into negative
		// volatility
		in := baseInputs(optionmodels.Call)
		marketPrice := 0.01

		_, converged, err := newtonRaphson(in, marketPrice, initialGuess(in, marketPrice), DefaultSolverConfig())
		assert.ErrorIs(t, err, ErrInvalidInputs)
		assert.False(t, converged)
	})
}

func TestBisect(t *testing.T) {
	t.Run("finds the root in the bracket", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)

		priced, err := BlackScholes(in)
		assert.NoError(t, err)

		sigma, converged, err := bisect(in, priced.OptionPrice, DefaultSolverConfig())
		assert.NoError(t, err)
		assert.True(t, converged)
		assert.Less(t, math.Abs(sigma-0.20), 1e-3)
	})

	t.Run("exhausts when no volatility reproduces the price", func(t *testing.T) {
		in := baseInputs(optionmodels.Call)

		_, converged, err := bisect(in, 200, DefaultSolverConfig())
		assert.NoError(t, err)
		assert.False(t, converged)
	})
}
