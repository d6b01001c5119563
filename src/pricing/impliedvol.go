package pricing

import (
	"fmt"
	"math"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
)

// SolverConfig bounds the implied volatility search. The zero value
// resolves to the defaults below.
type SolverConfig struct {
	MaxIterations int
	Tolerance     float64
	BracketLow    float64
	BracketHigh   float64
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIterations: 100,
		Tolerance:     1e-5,
		BracketLow:    1e-5,
		BracketHigh:   5.0,
	}
}

func (c SolverConfig) WithDefaults() SolverConfig {
	defaults := DefaultSolverConfig()

	if c.MaxIterations <= 0 {
		c.MaxIterations = defaults.MaxIterations
	}

	if c.Tolerance <= 0 {
		c.Tolerance = defaults.Tolerance
	}

	if c.BracketLow <= 0 {
		c.BracketLow = defaults.BracketLow
	}

	if c.BracketHigh <= c.BracketLow {
		c.BracketHigh = defaults.BracketHigh
	}

	return c
}

// initialGuess seeds the search with the Manaster-Koehler
// approximation. A market price at or below intrinsic value carries no
// time value, so the search starts just above zero.
func initialGuess(in optionmodels.OptionInputs, marketPrice float64) float64 {
	intrinsic := math.Max(0, in.StockPrice-in.StrikePrice)
	if in.OptionType == optionmodels.Put {
		intrinsic = math.Max(0, in.StrikePrice-in.StockPrice)
	}

	if marketPrice-intrinsic <= 0 {
		return 0.0001
	}

	return math.Sqrt(2 * math.Abs((math.Log(in.StockPrice/in.StrikePrice)+in.RiskFreeRate*in.TimeToMaturity)/in.TimeToMaturity))
}

// newtonRaphson refines sigma until the model price meets marketPrice
// within tolerance. Sigma is intentionally left unclamped between
// steps: a step that walks out of the valid domain fails the next
// model evaluation and surfaces as an error. A zero vega stops the
// phase without an error so the caller can fall back to bisection.
func newtonRaphson(in optionmodels.OptionInputs, marketPrice, guess float64, cfg SolverConfig) (float64, bool, error) {
	sigma := guess

	for i := 0; i < cfg.MaxIterations; i++ {
		in.Volatility = sigma

		result, err := BlackScholes(in)
		if err != nil {
			return 0, false, fmt.Errorf("newtonRaphson: iteration %d: %w", i, err)
		}

		diff := result.OptionPrice - marketPrice
		if math.Abs(diff) < cfg.Tolerance {
			return sigma, true, nil
		}

		vega := result.Vega * 100 // undo the 1% scaling
		if vega == 0 {
			return 0, false, nil
		}

		sigma = sigma - diff/vega
	}

	return 0, false, nil
}

// bisect sweeps the configured bracket, assuming price increases
// monotonically in volatility over it.
func bisect(in optionmodels.OptionInputs, marketPrice float64, cfg SolverConfig) (float64, bool, error) {
	low := cfg.BracketLow
	high := cfg.BracketHigh

	for i := 0; i < cfg.MaxIterations; i++ {
		mid := (low + high) / 2
		in.Volatility = mid

		result, err := BlackScholes(in)
		if err != nil {
			return 0, false, fmt.Errorf("bisect: iteration %d: %w", i, err)
		}

		diff := result.OptionPrice - marketPrice
		if math.Abs(diff) < cfg.Tolerance {
			return mid, true, nil
		}

		if diff > 0 {
			high = mid
		} else {
			low = mid
		}
	}

	return 0, false, nil
}

// ImpliedVolatility inverts the pricing model for the volatility that
// reproduces marketPrice. Newton-Raphson runs first from the
// Manaster-Koehler guess; when it stalls on a flat vega or runs out of
// iterations, a bisection sweep takes over. Exhausting both phases, or
// stepping outside the model's valid domain, yields ErrNotConverged.
func ImpliedVolatility(in optionmodels.OptionInputs, marketPrice float64, cfg SolverConfig) (float64, error) {
	cfg = cfg.WithDefaults()

	guess := initialGuess(in, marketPrice)

	sigma, converged, err := newtonRaphson(in, marketPrice, guess, cfg)
	if err != nil {
		return 0, fmt.Errorf("ImpliedVolatility: %w: %v", ErrNotConverged, err)
	}

	if converged {
		return sigma, nil
	}

	sigma, converged, err = bisect(in, marketPrice, cfg)
	if err != nil {
		return 0, fmt.Errorf("ImpliedVolatility: %w: %v", ErrNotConverged, err)
	}

	if converged {
		return sigma, nil
	}

	return 0, fmt.Errorf("ImpliedVolatility: %w", ErrNotConverged)
}
