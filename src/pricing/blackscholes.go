package pricing

import (
	"fmt"
	"math"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
)

const sqrt2Pi = 2.5066282746310002

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// BlackScholes prices a European option and its sensitivities in one
// pass. Inputs that fail validation yield ErrInvalidInputs, never a
// partial result.
func BlackScholes(in optionmodels.OptionInputs) (optionmodels.PricingResult, error) {
	if err := in.Validate(); err != nil {
		return optionmodels.PricingResult{}, fmt.Errorf("BlackScholes: %w: %v", ErrInvalidInputs, err)
	}

	S := in.StockPrice
	K := in.StrikePrice
	T := in.TimeToMaturity
	r := in.RiskFreeRate
	sigma := in.Volatility

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discount := math.Exp(-r * T)

	var price, delta, theta, rho float64
	switch in.OptionType {
	case optionmodels.Call:
		price = S*normCDF(d1) - K*discount*normCDF(d2)
		delta = normCDF(d1)
		theta = -S*normPDF(d1)*sigma/(2*sqrtT) - r*K*discount*normCDF(d2)
		rho = K * T * discount * normCDF(d2)
	case optionmodels.Put:
		price = K*discount*normCDF(-d2) - S*normCDF(-d1)
		delta = -normCDF(-d1)
		theta = -S*normPDF(d1)*sigma/(2*sqrtT) - r*K*discount*normCDF(-d2)
		rho = -K * T * discount * normCDF(-d2)
	}

	return optionmodels.PricingResult{
		OptionPrice: price,
		Delta:       delta,
		Gamma:       normPDF(d1) / (S * sigma * sqrtT),
		Vega:        S * normPDF(d1) * sqrtT / 100, // per 1% change in volatility
		Theta:       theta / 365,                   // per calendar day
		Rho:         rho / 100,                     // per 1% change in rates
	}, nil
}
