package optionmodels

// PricingResult holds the model price and sensitivities. Vega is per
// 1 percentage point of volatility, theta per calendar day, rho per
// 1 percentage point of rate.
type PricingResult struct {
	OptionPrice float64 `json:"optionPrice"`
	Delta       float64 `json:"delta"`
	Gamma       float64 `json:"gamma"`
	Vega        float64 `json:"vega"`
	Theta       float64 `json:"theta"`
	Rho         float64 `json:"rho"`
}

// ImpliedVolatilityResult is a PricingResult evaluated at the recovered
// volatility, plus the volatility itself.
type ImpliedVolatilityResult struct {
	PricingResult
	ImpliedVolatility float64 `json:"impliedVolatility"`
}
