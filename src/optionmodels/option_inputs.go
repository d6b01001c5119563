package optionmodels

import "fmt"

// OptionInputs is the validated scalar input set for a single pricing
// call. The rate may be zero or negative, all other magnitudes must be
// strictly positive.
type OptionInputs struct {
	StockPrice     float64
	StrikePrice    float64
	TimeToMaturity float64
	RiskFreeRate   float64
	Volatility     float64
	OptionType     OptionType
}

func (o OptionInputs) Validate() error {
	if o.StockPrice <= 0 {
		return fmt.Errorf("OptionInputs: Validate: stock price must be positive, got %v", o.StockPrice)
	}

	if o.StrikePrice <= 0 {
		return fmt.Errorf("OptionInputs: Validate: strike price must be positive, got %v", o.StrikePrice)
	}

	if o.TimeToMaturity <= 0 {
		return fmt.Errorf("OptionInputs: Validate: time to maturity must be positive, got %v", o.TimeToMaturity)
	}

	if o.Volatility <= 0 {
		return fmt.Errorf("OptionInputs: Validate: volatility must be positive, got %v", o.Volatility)
	}

	if err := o.OptionType.Validate(); err != nil {
		return fmt.Errorf("OptionInputs: Validate: %w", err)
	}

	return nil
}
