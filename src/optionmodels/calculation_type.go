package optionmodels

import "fmt"

type CalculationType string

func (c CalculationType) Validate() error {
	if c != CalculationTypeOptionPrice && c != CalculationTypeImpliedVolatility {
		return fmt.Errorf("CalculationType: Validate: invalid calculation type: %s", c)
	}

	return nil
}

const (
	CalculationTypeOptionPrice       CalculationType = "optionPrice"
	CalculationTypeImpliedVolatility CalculationType = "impliedVolatility"
)
