package optionmodels

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// CalculateOptionRequest is the payload of POST /calculate. Numeric
// fields are pointers so a missing field can be told apart from zero.
// Validation messages below are part of the public contract and must
// not be reworded.
type CalculateOptionRequest struct {
	StockPrice     *float64        `json:"stockPrice"`
	StrikePrice    *float64        `json:"strikePrice"`
	TimeToMaturity *float64        `json:"timeToMaturity"`
	RiskFreeRate   *float64        `json:"riskFreeRate"`
	OptionType     OptionType      `json:"optionType"`
	CalcType       CalculationType `json:"calcType"`
	Volatility     *float64        `json:"volatility"`
	OptionPrice    *float64        `json:"optionPrice"`

	requestID uuid.UUID
}

func (c *CalculateOptionRequest) ParseHTTPRequest(r *http.Request) error {
	if err := json.NewDecoder(r.Body).Decode(c); err != nil {
		return fmt.Errorf("CalculateOptionRequest: ParseHTTPRequest: decode: %w", err)
	}

	if c.CalcType == "" {
		c.CalcType = CalculationTypeOptionPrice
	}

	return nil
}

// Validate returns the error text exactly as it is written to the
// response body. Shared field violations are collected and joined into
// a single message before the calculation-type specific checks run.
func (c *CalculateOptionRequest) Validate(r *http.Request) error {
	var errs []string

	if c.StockPrice == nil || *c.StockPrice <= 0 {
		errs = append(errs, "Stock Price must be a positive number.")
	}

	if c.StrikePrice == nil || *c.StrikePrice <= 0 {
		errs = append(errs, "Strike Price must be a positive number.")
	}

	if c.TimeToMaturity == nil || *c.TimeToMaturity <= 0 {
		errs = append(errs, "Time to Maturity must be a positive number.")
	}

	if c.RiskFreeRate == nil {
		errs = append(errs, "Risk-Free Rate is required.")
	}

	if err := c.OptionType.Validate(); err != nil {
		errs = append(errs, `Option Type must be "call" or "put".`)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, " "))
	}

	switch c.CalcType {
	case CalculationTypeOptionPrice:
		if c.Volatility == nil || *c.Volatility <= 0 {
			return fmt.Errorf("Volatility must be a positive number.")
		}
	case CalculationTypeImpliedVolatility:
		if c.OptionPrice == nil || *c.OptionPrice <= 0 {
			return fmt.Errorf("Option Price must be a positive number.")
		}
	default:
		return fmt.Errorf("Invalid calculation type.")
	}

	return nil
}

// OptionInputs converts a validated request into engine inputs. On the
// implied volatility path the volatility field is left at zero for the
// solver to fill in.
func (c *CalculateOptionRequest) OptionInputs() OptionInputs {
	inputs := OptionInputs{
		StockPrice:     *c.StockPrice,
		StrikePrice:    *c.StrikePrice,
		TimeToMaturity: *c.TimeToMaturity,
		RiskFreeRate:   *c.RiskFreeRate,
		OptionType:     c.OptionType,
	}

	if c.Volatility != nil {
		inputs.Volatility = *c.Volatility
	}

	return inputs
}

func (c *CalculateOptionRequest) SetRequestID(id uuid.UUID) {
	c.requestID = id
}

func (c *CalculateOptionRequest) GetRequestID() uuid.UUID {
	return c.requestID
}
