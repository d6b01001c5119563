package optionmodels

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

// RealizedVolatilityRequest carries a close price series to annualize.
// GET requests encode the series as repeated query parameters, POST
// requests send the same fields as JSON.
type RealizedVolatilityRequest struct {
	Closes         []float64 `json:"closes" schema:"closes"`
	PeriodsPerYear *int      `json:"periodsPerYear" schema:"periodsPerYear"`

	requestID uuid.UUID
}

const DefaultPeriodsPerYear = 252

func (req *RealizedVolatilityRequest) ParseHTTPRequest(r *http.Request) error {
	switch r.Method {
	case http.MethodGet:
		if err := schema.NewDecoder().Decode(req, r.URL.Query()); err != nil {
			return fmt.Errorf("RealizedVolatilityRequest: ParseHTTPRequest: decode query: %w", err)
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return fmt.Errorf("RealizedVolatilityRequest: ParseHTTPRequest: decode: %w", err)
		}
	}

	return nil
}

func (req *RealizedVolatilityRequest) Validate(r *http.Request) error {
	if len(req.Closes) < 2 {
		return fmt.Errorf("RealizedVolatilityRequest: Validate: closes must contain at least two prices")
	}

	for i, c := range req.Closes {
		if c <= 0 {
			return fmt.Errorf("RealizedVolatilityRequest: Validate: closes[%d] must be positive, got %v", i, c)
		}
	}

	if req.PeriodsPerYear != nil && *req.PeriodsPerYear <= 0 {
		return fmt.Errorf("RealizedVolatilityRequest: Validate: periodsPerYear must be positive, got %d", *req.PeriodsPerYear)
	}

	return nil
}

// Periods returns the annualization factor, defaulting to trading days
// per year.
func (req *RealizedVolatilityRequest) Periods() int {
	if req.PeriodsPerYear == nil {
		return DefaultPeriodsPerYear
	}

	return *req.PeriodsPerYear
}

func (req *RealizedVolatilityRequest) SetRequestID(id uuid.UUID) {
	req.requestID = id
}

func (req *RealizedVolatilityRequest) GetRequestID() uuid.UUID {
	return req.requestID
}
