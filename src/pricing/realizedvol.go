package pricing

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// RealizedVolatility annualizes the standard deviation of log returns
// over a close price series. periodsPerYear is the sampling frequency,
// e.g. 252 for daily closes.
func RealizedVolatility(closes []float64, periodsPerYear int) (float64, error) {
	if len(closes) < 2 {
		return 0, fmt.Errorf("RealizedVolatility: need at least two closes, got %d", len(closes))
	}

	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("RealizedVolatility: periodsPerYear must be positive, got %d", periodsPerYear)
	}

	for i, c := range closes {
		if c <= 0 {
			return 0, fmt.Errorf("RealizedVolatility: closes[%d] must be positive, got %v", i, c)
		}
	}

	logReturns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		logReturns = append(logReturns, math.Log(closes[i]/closes[i-1]))
	}

	sd, err := stats.StandardDeviation(logReturns)
	if err != nil {
		return 0, fmt.Errorf("RealizedVolatility: failed to caculate the standard deviation: %v", err)
	}

	return sd * math.Sqrt(float64(periodsPerYear)), nil
}
