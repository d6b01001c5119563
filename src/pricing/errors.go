package pricing

import "fmt"

var (
	ErrInvalidInputs = fmt.Errorf("invalid pricing inputs")
	ErrNotConverged  = fmt.Errorf("implied volatility did not converge")
)
