package optionmodels

import "fmt"

// SolverConfigYAML is the optional tuning file for the implied
// volatility solver. Absent fields keep the built-in defaults.
type SolverConfigYAML struct {
	Solver SolverYAML `yaml:"solver"`
}

type SolverYAML struct {
	MaxIterations *int     `yaml:"maxIterations,omitempty"`
	Tolerance     *float64 `yaml:"tolerance,omitempty"`
	BracketLow    *float64 `yaml:"bracketLow,omitempty"`
	BracketHigh   *float64 `yaml:"bracketHigh,omitempty"`
}

func (c *SolverConfigYAML) Validate() error {
	if c.Solver.MaxIterations != nil && *c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("SolverConfigYAML: Validate: maxIterations must be positive, got %d", *c.Solver.MaxIterations)
	}

	if c.Solver.Tolerance != nil && *c.Solver.Tolerance <= 0 {
		return fmt.Errorf("SolverConfigYAML: Validate: tolerance must be positive, got %v", *c.Solver.Tolerance)
	}

	if c.Solver.BracketLow != nil && *c.Solver.BracketLow <= 0 {
		return fmt.Errorf("SolverConfigYAML: Validate: bracketLow must be positive, got %v", *c.Solver.BracketLow)
	}

	if c.Solver.BracketLow != nil && c.Solver.BracketHigh != nil && *c.Solver.BracketHigh <= *c.Solver.BracketLow {
		return fmt.Errorf("SolverConfigYAML: Validate: bracketHigh must exceed bracketLow")
	}

	return nil
}
