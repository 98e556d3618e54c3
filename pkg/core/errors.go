package core

import "errors"

var (
	// ErrInvalidInput reports malformed or out-of-range configuration or
	// correlation inputs. It is raised before any solving begins.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInfeasibleOperatingPoint reports a physically impossible
	// heat-transfer requirement within an effect (heating temperature at or
	// below the elevated boiling temperature).
	ErrInfeasibleOperatingPoint = errors.New("infeasible operating point")

	// ErrNonConvergent reports that the train fixed-point iteration reached
	// its iteration cap without meeting tolerance.
	ErrNonConvergent = errors.New("solver did not converge")
)
