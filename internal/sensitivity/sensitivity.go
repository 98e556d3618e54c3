// Package sensitivity runs families of independent scenario computations to
// show how steam consumption, heat-transfer area, and steam economy respond
// to feed and utility conditions. Each point is a full steady-state scenario;
// points share nothing and run concurrently.
package sensitivity

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/scenario"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

// Parameter identifies a swept scenario input.
type Parameter string

const (
	// ParamFeedFlow sweeps the fresh feed mass flow.
	ParamFeedFlow Parameter = "feedFlow"
	// ParamFeedFraction sweeps the feed sucrose mass fraction.
	ParamFeedFraction Parameter = "feedFraction"
	// ParamSteamPressure sweeps the live steam pressure.
	ParamSteamPressure Parameter = "steamPressure"
)

// ParseParameter converts a user-facing parameter name into a typed value.
func ParseParameter(s string) (Parameter, error) {
	switch Parameter(s) {
	case ParamFeedFlow, ParamFeedFraction, ParamSteamPressure:
		return Parameter(s), nil
	}
	return "", fmt.Errorf("%w: sweep parameter must be %q, %q or %q, got %q",
		core.ErrInvalidInput, ParamFeedFlow, ParamFeedFraction, ParamSteamPressure, s)
}

// Default sweep shape: multiplicative factors 0.5–1.5.
const (
	DefaultSweepPoints = 7
	DefaultGridPoints  = 9
	factorLow          = 0.5
	factorHigh         = 1.5
)

// DefaultFactors returns the default multiplicative factor grid for a sweep.
func DefaultFactors(n int) []float64 {
	if n < 2 {
		n = DefaultSweepPoints
	}
	return floats.Span(make([]float64, n), factorLow, factorHigh)
}

// Point is the outcome of one swept scenario.
type Point struct {
	// Factor is the multiplicative factor applied to the base value.
	Factor float64 `json:"factor"`
	// Value is the resulting absolute parameter value.
	Value float64 `json:"value"`
	// SteamConsumption is the live steam in kg/h.
	SteamConsumption float64 `json:"steamConsumption"`
	// TotalArea is the summed heat-transfer area in m².
	TotalArea float64 `json:"totalArea"`
	// SteamEconomy is total evaporation over live steam.
	SteamEconomy float64 `json:"steamEconomy"`
	// CrystalMass is the theoretical crystal yield in kg/h.
	CrystalMass float64 `json:"crystalMass"`
}

// Sweep perturbs one parameter of the base scenario by each factor and
// computes the resulting steady states concurrently. The base scenario is
// never mutated. The first failing point aborts the sweep.
func Sweep(ctx context.Context, base config.ScenarioSpec, param Parameter, factors []float64) ([]Point, error) {
	if len(factors) == 0 {
		factors = DefaultFactors(DefaultSweepPoints)
	}
	points := make([]Point, len(factors))
	errs := make([]error, len(factors))

	var wg sync.WaitGroup
	for i, f := range factors {
		wg.Add(1)
		go func(i int, f float64) {
			defer wg.Done()
			spec, value, err := apply(base, param, f)
			if err != nil {
				errs[i] = err
				return
			}
			result, err := scenario.Compute(ctx, spec)
			if err != nil {
				errs[i] = fmt.Errorf("sweep point %s=%.4g: %w", param, value, err)
				return
			}
			points[i] = Point{
				Factor:           f,
				Value:            value,
				SteamConsumption: result.Train.SteamConsumption,
				TotalArea:        result.Train.TotalArea,
				SteamEconomy:     result.Train.SteamEconomy,
				CrystalMass:      result.Crystallization.CrystalMass,
			}
		}(i, f)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// GridCell is the outcome of one cell of a two-parameter grid.
type GridCell struct {
	// X and Y are the absolute parameter values of this cell.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// SteamEconomy is the train steam economy at this operating point.
	SteamEconomy float64 `json:"steamEconomy"`
}

// Grid sweeps two parameters jointly and returns an n1×n2 grid of steam
// economies, rows indexed by the first parameter.
func Grid(ctx context.Context, base config.ScenarioSpec, p1, p2 Parameter, n1, n2 int) ([][]GridCell, error) {
	if p1 == p2 {
		return nil, fmt.Errorf("%w: grid parameters must differ, got %q twice", core.ErrInvalidInput, p1)
	}
	if n1 < 2 {
		n1 = DefaultGridPoints
	}
	if n2 < 2 {
		n2 = DefaultGridPoints
	}
	f1 := DefaultFactors(n1)
	f2 := DefaultFactors(n2)

	grid := make([][]GridCell, n1)
	errs := make([]error, n1)
	var wg sync.WaitGroup
	for i := range f1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row := make([]GridCell, n2)
			for j := range f2 {
				spec, x, err := apply(base, p1, f1[i])
				if err == nil {
					var y float64
					spec, y, err = apply(spec, p2, f2[j])
					if err == nil {
						var result *core.ScenarioResult
						result, err = scenario.Compute(ctx, spec)
						if err == nil {
							row[j] = GridCell{X: x, Y: y, SteamEconomy: result.Train.SteamEconomy}
						}
					}
				}
				if err != nil {
					errs[i] = fmt.Errorf("grid cell (%d,%d): %w", i, j, err)
					return
				}
			}
			grid[i] = row
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// apply returns a copy of the base scenario with one parameter scaled by the
// factor, plus the resulting absolute value.
func apply(base config.ScenarioSpec, param Parameter, factor float64) (config.ScenarioSpec, float64, error) {
	spec := base
	// Slices in the spec are read-only here; Compute copies before use.
	switch param {
	case ParamFeedFlow:
		spec.Train.FeedFlow = base.Train.FeedFlow * factor
		return spec, spec.Train.FeedFlow, nil
	case ParamFeedFraction:
		spec.Train.FeedFraction = base.Train.FeedFraction * factor
		return spec, spec.Train.FeedFraction, nil
	case ParamSteamPressure:
		spec.Train.SteamPressure = base.Train.SteamPressure * factor
		return spec, spec.Train.SteamPressure, nil
	}
	return spec, 0, fmt.Errorf("%w: unknown sweep parameter %q", core.ErrInvalidInput, param)
}
