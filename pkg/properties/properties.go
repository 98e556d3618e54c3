// Package properties provides the physical property correlations used by the
// evaporator and crystallizer balances: water saturation temperature, boiling
// point elevation of sucrose solutions, latent heat of vaporization, syrup
// specific heat, and sucrose solubility. All functions are pure and stateless;
// inputs outside the correlation's physical range fail with
// core.ErrInvalidInput — values are never clamped silently.
package properties

import (
	"fmt"
	"math"

	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

const (
	absoluteZeroC = -273.15

	// Antoine equation constants for water, log10(P[mmHg]) = A − B/(C + T[°C]).
	// Low range fitted for 1–100 °C, high range for 99–374 °C.
	antoineLowA  = 8.07131
	antoineLowB  = 1730.63
	antoineLowC  = 233.426
	antoineHighA = 8.14019
	antoineHighB = 1810.94
	antoineHighC = 244.485

	barToMmHg = 750.0617
	// atmosphericBar is the crossover between the two Antoine ranges.
	atmosphericBar = 1.01325

	// MinPressure and MaxPressure bound the validity range of the saturation
	// correlation, bar absolute. Vacuum effects sit near the lower end, live
	// steam near the upper.
	MinPressure = 0.01
	MaxPressure = 10.0
)

// BoilingPoint returns the saturation temperature of pure water in °C at the
// given absolute pressure in bar. Monotonic increasing in pressure.
func BoilingPoint(pressureBar float64) (float64, error) {
	if pressureBar <= 0 {
		return 0, fmt.Errorf("%w: pressure must be > 0 bar, got %.4g", core.ErrInvalidInput, pressureBar)
	}
	if pressureBar < MinPressure || pressureBar > MaxPressure {
		return 0, fmt.Errorf("%w: pressure %.4g bar outside correlation range [%.4g, %.4g]",
			core.ErrInvalidInput, pressureBar, MinPressure, MaxPressure)
	}
	a, b, c := antoineLowA, antoineLowB, antoineLowC
	if pressureBar > atmosphericBar {
		a, b, c = antoineHighA, antoineHighB, antoineHighC
	}
	logP := math.Log10(pressureBar * barToMmHg)
	return b/(a-logP) - c, nil
}

// BoilingPointElevation returns the boiling temperature rise in K of a
// sucrose solution over pure water, from a piecewise Dühring-type fit in
// mass percent. Zero at zero concentration, strictly increasing.
func BoilingPointElevation(sucroseFraction, boilingPointC float64) (float64, error) {
	if sucroseFraction < 0 || sucroseFraction > 1 {
		return 0, fmt.Errorf("%w: sucrose fraction must be in [0, 1], got %.4g", core.ErrInvalidInput, sucroseFraction)
	}
	if boilingPointC < absoluteZeroC {
		return 0, fmt.Errorf("%w: boiling point must be above absolute zero, got %.4g °C", core.ErrInvalidInput, boilingPointC)
	}
	x := sucroseFraction * 100
	if x < 50 {
		return 0.03*x + 0.00015*x*x, nil
	}
	return 0.045*x + 0.00030*x*x, nil
}

// LatentHeatVaporization returns the latent heat of vaporization of water in
// kJ/kg at the given temperature in °C. Decreasing in temperature; valid up
// to the critical point.
func LatentHeatVaporization(temperatureC float64) (float64, error) {
	if temperatureC < absoluteZeroC {
		return 0, fmt.Errorf("%w: temperature must be above absolute zero, got %.4g °C", core.ErrInvalidInput, temperatureC)
	}
	if temperatureC >= 374.0 {
		return 0, fmt.Errorf("%w: temperature %.4g °C at or above the critical point", core.ErrInvalidInput, temperatureC)
	}
	return 2501.0 - 2.36*temperatureC, nil
}

// SpecificHeat returns the specific heat of sucrose syrup in kJ/(kg·K) at the
// given sucrose mass fraction. Decreasing in concentration (water carries the
// higher specific heat).
func SpecificHeat(sucroseFraction float64) (float64, error) {
	if sucroseFraction < 0 || sucroseFraction > 1 {
		return 0, fmt.Errorf("%w: sucrose fraction must be in [0, 1], got %.4g", core.ErrInvalidInput, sucroseFraction)
	}
	return 4.187 * (1 - 0.6*sucroseFraction), nil
}

// Solubility returns the saturation mass fraction of sucrose in water at the
// given temperature in °C. Increasing in temperature over the crystallizer's
// operating range.
func Solubility(temperatureC float64) (float64, error) {
	if temperatureC < absoluteZeroC {
		return 0, fmt.Errorf("%w: temperature must be above absolute zero, got %.4g °C", core.ErrInvalidInput, temperatureC)
	}
	// The cubic fit runs past 100 g/100 g above ~72 °C; keep to the range
	// where it stays a physical mass fraction.
	if temperatureC < 0 || temperatureC > 70 {
		return 0, fmt.Errorf("%w: temperature %.4g °C outside solubility correlation range [0, 70]", core.ErrInvalidInput, temperatureC)
	}
	// Fit in g sucrose per 100 g solution.
	gPer100g := 64.18 + 0.1337*temperatureC + 5.52e-3*temperatureC*temperatureC - 9.73e-6*math.Pow(temperatureC, 3)
	return gPer100g / 100, nil
}
