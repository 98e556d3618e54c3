package solver

import (
	"fmt"
	"math"

	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/properties"
)

// EffectDrive selects how a single effect's heat input is specified.
type EffectDrive string

const (
	// DriveSteam derives the vapor rate from a given heating steam mass flow.
	DriveSteam EffectDrive = "steam"
	// DriveArea derives the heat input from U·A·ΔT for a given exchange
	// area, making vapor generation monotone in the heating temperature.
	DriveArea EffectDrive = "area"
	// DriveTarget derives the vapor and steam requirement from a target
	// outlet concentration instead of assuming them feed-forward.
	DriveTarget EffectDrive = "target"
)

const (
	// DefaultTolerance is the relative convergence tolerance applied when a
	// caller leaves the tolerance unset.
	DefaultTolerance = 1e-6
	// DefaultMaxIterations caps fixed-point iterations when unset.
	DefaultMaxIterations = 100

	// kJPerHourToKW converts a duty in kJ/h to kW.
	kJPerHourToKW = 1.0 / 3600.0
	// wattsPerKJh converts kJ/h to W for area sizing against U in W/(m²·K).
	wattsPerKJh = 1000.0 / 3600.0
)

// EffectInput describes one evaporator effect to solve.
type EffectInput struct {
	// Index identifies the effect within its train, for error context.
	Index int
	// Inlet is the liquid stream entering the effect.
	Inlet core.Stream
	// Pressure is the effect operating pressure in bar absolute.
	Pressure float64
	// HeatingTemperature is the condensing temperature of the heating
	// medium in °C.
	HeatingTemperature float64
	// HeatingLatentHeat is the latent heat released by the condensing
	// heating medium, in kJ/kg.
	HeatingLatentHeat float64
	// Drive selects the heat-input specification.
	Drive EffectDrive
	// SteamFlow is the heating medium mass flow in kg/h (DriveSteam).
	SteamFlow float64
	// Area is the exchange area in m² (DriveArea).
	Area float64
	// HeatTransferCoeff is the overall coefficient in W/(m²·K). Required
	// for DriveArea; for other drives it enables area sizing when > 0.
	HeatTransferCoeff float64
	// TargetConcentration is the outlet sucrose fraction (DriveTarget).
	TargetConcentration float64
	// Tolerance is the relative convergence tolerance; 0 means default.
	Tolerance float64
	// MaxIterations caps the inner fixed point; 0 means default.
	MaxIterations int
}

// SolveEffect solves the coupled mass and energy balance for one evaporator
// effect. The outlet concentration and the boiling point elevation depend on
// each other, so the balance is closed by a small fixed-point iteration
// converged to the configured relative tolerance.
//
// The returned EffectState satisfies the mass balance exactly:
// inlet mass = outlet liquid mass + vapor mass.
//
// An effect whose heating temperature is at or below its elevated boiling
// temperature has no driving force for heat transfer and fails with
// core.ErrInfeasibleOperatingPoint. An effect receiving less heat than the
// sensible requirement produces no vapor and leaves the liquid below its
// boiling temperature; that is a valid state, not an error.
func SolveEffect(in EffectInput) (core.EffectState, error) {
	if err := in.Inlet.Validate(); err != nil {
		return core.EffectState{}, fmt.Errorf("effect %d inlet: %w", in.Index, err)
	}
	if in.Inlet.MassFlow == 0 {
		return core.EffectState{}, fmt.Errorf("%w: effect %d: inlet mass flow must be > 0", core.ErrInvalidInput, in.Index)
	}
	if in.HeatingLatentHeat <= 0 {
		return core.EffectState{}, fmt.Errorf("%w: effect %d: heating latent heat must be > 0, got %.4g",
			core.ErrInvalidInput, in.Index, in.HeatingLatentHeat)
	}
	tol := in.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := in.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	tsat, err := properties.BoilingPoint(in.Pressure)
	if err != nil {
		return core.EffectState{}, fmt.Errorf("effect %d: %w", in.Index, err)
	}
	cp, err := properties.SpecificHeat(in.Inlet.SucroseFraction)
	if err != nil {
		return core.EffectState{}, fmt.Errorf("effect %d: %w", in.Index, err)
	}

	feed := in.Inlet.MassFlow
	xIn := in.Inlet.SucroseFraction

	if in.Drive == DriveTarget {
		if in.TargetConcentration <= xIn || in.TargetConcentration >= 1 {
			return core.EffectState{}, fmt.Errorf("%w: effect %d: target concentration must be in (%.4g, 1), got %.4g",
				core.ErrInvalidInput, in.Index, xIn, in.TargetConcentration)
		}
	}

	// Fixed point on the outlet concentration: the boiling point elevation
	// depends on the concentration it helps determine.
	x := xIn
	var state core.EffectState
	for iter := 0; iter < maxIter; iter++ {
		bpe, err := properties.BoilingPointElevation(x, tsat)
		if err != nil {
			return core.EffectState{}, fmt.Errorf("effect %d: %w", in.Index, err)
		}
		boiling := tsat + bpe
		if in.HeatingTemperature <= boiling {
			return core.EffectState{}, fmt.Errorf("%w: effect %d: heating temperature %.2f °C at or below boiling temperature %.2f °C",
				core.ErrInfeasibleOperatingPoint, in.Index, in.HeatingTemperature, boiling)
		}
		latent, err := properties.LatentHeatVaporization(boiling)
		if err != nil {
			return core.EffectState{}, fmt.Errorf("effect %d: %w", in.Index, err)
		}

		sensible := feed * cp * (boiling - in.Inlet.Temperature) // kJ/h

		var duty, vapor, steam float64 // duty kJ/h
		switch in.Drive {
		case DriveSteam:
			duty = in.SteamFlow * in.HeatingLatentHeat
			vapor = (duty - sensible) / latent
			steam = in.SteamFlow
		case DriveArea:
			if in.HeatTransferCoeff <= 0 || in.Area <= 0 {
				return core.EffectState{}, fmt.Errorf("%w: effect %d: area drive requires positive area and heat-transfer coefficient",
					core.ErrInvalidInput, in.Index)
			}
			// U[W/(m²·K)]·A[m²]·ΔT[K] gives W; 1 W = 3.6 kJ/h.
			duty = in.HeatTransferCoeff * in.Area * (in.HeatingTemperature - boiling) * 3.6
			vapor = (duty - sensible) / latent
			steam = duty / in.HeatingLatentHeat
		case DriveTarget:
			vapor = feed * (1 - xIn/in.TargetConcentration)
			duty = sensible + vapor*latent
			steam = duty / in.HeatingLatentHeat
		default:
			return core.EffectState{}, fmt.Errorf("%w: effect %d: unknown drive %q", core.ErrInvalidInput, in.Index, in.Drive)
		}

		var xNew, outletTemp float64
		if vapor <= 0 {
			// Heat input below the sensible requirement: the liquid warms
			// but does not boil.
			vapor = 0
			xNew = xIn
			outletTemp = in.Inlet.Temperature + duty/(feed*cp)
		} else {
			liquid := feed - vapor
			if liquid <= 0 {
				return core.EffectState{}, fmt.Errorf("%w: effect %d: heat input would evaporate the effect to dryness",
					core.ErrInfeasibleOperatingPoint, in.Index)
			}
			xNew = feed * xIn / liquid
			if xNew > 1 {
				return core.EffectState{}, fmt.Errorf("%w: effect %d: outlet concentration %.4g exceeds 1",
					core.ErrInfeasibleOperatingPoint, in.Index, xNew)
			}
			outletTemp = boiling
		}

		state = core.EffectState{
			Index:              in.Index,
			Pressure:           in.Pressure,
			Inlet:              in.Inlet,
			Outlet:             core.Stream{MassFlow: feed - vapor, SucroseFraction: xNew, Temperature: outletTemp, Pressure: in.Pressure},
			Vapor:              core.Stream{MassFlow: vapor, SucroseFraction: 0, Temperature: boiling, Pressure: in.Pressure},
			BoilingTemperature: boiling,
			HeatingTemperature: in.HeatingTemperature,
			SteamConsumption:   steam,
			HeatDuty:           duty * kJPerHourToKW,
		}
		if in.HeatTransferCoeff > 0 {
			if in.Drive == DriveArea {
				state.HeatTransferArea = in.Area
			} else {
				state.HeatTransferArea = (duty * wattsPerKJh) / (in.HeatTransferCoeff * (in.HeatingTemperature - boiling))
			}
		}

		if relDiff(xNew, x) <= tol {
			return state, nil
		}
		x = xNew
	}
	return core.EffectState{}, fmt.Errorf("%w: effect %d: outlet concentration did not settle within %d iterations",
		core.ErrNonConvergent, in.Index, maxIter)
}

// relDiff returns |a−b| scaled by the larger magnitude, guarding zero.
func relDiff(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m < 1e-12 {
		return math.Abs(a - b)
	}
	return math.Abs(a-b) / m
}
