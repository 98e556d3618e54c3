// Package crystallizer computes the equilibrium crystal yield obtained from
// the evaporator train's concentrated syrup. The model is deliberately
// lumped: sucrose above the saturation capacity of the remaining solvent at
// the endpoint temperature is counted as theoretical crystal mass, with no
// nucleation or growth kinetics and a closed, lossless mass balance (no
// entrainment losses to vapor or condensate).
package crystallizer

import (
	"fmt"

	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/properties"
)

// Endpoint specifies the crystallization endpoint.
type Endpoint struct {
	// Mode selects cooling or evaporative crystallization.
	Mode core.TargetMode
	// Target is the endpoint value: a temperature in °C for
	// TargetCoolingTemperature, or a sucrose mass fraction for
	// TargetEvaporativeConcentration.
	Target float64
}

// Yield computes the theoretical crystal yield of the given syrup at the
// endpoint, assuming perfect equilibrium.
//
// A target at or below the current saturation produces zero yield; that is a
// valid physical outcome, not an error. Malformed inputs fail with
// core.ErrInvalidInput.
func Yield(syrup core.Stream, ep Endpoint) (*core.CrystallizationResult, error) {
	if err := syrup.Validate(); err != nil {
		return nil, fmt.Errorf("crystallizer feed: %w", err)
	}
	if syrup.MassFlow <= 0 {
		return nil, fmt.Errorf("%w: crystallizer feed flow must be > 0, got %.4g", core.ErrInvalidInput, syrup.MassFlow)
	}

	// Resolve the endpoint into a final solution (before crystallization)
	// and the temperature at which equilibrium is evaluated.
	final := syrup
	switch ep.Mode {
	case core.TargetCoolingTemperature:
		final.Temperature = ep.Target
	case core.TargetEvaporativeConcentration:
		if ep.Target <= syrup.SucroseFraction || ep.Target >= 1 {
			return nil, fmt.Errorf("%w: evaporative target concentration must be in (%.4g, 1), got %.4g",
				core.ErrInvalidInput, syrup.SucroseFraction, ep.Target)
		}
		// Water removal at constant sucrose load; equilibrium at the syrup
		// temperature.
		final.MassFlow = syrup.SucroseMass() / ep.Target
		final.SucroseFraction = ep.Target
	default:
		return nil, fmt.Errorf("%w: unknown crystallizer mode %q", core.ErrInvalidInput, ep.Mode)
	}

	saturation, err := properties.Solubility(final.Temperature)
	if err != nil {
		return nil, fmt.Errorf("crystallizer endpoint: %w", err)
	}

	sucrose := final.SucroseMass()
	water := final.WaterMass()

	// The mother liquor holds all the water and sits at saturation; whatever
	// sucrose the saturated liquor cannot carry crystallizes.
	liquor := water / (1 - saturation)
	dissolved := liquor * saturation
	crystals := sucrose - dissolved
	if crystals < 0 {
		crystals = 0
		dissolved = sucrose
	}

	supersaturation := 0.0
	if final.SucroseFraction > saturation {
		supersaturation = (final.SucroseFraction - saturation) / saturation
	}

	purity := 0.0
	if dissolved > 0 {
		// Single-solute model: dissolved solids are all sucrose.
		purity = 1.0
	}

	return &core.CrystallizationResult{
		CrystalMass:        crystals,
		CrystalFraction:    crystals / final.MassFlow,
		DissolvedSucrose:   dissolved,
		MotherLiquorPurity: purity,
		SaturationFraction: saturation,
		Supersaturation:    supersaturation,
		EndTemperature:     final.Temperature,
	}, nil
}
