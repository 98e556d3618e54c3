package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/logging"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/properties"
)

// SolveTrain solves the steady state of a multi-effect evaporator train by
// fixed-point iteration. Effects are indexed in vapor-cascade order: effect 0
// is heated by live steam and its pressure is the highest; effect i>0 is
// heated by the vapor condensing from effect i−1. The liquid path follows
// cfg.Topology and may oppose the cascade (backward feed), in which case the
// solve order is resolved explicitly from the configuration rather than
// assumed equal to the liquid-flow order.
//
// SolveTrain fails fast: an effect-level core.ErrInfeasibleOperatingPoint
// aborts the whole train, and core.ErrNonConvergent reports the last residual
// when the iteration cap is reached. No partial result is ever returned.
func SolveTrain(ctx context.Context, cfg core.TrainConfiguration) (*core.TrainResult, error) {
	logger := logr.FromContextOrDiscard(ctx)

	n := cfg.EffectCount()
	if n < 1 {
		return nil, fmt.Errorf("%w: train needs at least one effect", core.ErrInvalidInput)
	}
	if err := cfg.Feed.Validate(); err != nil {
		return nil, fmt.Errorf("train feed: %w", err)
	}
	if cfg.Feed.MassFlow <= 0 {
		return nil, fmt.Errorf("%w: feed flow must be > 0, got %.4g", core.ErrInvalidInput, cfg.Feed.MassFlow)
	}
	if cfg.TargetConcentration <= cfg.Feed.SucroseFraction || cfg.TargetConcentration >= 1 {
		return nil, fmt.Errorf("%w: target concentration must be in (%.4g, 1), got %.4g",
			core.ErrInvalidInput, cfg.Feed.SucroseFraction, cfg.TargetConcentration)
	}
	for i := 1; i < n; i++ {
		if cfg.Pressures[i] >= cfg.Pressures[i-1] {
			return nil, fmt.Errorf("%w: pressures must be strictly decreasing along the vapor cascade, got %.4g >= %.4g at effect %d",
				core.ErrInvalidInput, cfg.Pressures[i], cfg.Pressures[i-1], i)
		}
	}
	if cfg.HeatTransferCoeffs != nil && len(cfg.HeatTransferCoeffs) != n {
		return nil, fmt.Errorf("%w: heat-transfer coefficient list length %d does not match effect count %d",
			core.ErrInvalidInput, len(cfg.HeatTransferCoeffs), n)
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	// Live steam condenses at its saturation temperature; superheat only
	// raises the driving temperature.
	steamTsat, err := properties.BoilingPoint(cfg.SteamPressure)
	if err != nil {
		return nil, fmt.Errorf("live steam: %w", err)
	}
	steamTemp := steamTsat + cfg.SteamSuperheat
	steamLatent, err := properties.LatentHeatVaporization(steamTsat)
	if err != nil {
		return nil, fmt.Errorf("live steam: %w", err)
	}

	tsat := make([]float64, n)
	condLatent := make([]float64, n) // latent heat of each effect's vapor when condensing downstream
	for i, p := range cfg.Pressures {
		if tsat[i], err = properties.BoilingPoint(p); err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		if condLatent[i], err = properties.LatentHeatVaporization(tsat[i]); err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
	}

	feed := cfg.Feed
	totalEvap := feed.MassFlow * (1 - feed.SucroseFraction/cfg.TargetConcentration)
	liquidOrder := cfg.LiquidOrder()

	// Initial guesses: uniform vapor split along the liquid path.
	vapor := make([]float64, n)
	for i := range vapor {
		vapor[i] = totalEvap / float64(n)
	}
	inlets := guessInlets(feed, cfg.Pressures, tsat, liquidOrder, vapor)

	// Initial live steam estimate from the first effect's duty at the
	// uniform split.
	cpFeed, _ := properties.SpecificHeat(inlets[0].SucroseFraction)
	lam0, _ := properties.LatentHeatVaporization(tsat[0])
	steam := (inlets[0].MassFlow*cpFeed*math.Max(tsat[0]-inlets[0].Temperature, 0) + vapor[0]*lam0) / steamLatent

	states := make([]core.EffectState, n)
	var (
		iterations int
		residual   = math.Inf(1)
		prevDuty   float64
		converged  bool
	)
	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		var sumVapor, sumDuty float64
		for i := 0; i < n; i++ {
			in := EffectInput{
				Index:         i,
				Inlet:         inlets[i],
				Pressure:      cfg.Pressures[i],
				Drive:         DriveSteam,
				Tolerance:     tol,
				MaxIterations: maxIter,
			}
			if i == 0 {
				in.HeatingTemperature = steamTemp
				in.HeatingLatentHeat = steamLatent
				in.SteamFlow = steam
			} else {
				in.HeatingTemperature = tsat[i-1]
				in.HeatingLatentHeat = condLatent[i-1]
				in.SteamFlow = states[i-1].Vapor.MassFlow
			}
			if cfg.HeatTransferCoeffs != nil {
				in.HeatTransferCoeff = cfg.HeatTransferCoeffs[i]
			}
			state, err := SolveEffect(in)
			if err != nil {
				return nil, err
			}
			states[i] = state
			vapor[i] = state.Vapor.MassFlow
			sumVapor += state.Vapor.MassFlow
			sumDuty += state.HeatDuty
		}

		if sumVapor <= 0 {
			// Steam guess too low to boil anything; grow it and retry.
			steam *= 2
			continue
		}

		residual = math.Abs(sumVapor-totalEvap) / totalEvap
		dutyChange := relDiff(sumDuty, prevDuty)
		prevDuty = sumDuty
		logger.V(logging.TRACE).Info("train pass",
			"iteration", iterations, "residual", residual, "dutyChange", dutyChange, "steam", steam)
		if residual <= tol && dutyChange <= tol {
			converged = true
			break
		}

		// Rescale live steam (and the vapor guesses feeding the liquid-path
		// update) so the next pass lands on the required total evaporation.
		scale := totalEvap / sumVapor
		steam *= scale
		for i := range vapor {
			vapor[i] *= scale
		}
		inlets = guessInlets(feed, cfg.Pressures, tsat, liquidOrder, vapor)
	}
	if !converged {
		return nil, fmt.Errorf("%w: after %d iterations, residual %.3g exceeds tolerance %.3g",
			core.ErrNonConvergent, iterations, residual, tol)
	}

	var totalArea float64
	for i := range states {
		totalArea += states[i].HeatTransferArea
	}
	last := liquidOrder[n-1]
	result := &core.TrainResult{
		Effects:          append([]core.EffectState(nil), states...),
		LiquidOrder:      liquidOrder,
		Topology:         cfg.Topology,
		SteamConsumption: steam,
		TotalEvaporation: totalEvap,
		SteamEconomy:     totalEvap / steam,
		TotalArea:        totalArea,
		Concentrate:      states[last].Outlet,
		Iterations:       iterations,
		Residual:         residual,
	}
	logger.V(logging.DEBUG).Info("train solve converged",
		"effects", n,
		"topology", cfg.Topology,
		"iterations", iterations,
		"residual", residual,
		"steamConsumption", result.SteamConsumption,
		"steamEconomy", result.SteamEconomy)
	return result, nil
}

// guessInlets chains the mass balance along the liquid path for the given
// per-effect vapor rates and returns the inlet stream guess for each effect,
// indexed in vapor-cascade order. Inlet temperatures follow the upstream
// effect's estimated boiling temperature (saturation plus elevation at the
// estimated concentration); the fresh feed keeps its own temperature.
func guessInlets(feed core.Stream, pressures, tsat []float64, liquidOrder []int, vapor []float64) []core.Stream {
	n := len(liquidOrder)
	inlets := make([]core.Stream, n)
	cur := feed
	for _, idx := range liquidOrder {
		cur.Pressure = pressures[idx]
		inlets[idx] = cur

		liquid := cur.MassFlow - vapor[idx]
		if liquid <= 0 {
			// Degenerate guess; park the remaining liquid at a sliver so the
			// effect solve reports the infeasibility with full context.
			liquid = cur.MassFlow * 1e-6
		}
		x := cur.MassFlow * cur.SucroseFraction / liquid
		if x > 1 {
			x = 1
		}
		bpe, err := properties.BoilingPointElevation(x, tsat[idx])
		if err != nil {
			bpe = 0
		}
		cur = core.Stream{
			MassFlow:        liquid,
			SucroseFraction: x,
			Temperature:     tsat[idx] + bpe,
			Pressure:        pressures[idx],
		}
	}
	return inlets
}
