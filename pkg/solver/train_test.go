package solver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

func forwardTrain() core.TrainConfiguration {
	return core.TrainConfiguration{
		Feed:                core.Stream{MassFlow: 1000, SucroseFraction: 0.15, Temperature: 85},
		Pressures:           []float64{2.5, 1.325, 0.15},
		Topology:            core.TopologyForward,
		TargetConcentration: 0.60,
		SteamPressure:       2.5,
		SteamSuperheat:      10,
		HeatTransferCoeffs:  []float64{2500, 2200, 1800},
	}
}

func TestSolveTrainForwardExample(t *testing.T) {
	result, err := SolveTrain(context.Background(), forwardTrain())
	require.NoError(t, err)
	require.Len(t, result.Effects, 3)

	// Boiling temperature falls monotonically down the cascade.
	for i := 1; i < len(result.Effects); i++ {
		require.Less(t, result.Effects[i].BoilingTemperature, result.Effects[i-1].BoilingTemperature,
			"boiling temperature must decrease along the vapor cascade")
	}

	// Each effect closes its own mass balance exactly.
	for _, e := range result.Effects {
		require.InDelta(t, e.Inlet.MassFlow, e.Outlet.MassFlow+e.Vapor.MassFlow, 1e-9)
	}

	// Liquid path continuity: each effect is fed by its upstream neighbor.
	for i := 1; i < len(result.LiquidOrder); i++ {
		up := result.Effects[result.LiquidOrder[i-1]]
		down := result.Effects[result.LiquidOrder[i]]
		require.InEpsilon(t, up.Outlet.MassFlow, down.Inlet.MassFlow, 1e-3)
	}

	require.Greater(t, result.Concentrate.SucroseFraction, 0.15)
	require.InEpsilon(t, 0.60, result.Concentrate.SucroseFraction, 1e-3)
	require.InEpsilon(t, 750.0, result.TotalEvaporation, 1e-9)

	// Three effects with a realistic cold feed land between double and
	// triple use of every steam kilogram.
	require.Greater(t, result.SteamEconomy, 2.0)
	require.Less(t, result.SteamEconomy, 3.0)

	require.Greater(t, result.TotalArea, 0.0)
	require.Equal(t, []int{0, 1, 2}, result.LiquidOrder)
}

func TestSolveTrainIdealEconomyNearEffectCount(t *testing.T) {
	// Feed entering at the first effect's boiling temperature removes the
	// sensible load; the economy of an N-effect train then sits near N.
	cfg := core.TrainConfiguration{
		Feed:                core.Stream{MassFlow: 1000, SucroseFraction: 0.05, Temperature: 113.5},
		Pressures:           []float64{1.6, 1.0, 0.6},
		Topology:            core.TopologyForward,
		TargetConcentration: 0.15,
		SteamPressure:       2.5,
		SteamSuperheat:      10,
	}
	result, err := SolveTrain(context.Background(), cfg)
	require.NoError(t, err)

	n := float64(len(cfg.Pressures))
	require.Greater(t, result.SteamEconomy, 0.85*n)
	require.Less(t, result.SteamEconomy, 1.15*n)
}

func TestSolveTrainBackwardFeed(t *testing.T) {
	cfg := forwardTrain()
	cfg.Topology = core.TopologyBackward
	result, err := SolveTrain(context.Background(), cfg)
	require.NoError(t, err)

	// Liquid enters at the low-pressure end and leaves at the live-steam
	// effect, so solve order and liquid order disagree.
	require.Equal(t, []int{2, 1, 0}, result.LiquidOrder)
	require.Equal(t, core.TopologyBackward, result.Topology)

	for _, e := range result.Effects {
		require.InDelta(t, e.Inlet.MassFlow, e.Outlet.MassFlow+e.Vapor.MassFlow, 1e-9)
	}

	// The concentrate leaves the hottest effect.
	require.InEpsilon(t, 0.60, result.Concentrate.SucroseFraction, 1e-3)
	require.Equal(t, result.Effects[0].Outlet, result.Concentrate)
	require.Greater(t, result.Concentrate.Temperature, result.Effects[2].BoilingTemperature)
}

func TestSolveTrainSingleEffect(t *testing.T) {
	cfg := core.TrainConfiguration{
		Feed:                core.Stream{MassFlow: 500, SucroseFraction: 0.10, Temperature: 60},
		Pressures:           []float64{0.5},
		Topology:            core.TopologyForward,
		TargetConcentration: 0.25,
		SteamPressure:       2.0,
		SteamSuperheat:      10,
	}
	result, err := SolveTrain(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.Effects, 1)
	// A single effect cannot reuse vapor; economy stays below one.
	require.Less(t, result.SteamEconomy, 1.0)
	require.InEpsilon(t, 300.0, result.TotalEvaporation, 1e-9)
}

func TestSolveTrainDeterministic(t *testing.T) {
	a, err := SolveTrain(context.Background(), forwardTrain())
	require.NoError(t, err)
	b, err := SolveTrain(context.Background(), forwardTrain())
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("identical configurations produced different results (-first +second):\n%s", diff)
	}
}

func TestSolveTrainInfeasibleSteam(t *testing.T) {
	cfg := forwardTrain()
	cfg.SteamPressure = 1.0
	cfg.SteamSuperheat = 0 // condenses below the first effect's boiling point
	_, err := SolveTrain(context.Background(), cfg)
	require.ErrorIs(t, err, core.ErrInfeasibleOperatingPoint)
	require.ErrorContains(t, err, "effect 0")
}

func TestSolveTrainNonConvergent(t *testing.T) {
	cfg := forwardTrain()
	cfg.MaxIterations = 1
	_, err := SolveTrain(context.Background(), cfg)
	require.ErrorIs(t, err, core.ErrNonConvergent)
}

func TestSolveTrainInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.TrainConfiguration)
	}{
		{name: "no effects", mutate: func(c *core.TrainConfiguration) { c.Pressures = nil }},
		{name: "zero feed flow", mutate: func(c *core.TrainConfiguration) { c.Feed.MassFlow = 0 }},
		{name: "target below feed", mutate: func(c *core.TrainConfiguration) { c.TargetConcentration = 0.10 }},
		{name: "pressures not decreasing", mutate: func(c *core.TrainConfiguration) {
			c.Pressures = []float64{1.0, 1.5, 0.2}
		}},
		{name: "coefficient length mismatch", mutate: func(c *core.TrainConfiguration) {
			c.HeatTransferCoeffs = []float64{2500}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := forwardTrain()
			tt.mutate(&cfg)
			_, err := SolveTrain(context.Background(), cfg)
			require.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}
