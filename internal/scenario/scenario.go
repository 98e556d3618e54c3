/*
Copyright 2025 The evap-crit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scenario

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/logging"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/crystallizer"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/solver"
)

// Compute runs one scenario: it validates the document, solves the
// evaporator train, feeds the concentrate into the crystallization yield
// model, and returns the bundled result.
//
// Compute takes the spec by value and never retains or mutates caller state;
// each invocation produces an entirely new result graph, so concurrent
// computations need no locking.
func Compute(ctx context.Context, spec config.ScenarioSpec) (*core.ScenarioResult, error) {
	logger := logr.FromContextOrDiscard(ctx)

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	cfg, err := normalize(spec)
	if err != nil {
		return nil, err
	}
	logger.V(logging.DEBUG).Info("scenario normalized",
		"effects", cfg.EffectCount(),
		"topology", cfg.Topology,
		"cascadePressures", cfg.Pressures)

	train, err := solver.SolveTrain(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("train solve: %w", err)
	}

	mode, err := core.ParseTargetMode(spec.Crystallizer.Mode)
	if err != nil {
		return nil, err
	}
	crystal, err := crystallizer.Yield(train.Concentrate, crystallizer.Endpoint{
		Mode:   mode,
		Target: spec.Crystallizer.Target,
	})
	if err != nil {
		return nil, fmt.Errorf("crystallization: %w", err)
	}

	logger.Info("scenario computed",
		"steamEconomy", train.SteamEconomy,
		"concentrate", train.Concentrate.SucroseFraction,
		"crystalMass", crystal.CrystalMass)
	return &core.ScenarioResult{Train: train, Crystallization: crystal}, nil
}

// normalize converts the validated user-facing spec into a solver-ready
// TrainConfiguration. The user gives pressures in liquid-flow order; the
// solver indexes effects in vapor-cascade order, so backward-feed lists are
// reversed here and the topology records where the feed enters.
func normalize(spec config.ScenarioSpec) (core.TrainConfiguration, error) {
	t := spec.Train

	topo, err := core.ParseFeedTopology(t.Topology)
	if err != nil {
		return core.TrainConfiguration{}, err
	}

	pressures := append([]float64(nil), t.Pressures...)
	if topo == core.TopologyBackward {
		for i, j := 0, len(pressures)-1; i < j; i, j = i+1, j-1 {
			pressures[i], pressures[j] = pressures[j], pressures[i]
		}
	}

	var coeffs []float64
	if t.HeatTransferCoeffs != nil {
		coeffs = append([]float64(nil), t.HeatTransferCoeffs...)
	}

	return core.TrainConfiguration{
		Feed: core.Stream{
			MassFlow:        t.FeedFlow,
			SucroseFraction: t.FeedFraction,
			Temperature:     t.FeedTemperature,
		},
		Pressures:           pressures,
		Topology:            topo,
		TargetConcentration: t.TargetConcentration,
		SteamPressure:       t.SteamPressure,
		SteamSuperheat:      *t.SteamSuperheat,
		HeatTransferCoeffs:  coeffs,
		Tolerance:           spec.Solver.Tolerance,
		MaxIterations:       spec.Solver.MaxIterations,
	}, nil
}
