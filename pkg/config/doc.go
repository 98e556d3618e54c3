// Package config provides the user-facing configuration surface of the
// evaporation/crystallization engine.
//
// This package handles loading, defaulting, and validation of scenario
// documents before any solving begins.
//
// Configuration Types:
//
//   - ScenarioSpec: one complete scenario (train + crystallizer + solver)
//   - TrainSpec: feed, effect count, pressure profile, topology, live steam
//   - CrystallizerSpec: endpoint mode and numeric target
//   - SolverSpec: convergence tolerance and iteration cap
//
// Configuration Sources:
//
//  1. Scenario YAML documents (Load / Parse)
//  2. Programmatic construction by embedding hosts
//  3. Default values for everything the document leaves unset
//
// Example usage:
//
//	spec, err := config.Load("scenario.yaml")
//	if err != nil {
//	    log.Error(err, "failed to load scenario")
//	    return err
//	}
//
//	log.Info("scenario loaded",
//	    "effects", spec.Train.Effects,
//	    "feedFlow", spec.Train.FeedFlow,
//	    "topology", spec.Train.Topology)
//
// Configuration Validation:
//
// All values are validated on load, and any failure names the offending
// field and value:
//   - Numeric ranges (e.g. 0 < feedFraction < 1)
//   - Required fields (e.g. targetConcentration)
//   - List lengths (pressure list length = effect count)
//   - Ordering constraints (pressures strictly ordered per topology)
//
// The config package is designed to be:
//   - Type-safe with strong typing
//   - Validated at load time, before any solver iteration executes
//   - Free of process-wide mutable state (defaults are applied per copy)
package config
