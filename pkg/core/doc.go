// Package core provides fundamental data structures for the evaporation and crystallization engine.
//
// This package contains the domain models that represent the entities and relationships
// in a steady-state sugar concentration line:
//
//   - Stream: a process stream (mass flow, sucrose fraction, temperature, pressure)
//   - EffectState: the solved state of one evaporator effect
//   - TrainConfiguration: a fully-normalized description of one evaporator train
//   - TrainResult: per-effect breakdown plus train-level totals and steam economy
//   - CrystallizationResult: equilibrium crystal yield from the concentrated syrup
//   - ScenarioResult: the immutable bundle returned for one computed scenario
//
// These types form the foundation for the balance algorithms in the solver and
// crystallizer packages and are used by the scenario orchestrator for wiring.
//
// Example usage:
//
//	// Describe the fresh juice entering the train
//	feed := core.Stream{
//	    MassFlow:        1000, // kg/h
//	    SucroseFraction: 0.15,
//	    Temperature:     85, // °C
//	}
//
//	// A normalized train configuration, pressures in vapor-cascade order
//	cfg := core.TrainConfiguration{
//	    Feed:                feed,
//	    Pressures:           []float64{2.0, 1.0, 0.3},
//	    Topology:            core.TopologyForward,
//	    TargetConcentration: 0.60,
//	    SteamPressure:       2.5,
//	}
//
// The core package is designed to be:
//   - Immutable where possible (streams are values, never mutated in place)
//   - Type-safe with strong domain boundaries (typed topology and mode enums)
//   - Independent of any presentation or transport layer (pure domain logic)
//   - Well-tested with comprehensive unit tests
package core
