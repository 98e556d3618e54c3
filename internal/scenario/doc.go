// Package scenario implements the orchestration of one scenario computation.
//
// The scenario package wires a user-facing configuration into the train
// solver and the crystallization yield model and returns a single immutable
// result for the presentation layer.
//
// Architecture:
//
// The orchestrator follows a pipeline pattern:
//
//	Validate → Normalize → Train Solver → Crystallizer → ScenarioResult
//	 (config)  (scenario)   (solver)      (crystallizer)
//
// The orchestrator sits in the middle, owning the result graph for the
// duration of one computation.
//
// Computation Flow:
//
//  1. Default and Validate
//     - Apply document defaults on a private copy
//     - Reject any out-of-range field before a single solver iteration runs
//
//  2. Normalize
//     - Convert the liquid-flow-order pressure list into vapor-cascade order
//     - Resolve topology into an explicit solve order
//
//  3. Solve the Train
//     - Fixed-point iteration over the effect cascade
//     - Fail fast on infeasible operating points or non-convergence
//
//  4. Crystallize
//     - Equilibrium yield from the train's concentrate at the endpoint
//
// Error Handling:
//
// InvalidInput is reported eagerly before solving; InfeasibleOperatingPoint
// and NonConvergent abort the whole scenario with effect-level context. No
// partial result is ever surfaced as valid.
//
// The orchestrator is designed to be:
//   - Pure: no shared mutable state across scenario computations
//   - Deterministic: identical configurations yield identical results
//   - Trivially parallelizable: concurrent invocations share nothing
//   - Observable with structured logging through the context logger
package scenario
