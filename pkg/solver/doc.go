// Package solver implements the steady-state balances for the multi-effect
// evaporator train.
//
// The solver package contains the algorithms that determine per-effect flows,
// concentrations, boiling temperatures, heating duties, and the train-level
// steam economy for a given feed and operating pressure profile.
//
// Key Components:
//
//   - SolveEffect: coupled mass/energy balance for one evaporator effect
//   - SolveTrain: fixed-point iteration chaining effects across the cascade
//   - EffectDrive: selects how an effect's heat input is specified
//
// Solution Strategy:
//
// The train is solved by an explicit bounded iteration over an indexed slice
// of effect states, re-solved in place each pass:
//  1. Initialize per-effect vapor rates by splitting the required total
//     evaporation uniformly (mass balance chain along the liquid path)
//  2. Solve each effect in vapor-cascade order: effect 0 heated by live
//     steam, effect i by the vapor condensing from effect i−1
//  3. Rescale the live steam rate so total vapor matches the required
//     evaporation, and refresh the liquid-path guesses
//  4. Repeat until total vapor and total duty move less than tolerance,
//     or fail with a NonConvergent error at the iteration cap
//
// Under backward feed the liquid path opposes the vapor cascade, so solve
// order differs from liquid-flow order; effects reference neighbors only by
// index into the train's ordered sequence, never by object reference.
//
// Example usage:
//
//	result, err := solver.SolveTrain(ctx, cfg)
//	if err != nil {
//	    log.Error(err, "train solve failed")
//	    return err
//	}
//
//	for _, eff := range result.Effects {
//	    log.Info("effect solved",
//	        "index", eff.Index,
//	        "boilingTemperature", eff.BoilingTemperature,
//	        "vapor", eff.Vapor.MassFlow,
//	        "area", eff.HeatTransferArea)
//	}
//
// The solver is designed to be:
//   - Deterministic: same inputs produce same outputs
//   - Fail-fast: infeasible operating points abort the whole train
//   - Stateless: no shared mutable state between invocations
//   - Observable: structured logging through the context logger
package solver
