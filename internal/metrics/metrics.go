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

// Package metrics instruments the serving layer. The core computation stays
// metrics-free; the HTTP server observes each scenario computation through
// this package.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

// Outcome labels for evapsim_scenarios_total.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeInfeasible    = "infeasible"
	OutcomeNonConvergent = "non_convergent"
	OutcomeError         = "error"
)

// Set holds the serving-layer collectors.
type Set struct {
	Scenarios        *prometheus.CounterVec
	SolverIterations prometheus.Histogram
	ComputeDuration  prometheus.Histogram
}

// NewSet builds and registers the collectors on the given registerer.
func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		Scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evapsim_scenarios_total",
			Help: "Scenario computations by outcome.",
		}, []string{"outcome"}),
		SolverIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evapsim_solver_iterations",
			Help:    "Fixed-point iterations per converged train solve.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evapsim_compute_duration_seconds",
			Help:    "Wall time per scenario computation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(s.Scenarios, s.SolverIterations, s.ComputeDuration)
	return s
}

// Observe records one scenario computation.
func (s *Set) Observe(result *core.ScenarioResult, err error, elapsed time.Duration) {
	s.ComputeDuration.Observe(elapsed.Seconds())
	s.Scenarios.WithLabelValues(outcome(err)).Inc()
	if err == nil && result != nil && result.Train != nil {
		s.SolverIterations.Observe(float64(result.Train.Iterations))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, core.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, core.ErrInfeasibleOperatingPoint):
		return OutcomeInfeasible
	case errors.Is(err, core.ErrNonConvergent):
		return OutcomeNonConvergent
	default:
		return OutcomeError
	}
}
