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

package integration

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/logging"
	"github.com/basmalamire-del/evap-crit-PIC11/internal/scenario"
	"github.com/basmalamire-del/evap-crit-PIC11/internal/sensitivity"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

const forwardDocument = `
train:
  effects: 3
  feedFlow: 1000
  feedFraction: 0.15
  feedTemperature: 85
  targetConcentration: 0.72
  steamPressure: 2.5
  steamSuperheat: 10
  topology: forward
  pressures: [2.5, 1.325, 0.15]
  heatTransferCoeffs: [2500, 2200, 1800]
crystallizer:
  mode: cooling-temperature
  target: 25
solver:
  tolerance: 1.0e-6
  maxIterations: 100
`

const minimalDocument = `
train:
  effects: 3
  feedFlow: 1000
  feedFraction: 0.15
  feedTemperature: 85
  targetConcentration: 0.72
crystallizer:
  mode: cooling-temperature
  target: 25
`

var _ = Describe("Scenario pipeline", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = logr.NewContext(context.Background(), logging.NewTestLogger())
	})

	Context("from a complete YAML document", func() {
		It("parses, solves and crystallizes", func() {
			spec, err := config.Parse([]byte(forwardDocument))
			Expect(err).NotTo(HaveOccurred())

			result, err := scenario.Compute(ctx, *spec)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Train.Effects).To(HaveLen(3))
			Expect(result.Train.TotalEvaporation).To(BeNumerically("~", 1000*(1-0.15/0.72), 1e-6))
			Expect(result.Train.SteamEconomy).To(BeNumerically(">", 2.0))
			Expect(result.Train.SteamEconomy).To(BeNumerically("<", 3.0))
			Expect(result.Train.TotalArea).To(BeNumerically(">", 0))
			Expect(result.Crystallization.CrystalMass).To(BeNumerically(">", 0))

			// Whole-train water balance: evaporation plus concentrate equals
			// feed, within the solver tolerance.
			Expect(result.Train.Concentrate.MassFlow + result.Train.TotalEvaporation).
				To(BeNumerically("~", 1000, 1e-2))
		})
	})

	Context("from a minimal document relying on defaults", func() {
		It("fills the pressure profile and coefficients and still solves", func() {
			spec, err := config.Parse([]byte(minimalDocument))
			Expect(err).NotTo(HaveOccurred())

			result, err := scenario.Compute(ctx, *spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Train.Effects).To(HaveLen(3))
			Expect(result.Train.TotalArea).To(BeNumerically(">", 0))
		})
	})

	Context("from a document on disk", func() {
		It("loads through the file path", func() {
			path := filepath.Join(GinkgoT().TempDir(), "scenario.yaml")
			Expect(os.WriteFile(path, []byte(forwardDocument), 0o600)).To(Succeed())

			spec, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			result, err := scenario.Compute(ctx, *spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Crystallization.CrystalMass).To(BeNumerically(">", 0))
		})

		It("reports a missing file", func() {
			_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "absent.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("forward versus backward feed", func() {
		It("closes the same overall balance under both topologies", func() {
			forward, err := config.Parse([]byte(forwardDocument))
			Expect(err).NotTo(HaveOccurred())

			backward, err := config.Parse([]byte(forwardDocument))
			Expect(err).NotTo(HaveOccurred())
			backward.Train.Topology = "backward"
			backward.Train.Pressures = []float64{0.15, 1.325, 2.5}

			fr, err := scenario.Compute(ctx, *forward)
			Expect(err).NotTo(HaveOccurred())
			br, err := scenario.Compute(ctx, *backward)
			Expect(err).NotTo(HaveOccurred())

			Expect(br.Train.TotalEvaporation).To(BeNumerically("~", fr.Train.TotalEvaporation, 1e-6))
			Expect(br.Train.Concentrate.SucroseFraction).To(BeNumerically("~", 0.72, 1e-3))
		})
	})

	Context("sweeping a parsed document", func() {
		It("runs a feed-flow sweep end to end", func() {
			spec, err := config.Parse([]byte(forwardDocument))
			Expect(err).NotTo(HaveOccurred())

			points, err := sensitivity.Sweep(ctx, *spec, sensitivity.ParamFeedFlow, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(sensitivity.DefaultSweepPoints))
			for _, p := range points {
				Expect(p.SteamEconomy).To(BeNumerically(">", 0))
			}
		})
	})

	Context("with a document that cannot converge", func() {
		It("surfaces the solver error through the pipeline", func() {
			spec, err := config.Parse([]byte(forwardDocument))
			Expect(err).NotTo(HaveOccurred())
			spec.Solver.MaxIterations = 1

			_, err = scenario.Compute(ctx, *spec)
			Expect(err).To(MatchError(core.ErrNonConvergent))
		})
	})
})
