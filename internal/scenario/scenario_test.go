package scenario

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/logging"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

func baseSpec() config.ScenarioSpec {
	return config.ScenarioSpec{
		Train: config.TrainSpec{
			Effects:             3,
			FeedFlow:            1000,
			FeedFraction:        0.15,
			FeedTemperature:     85,
			TargetConcentration: 0.72,
			SteamPressure:       2.5,
			Topology:            "forward",
			Pressures:           []float64{2.5, 1.325, 0.15},
		},
		Crystallizer: config.CrystallizerSpec{
			Mode:   "cooling-temperature",
			Target: 25,
		},
	}
}

var _ = Describe("Compute", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = logr.NewContext(context.Background(), logging.NewTestLogger())
	})

	Context("with a forward-feed cooling scenario", func() {
		It("solves the train and reports a positive crystal yield", func() {
			result, err := Compute(ctx, baseSpec())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Train.Effects).To(HaveLen(3))
			Expect(result.Train.Concentrate.SucroseFraction).To(BeNumerically("~", 0.72, 1e-3))
			Expect(result.Train.SteamEconomy).To(BeNumerically(">", 1.5))
			Expect(result.Crystallization.CrystalMass).To(BeNumerically(">", 0))
			Expect(result.Crystallization.MotherLiquorPurity).To(Equal(1.0))
		})

		It("closes the sucrose balance from feed to crystals", func() {
			spec := baseSpec()
			result, err := Compute(ctx, spec)
			Expect(err).NotTo(HaveOccurred())

			sucroseIn := spec.Train.FeedFlow * spec.Train.FeedFraction
			Expect(result.Train.Concentrate.SucroseMass()).To(BeNumerically("~", sucroseIn, 1e-3))
			Expect(result.Crystallization.CrystalMass + result.Crystallization.DissolvedSucrose).
				To(BeNumerically("~", result.Train.Concentrate.SucroseMass(), 1e-6))
		})

		It("fills defaults for omitted solver settings", func() {
			spec := baseSpec()
			spec.Solver = config.SolverSpec{}
			result, err := Compute(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Train.Iterations).To(BeNumerically("<=", config.DefaultMaxIterations))
		})
	})

	Context("with an undersaturated endpoint", func() {
		It("reports a zero yield without error", func() {
			spec := baseSpec()
			spec.Crystallizer.Target = 65 // solubility at 65 °C exceeds the syrup fraction
			result, err := Compute(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Crystallization.CrystalMass).To(BeZero())
			Expect(result.Crystallization.Supersaturation).To(BeZero())
			Expect(result.Crystallization.DissolvedSucrose).
				To(BeNumerically("~", result.Train.Concentrate.SucroseMass(), 1e-9))
		})
	})

	Context("with an evaporative crystallization endpoint", func() {
		It("concentrates past saturation and crystallizes", func() {
			spec := baseSpec()
			spec.Crystallizer = config.CrystallizerSpec{
				Mode:   "evaporative-concentration",
				Target: 0.95,
			}
			result, err := Compute(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Crystallization.CrystalMass).To(BeNumerically(">", 0))
			Expect(result.Crystallization.EndTemperature).
				To(BeNumerically("~", result.Train.Concentrate.Temperature, 1e-9))
		})
	})

	Context("with backward feed", func() {
		It("routes the liquid against the cascade and concentrates in the hottest effect", func() {
			spec := baseSpec()
			spec.Train.Topology = "backward"
			spec.Train.Pressures = []float64{0.15, 1.325, 2.5} // liquid-flow order
			result, err := Compute(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Train.LiquidOrder).To(Equal([]int{2, 1, 0}))
			Expect(result.Train.Concentrate).To(Equal(result.Train.Effects[0].Outlet))
			Expect(result.Crystallization.CrystalMass).To(BeNumerically(">", 0))
		})
	})

	Context("with identical inputs", func() {
		It("is deterministic", func() {
			a, err := Compute(ctx, baseSpec())
			Expect(err).NotTo(HaveOccurred())
			b, err := Compute(ctx, baseSpec())
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(a, b)).To(BeEmpty())
		})
	})

	Context("with an invalid document", func() {
		It("rejects the scenario before solving", func() {
			spec := baseSpec()
			spec.Train.FeedFraction = 1.2
			result, err := Compute(ctx, spec)
			Expect(err).To(MatchError(core.ErrInvalidInput))
			Expect(result).To(BeNil())
		})
	})

	Context("with steam too cold for the first effect", func() {
		It("surfaces the infeasible operating point", func() {
			spec := baseSpec()
			spec.Train.SteamPressure = 1.0
			zero := 0.0
			spec.Train.SteamSuperheat = &zero
			_, err := Compute(ctx, spec)
			Expect(err).To(MatchError(core.ErrInfeasibleOperatingPoint))
		})
	})

	Context("without a logger in the context", func() {
		It("still computes", func() {
			result, err := Compute(context.Background(), baseSpec())
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
		})
	})
})
