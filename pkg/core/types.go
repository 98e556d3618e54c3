package core

import "fmt"

// FeedTopology describes the direction of liquid flow through the train
// relative to the vapor cascade.
type FeedTopology string

const (
	// TopologyForward routes fresh feed into the first-heated effect; liquid
	// and vapor move co-currently down the pressure cascade.
	TopologyForward FeedTopology = "forward"
	// TopologyBackward routes fresh feed into the coldest effect; liquid
	// moves against the vapor cascade and leaves the train at the hottest,
	// highest-pressure effect.
	TopologyBackward FeedTopology = "backward"
)

// ParseFeedTopology converts a user-facing topology string into a typed value.
func ParseFeedTopology(s string) (FeedTopology, error) {
	switch FeedTopology(s) {
	case TopologyForward:
		return TopologyForward, nil
	case TopologyBackward:
		return TopologyBackward, nil
	}
	return "", fmt.Errorf("%w: topology must be %q or %q, got %q",
		ErrInvalidInput, TopologyForward, TopologyBackward, s)
}

// TargetMode selects how the crystallization endpoint is specified.
type TargetMode string

const (
	// TargetCoolingTemperature cools the syrup to a target temperature and
	// lets the excess sucrose crystallize at that temperature.
	TargetCoolingTemperature TargetMode = "cooling-temperature"
	// TargetEvaporativeConcentration removes water until the syrup reaches a
	// target mass fraction, with equilibrium evaluated at the syrup
	// temperature.
	TargetEvaporativeConcentration TargetMode = "evaporative-concentration"
)

// ParseTargetMode converts a user-facing mode string into a typed value.
func ParseTargetMode(s string) (TargetMode, error) {
	switch TargetMode(s) {
	case TargetCoolingTemperature:
		return TargetCoolingTemperature, nil
	case TargetEvaporativeConcentration:
		return TargetEvaporativeConcentration, nil
	}
	return "", fmt.Errorf("%w: crystallizer mode must be %q or %q, got %q",
		ErrInvalidInput, TargetCoolingTemperature, TargetEvaporativeConcentration, s)
}

// Stream is one process stream. Streams are values: every balance produces a
// new Stream and never mutates its input.
type Stream struct {
	// MassFlow is the total stream flow in kg/h.
	MassFlow float64 `json:"massFlow" yaml:"massFlow"`
	// SucroseFraction is the sucrose mass fraction, in [0, 1].
	SucroseFraction float64 `json:"sucroseFraction" yaml:"sucroseFraction"`
	// Temperature is the stream temperature in °C.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	// Pressure is the stream pressure in bar absolute. Zero means
	// unspecified (e.g. a feed whose pressure is set by the receiving effect).
	Pressure float64 `json:"pressure,omitempty" yaml:"pressure,omitempty"`
}

// Validate checks the Stream invariants.
func (s Stream) Validate() error {
	if s.MassFlow < 0 {
		return fmt.Errorf("%w: stream mass flow must be >= 0, got %.4g", ErrInvalidInput, s.MassFlow)
	}
	if s.SucroseFraction < 0 || s.SucroseFraction > 1 {
		return fmt.Errorf("%w: sucrose fraction must be in [0, 1], got %.4g", ErrInvalidInput, s.SucroseFraction)
	}
	if s.Temperature < absoluteZeroC {
		return fmt.Errorf("%w: temperature must be above absolute zero, got %.4g °C", ErrInvalidInput, s.Temperature)
	}
	return nil
}

// SucroseMass returns the sucrose mass flow in kg/h.
func (s Stream) SucroseMass() float64 { return s.MassFlow * s.SucroseFraction }

// WaterMass returns the solvent (water) mass flow in kg/h.
func (s Stream) WaterMass() float64 { return s.MassFlow * (1 - s.SucroseFraction) }

const absoluteZeroC = -273.15

// EffectState is the solved state of one evaporator effect. The mass balance
// across the effect holds exactly: Inlet.MassFlow = Outlet.MassFlow +
// Vapor.MassFlow. The energy balance holds within the solver tolerance.
type EffectState struct {
	// Index is the physical effect number in vapor-cascade order, starting
	// at 0 for the live-steam-heated effect.
	Index int `json:"index" yaml:"index"`
	// Pressure is the effect operating pressure in bar absolute.
	Pressure float64 `json:"pressure" yaml:"pressure"`
	// Inlet is the liquid stream entering this effect.
	Inlet Stream `json:"inlet" yaml:"inlet"`
	// Outlet is the concentrated liquid stream leaving this effect.
	Outlet Stream `json:"outlet" yaml:"outlet"`
	// Vapor is the vapor stream boiled off in this effect.
	Vapor Stream `json:"vapor" yaml:"vapor"`
	// BoilingTemperature is the solution boiling temperature in °C:
	// saturation temperature at Pressure plus boiling point elevation at the
	// outlet concentration.
	BoilingTemperature float64 `json:"boilingTemperature" yaml:"boilingTemperature"`
	// HeatingTemperature is the condensing temperature of the heating medium
	// in °C (live steam for effect 0, the upstream effect's vapor otherwise).
	HeatingTemperature float64 `json:"heatingTemperature" yaml:"heatingTemperature"`
	// SteamConsumption is the heating medium mass flow condensed in this
	// effect, in kg/h.
	SteamConsumption float64 `json:"steamConsumption" yaml:"steamConsumption"`
	// HeatDuty is the heat delivered to this effect in kW.
	HeatDuty float64 `json:"heatDuty" yaml:"heatDuty"`
	// HeatTransferArea is the required exchange area in m², when a
	// heat-transfer coefficient was supplied; zero otherwise.
	HeatTransferArea float64 `json:"heatTransferArea,omitempty" yaml:"heatTransferArea,omitempty"`
}

// TrainConfiguration is a fully-normalized train description, fixed for the
// duration of one solve. Pressures and HeatTransferCoeffs are indexed in
// vapor-cascade order regardless of topology; the orchestrator performs the
// normalization from the user-facing liquid-flow order.
type TrainConfiguration struct {
	// Feed is the fresh feed stream entering the train.
	Feed Stream
	// Pressures holds the per-effect operating pressure in bar absolute,
	// strictly decreasing in vapor-cascade order. Its length fixes the
	// effect count.
	Pressures []float64
	// Topology is the liquid routing through the cascade.
	Topology FeedTopology
	// TargetConcentration is the sucrose mass fraction of the concentrate
	// leaving the train.
	TargetConcentration float64
	// SteamPressure is the live steam pressure in bar absolute.
	SteamPressure float64
	// SteamSuperheat is the live steam superheat above saturation in K.
	SteamSuperheat float64
	// HeatTransferCoeffs holds the per-effect overall coefficient in
	// W/(m²·K), used for area sizing. May be nil to skip sizing.
	HeatTransferCoeffs []float64
	// Tolerance is the relative convergence tolerance of the fixed-point
	// iteration.
	Tolerance float64
	// MaxIterations caps the fixed-point iteration.
	MaxIterations int
}

// EffectCount returns the number of effects in the train.
func (c TrainConfiguration) EffectCount() int { return len(c.Pressures) }

// LiquidOrder returns the effect indices in liquid-flow order. Under forward
// feed this equals the vapor-cascade order; under backward feed it is the
// reverse. Effects reference neighbors only through these indices.
func (c TrainConfiguration) LiquidOrder() []int {
	n := c.EffectCount()
	order := make([]int, n)
	for i := range order {
		if c.Topology == TopologyBackward {
			order[i] = n - 1 - i
		} else {
			order[i] = i
		}
	}
	return order
}

// TrainResult is the solved steady state of one train. Effects are ordered by
// solve (vapor-cascade) order, which under backward feed differs from the
// liquid-flow order recorded in LiquidOrder.
type TrainResult struct {
	// Effects holds the per-effect breakdown in vapor-cascade order.
	Effects []EffectState `json:"effects" yaml:"effects"`
	// LiquidOrder maps liquid-flow position to effect index.
	LiquidOrder []int `json:"liquidOrder" yaml:"liquidOrder"`
	// Topology echoes the solved feed topology.
	Topology FeedTopology `json:"topology" yaml:"topology"`
	// SteamConsumption is the live steam supplied to the first-heated
	// effect, in kg/h.
	SteamConsumption float64 `json:"steamConsumption" yaml:"steamConsumption"`
	// TotalEvaporation is the water evaporated across all effects, in kg/h.
	TotalEvaporation float64 `json:"totalEvaporation" yaml:"totalEvaporation"`
	// SteamEconomy is TotalEvaporation / SteamConsumption.
	SteamEconomy float64 `json:"steamEconomy" yaml:"steamEconomy"`
	// TotalArea is the summed heat-transfer area in m², when sized.
	TotalArea float64 `json:"totalArea,omitempty" yaml:"totalArea,omitempty"`
	// Concentrate is the final concentrated stream leaving the train.
	Concentrate Stream `json:"concentrate" yaml:"concentrate"`
	// Iterations is the number of fixed-point passes used.
	Iterations int `json:"iterations" yaml:"iterations"`
	// Residual is the final relative residual of the train balance.
	Residual float64 `json:"residual" yaml:"residual"`
}

// CrystallizationResult is the equilibrium crystal yield derived once from
// the train's concentrate; immutable.
type CrystallizationResult struct {
	// CrystalMass is the theoretical crystal yield in kg/h.
	CrystalMass float64 `json:"crystalMass" yaml:"crystalMass"`
	// CrystalFraction is CrystalMass over the incoming syrup mass.
	CrystalFraction float64 `json:"crystalFraction" yaml:"crystalFraction"`
	// DissolvedSucrose is the sucrose remaining in the mother liquor, kg/h.
	DissolvedSucrose float64 `json:"dissolvedSucrose" yaml:"dissolvedSucrose"`
	// MotherLiquorPurity is dissolved sucrose over total dissolved solids.
	// With sucrose as the only solute this is 1.0 whenever solids remain.
	MotherLiquorPurity float64 `json:"motherLiquorPurity" yaml:"motherLiquorPurity"`
	// SaturationFraction is the equilibrium solubility at the endpoint
	// temperature, as a mass fraction of solution.
	SaturationFraction float64 `json:"saturationFraction" yaml:"saturationFraction"`
	// Supersaturation is the relative supersaturation (C−Cs)/Cs at the
	// endpoint before crystallization, floored at zero.
	Supersaturation float64 `json:"supersaturation" yaml:"supersaturation"`
	// EndTemperature is the endpoint temperature in °C.
	EndTemperature float64 `json:"endTemperature" yaml:"endTemperature"`
}

// ScenarioResult bundles one computed scenario for the presentation layer.
// The orchestrator owns it exclusively; a new scenario produces an entirely
// new result graph.
type ScenarioResult struct {
	Train           *TrainResult           `json:"train" yaml:"train"`
	Crystallization *CrystallizationResult `json:"crystallization" yaml:"crystallization"`
}
