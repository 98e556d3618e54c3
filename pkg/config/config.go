package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

// Defaults applied by ApplyDefaults when the scenario document leaves the
// corresponding field unset.
const (
	// DefaultTolerance is the relative convergence tolerance of the solver.
	DefaultTolerance = 1e-6
	// DefaultMaxIterations caps the train fixed-point iteration.
	DefaultMaxIterations = 100
	// DefaultSteamSuperheat is the live steam superheat above saturation, K.
	DefaultSteamSuperheat = 10.0
	// DefaultSteamPressure is the live steam pressure in bar absolute.
	DefaultSteamPressure = 2.5
	// DefaultTopPressure and DefaultBottomPressure bound the generated
	// pressure profile when no explicit per-effect list is given: a linear
	// profile from the first-heated effect down to the last, bar absolute.
	DefaultTopPressure    = 2.5
	DefaultBottomPressure = 0.15
	// DefaultTopology is the liquid routing used when unset.
	DefaultTopology = string(core.TopologyForward)
)

// defaultHeatTransferCoeffs holds typical per-effect overall coefficients in
// W/(m²·K), first-heated effect first.
var defaultHeatTransferCoeffs = []float64{2500, 2200, 1800, 1600, 1500}

// ScenarioSpec is one complete user-facing scenario description.
type ScenarioSpec struct {
	// Train describes the evaporator train.
	Train TrainSpec `yaml:"train" json:"train"`
	// Crystallizer describes the crystallization endpoint.
	Crystallizer CrystallizerSpec `yaml:"crystallizer" json:"crystallizer"`
	// Solver holds numeric settings; all fields optional.
	Solver SolverSpec `yaml:"solver,omitempty" json:"solver,omitempty"`
}

// TrainSpec describes the evaporator train.
type TrainSpec struct {
	// Effects is the number of evaporator effects, >= 1.
	Effects int `yaml:"effects" json:"effects"`

	// FeedFlow is the fresh feed mass flow in kg/h, > 0.
	FeedFlow float64 `yaml:"feedFlow" json:"feedFlow"`

	// FeedFraction is the feed sucrose mass fraction, in (0, 1).
	FeedFraction float64 `yaml:"feedFraction" json:"feedFraction"`

	// FeedTemperature is the feed temperature in °C.
	FeedTemperature float64 `yaml:"feedTemperature" json:"feedTemperature"`

	// TargetConcentration is the concentrate sucrose mass fraction leaving
	// the train, in (feedFraction, 1).
	TargetConcentration float64 `yaml:"targetConcentration" json:"targetConcentration"`

	// SteamPressure is the live steam pressure in bar absolute.
	SteamPressure float64 `yaml:"steamPressure,omitempty" json:"steamPressure,omitempty"`

	// SteamSuperheat is the live steam superheat above saturation in K.
	// Use a pointer to distinguish "unset" from an explicit zero.
	SteamSuperheat *float64 `yaml:"steamSuperheat,omitempty" json:"steamSuperheat,omitempty"`

	// Topology is the liquid routing: "forward" or "backward".
	Topology string `yaml:"topology,omitempty" json:"topology,omitempty"`

	// Pressures is the per-effect operating pressure in bar absolute, given
	// in liquid-flow order: strictly decreasing under forward feed,
	// strictly increasing under backward feed. Length must equal Effects.
	// When omitted, a linear profile is generated in vapor-cascade order.
	Pressures []float64 `yaml:"pressures,omitempty" json:"pressures,omitempty"`

	// HeatTransferCoeffs is the per-effect overall coefficient in W/(m²·K),
	// in vapor-cascade order, used for area sizing. When omitted a typical
	// table is applied.
	HeatTransferCoeffs []float64 `yaml:"heatTransferCoeffs,omitempty" json:"heatTransferCoeffs,omitempty"`
}

// CrystallizerSpec describes the crystallization endpoint.
type CrystallizerSpec struct {
	// Mode is "cooling-temperature" or "evaporative-concentration".
	Mode string `yaml:"mode" json:"mode"`
	// Target is the endpoint value: °C for cooling, sucrose mass fraction
	// for evaporative concentration.
	Target float64 `yaml:"target" json:"target"`
}

// SolverSpec holds numeric solver settings.
type SolverSpec struct {
	// Tolerance is the relative convergence tolerance; default 1e-6.
	Tolerance float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	// MaxIterations caps the fixed-point iteration; default 100.
	MaxIterations int `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty"`
}

// ApplyDefaults fills unset fields in place. Call it on a copy: the engine
// never mutates caller-owned documents.
func (s *ScenarioSpec) ApplyDefaults() {
	t := &s.Train
	if t.SteamPressure == 0 {
		t.SteamPressure = DefaultSteamPressure
	}
	if t.SteamSuperheat == nil {
		sh := DefaultSteamSuperheat
		t.SteamSuperheat = &sh
	}
	if t.Topology == "" {
		t.Topology = DefaultTopology
	}
	if t.Pressures == nil && t.Effects > 0 {
		t.Pressures = linearProfile(DefaultTopPressure, DefaultBottomPressure, t.Effects)
		if t.Topology == string(core.TopologyBackward) {
			// Generated profiles are in cascade order; the user-facing list
			// is in liquid-flow order.
			reverse(t.Pressures)
		}
	}
	if t.HeatTransferCoeffs == nil && t.Effects > 0 && t.Effects <= len(defaultHeatTransferCoeffs) {
		t.HeatTransferCoeffs = append([]float64(nil), defaultHeatTransferCoeffs[:t.Effects]...)
	}
	if s.Solver.Tolerance == 0 {
		s.Solver.Tolerance = DefaultTolerance
	}
	if s.Solver.MaxIterations == 0 {
		s.Solver.MaxIterations = DefaultMaxIterations
	}
}

// Validate checks the whole scenario document. It returns a descriptive
// error wrapping core.ErrInvalidInput that names the offending field.
func (s *ScenarioSpec) Validate() error {
	if err := s.Train.Validate(); err != nil {
		return err
	}
	if err := s.Crystallizer.Validate(); err != nil {
		return err
	}
	return s.Solver.Validate()
}

// Validate checks the train description.
func (t *TrainSpec) Validate() error {
	if t.Effects < 1 {
		return fmt.Errorf("%w: train.effects must be >= 1, got %d", core.ErrInvalidInput, t.Effects)
	}
	if t.FeedFlow <= 0 {
		return fmt.Errorf("%w: train.feedFlow must be > 0, got %.4g", core.ErrInvalidInput, t.FeedFlow)
	}
	if t.FeedFraction <= 0 || t.FeedFraction >= 1 {
		return fmt.Errorf("%w: train.feedFraction must be in (0, 1), got %.4g", core.ErrInvalidInput, t.FeedFraction)
	}
	if t.FeedTemperature < 0 {
		return fmt.Errorf("%w: train.feedTemperature must be >= 0 °C, got %.4g", core.ErrInvalidInput, t.FeedTemperature)
	}
	if t.TargetConcentration <= t.FeedFraction || t.TargetConcentration >= 1 {
		return fmt.Errorf("%w: train.targetConcentration must be in (feedFraction, 1), got %.4g",
			core.ErrInvalidInput, t.TargetConcentration)
	}
	if t.SteamPressure <= 0 {
		return fmt.Errorf("%w: train.steamPressure must be > 0 bar, got %.4g", core.ErrInvalidInput, t.SteamPressure)
	}
	if t.SteamSuperheat != nil && *t.SteamSuperheat < 0 {
		return fmt.Errorf("%w: train.steamSuperheat must be >= 0 K, got %.4g", core.ErrInvalidInput, *t.SteamSuperheat)
	}
	topo, err := core.ParseFeedTopology(t.Topology)
	if err != nil {
		return fmt.Errorf("train.topology: %w", err)
	}
	if len(t.Pressures) != t.Effects {
		return fmt.Errorf("%w: train.pressures length %d does not match train.effects %d",
			core.ErrInvalidInput, len(t.Pressures), t.Effects)
	}
	for i, p := range t.Pressures {
		if p <= 0 {
			return fmt.Errorf("%w: train.pressures[%d] must be > 0 bar, got %.4g", core.ErrInvalidInput, i, p)
		}
	}
	// The list is given in liquid-flow order: pressure falls along the
	// liquid path under forward feed and rises under backward feed.
	for i := 1; i < len(t.Pressures); i++ {
		switch topo {
		case core.TopologyForward:
			if t.Pressures[i] >= t.Pressures[i-1] {
				return fmt.Errorf("%w: train.pressures must be strictly decreasing under forward feed, got %.4g >= %.4g at index %d",
					core.ErrInvalidInput, t.Pressures[i], t.Pressures[i-1], i)
			}
		case core.TopologyBackward:
			if t.Pressures[i] <= t.Pressures[i-1] {
				return fmt.Errorf("%w: train.pressures must be strictly increasing under backward feed, got %.4g <= %.4g at index %d",
					core.ErrInvalidInput, t.Pressures[i], t.Pressures[i-1], i)
			}
		}
	}
	if t.HeatTransferCoeffs != nil {
		if len(t.HeatTransferCoeffs) != t.Effects {
			return fmt.Errorf("%w: train.heatTransferCoeffs length %d does not match train.effects %d",
				core.ErrInvalidInput, len(t.HeatTransferCoeffs), t.Effects)
		}
		for i, u := range t.HeatTransferCoeffs {
			if u <= 0 {
				return fmt.Errorf("%w: train.heatTransferCoeffs[%d] must be > 0, got %.4g", core.ErrInvalidInput, i, u)
			}
		}
	}
	return nil
}

// Validate checks the crystallizer endpoint.
func (c *CrystallizerSpec) Validate() error {
	mode, err := core.ParseTargetMode(c.Mode)
	if err != nil {
		return fmt.Errorf("crystallizer.mode: %w", err)
	}
	switch mode {
	case core.TargetCoolingTemperature:
		if c.Target < 0 {
			return fmt.Errorf("%w: crystallizer.target temperature must be >= 0 °C, got %.4g", core.ErrInvalidInput, c.Target)
		}
	case core.TargetEvaporativeConcentration:
		if c.Target <= 0 || c.Target >= 1 {
			return fmt.Errorf("%w: crystallizer.target concentration must be in (0, 1), got %.4g", core.ErrInvalidInput, c.Target)
		}
	}
	return nil
}

// Validate checks the solver settings.
func (s *SolverSpec) Validate() error {
	if s.Tolerance < 0 {
		return fmt.Errorf("%w: solver.tolerance must be >= 0, got %.4g", core.ErrInvalidInput, s.Tolerance)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("%w: solver.maxIterations must be >= 0, got %d", core.ErrInvalidInput, s.MaxIterations)
	}
	return nil
}

// Parse decodes a scenario document. Unknown fields are rejected so typos
// surface as errors instead of silently-defaulted settings.
func Parse(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	if err := unmarshalStrict(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: parsing scenario: %v", core.ErrInvalidInput, err)
	}
	return &spec, nil
}

// Load reads and decodes a scenario document from a file.
func Load(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return Parse(data)
}

func unmarshalStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty document")
		}
		return err
	}
	return nil
}

func linearProfile(top, bottom float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = top
		return out
	}
	step := (bottom - top) / float64(n-1)
	for i := range out {
		out[i] = top + float64(i)*step
	}
	return out
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
