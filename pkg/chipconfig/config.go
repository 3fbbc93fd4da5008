// Package chipconfig loads a chip description from YAML into the
// builder API, the config-driven alternative to calling builder.New
// and its Add* methods directly. Numeric fields accept SI unit
// suffixes ("100u", "30e-6"), parsed the way toy-spice's netlist
// ParseValue does.
package chipconfig

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"droplet-sim/pkg/builder"
	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/mna"
)

var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"M":   1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?$`)

// ParseValue parses a numeric literal with an optional SI suffix, e.g.
// "100u" -> 1e-4, "30e-6" -> 3e-5.
func ParseValue(s string) (float64, error) {
	m := valuePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("chipconfig: invalid numeric value %q", s)
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}
	if m[2] != "" {
		if mult, ok := unitMap[m[2]]; ok {
			// Dividing by the exact inverse keeps "100u" equal to the
			// literal 1e-4; multiplying by the inexact 1e-6 would not.
			if mult < 1 {
				num /= math.Round(1 / mult)
			} else {
				num *= mult
			}
		}
	}
	return num, nil
}

// Value is a float64 that unmarshals either a bare YAML number or an
// SI-suffixed string.
type Value float64

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var f float64
	if err := node.Decode(&f); err == nil {
		*v = Value(f)
		return nil
	}
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseValue(raw)
	if err != nil {
		return err
	}
	*v = Value(parsed)
	return nil
}

// FluidSpec describes one fluid (spec §6 add_fluid).
type FluidSpec struct {
	Viscosity     Value `yaml:"viscosity"`
	Density       Value `yaml:"density"`
	Concentration Value `yaml:"concentration"`
}

// ChannelSpec describes one channel edge; Subtype is "normal"
// (default), "bypass", or "cloggable".
type ChannelSpec struct {
	Node0   int    `yaml:"node0"`
	Node1   int    `yaml:"node1"`
	Width   Value  `yaml:"width"`
	Height  Value  `yaml:"height"`
	Length  Value  `yaml:"length"`
	Subtype string `yaml:"subtype"`
}

// PumpSpec describes one pump edge; Kind is "flow_rate" (default) or
// "pressure".
type PumpSpec struct {
	Node0 int    `yaml:"node0"`
	Node1 int    `yaml:"node1"`
	Kind  string `yaml:"kind"`
	Value Value  `yaml:"value"`
}

// DropletSpec describes one scheduled injection; Fluid and Channel are
// indices into Document.Fluids and the channel list respectively,
// resolved to ids during Build.
type DropletSpec struct {
	Fluid      int   `yaml:"fluid"`
	Volume     Value `yaml:"volume"`
	InjectTime Value `yaml:"inject_time"`
	Channel    int   `yaml:"channel"`
	RelPos     Value `yaml:"rel_pos"`
}

// Document is the top-level chip description.
type Document struct {
	Name                string        `yaml:"name"`
	ContinuousPhase     int           `yaml:"continuous_phase"`
	MaxAdaptiveTimeStep Value         `yaml:"max_adaptive_time_step"`
	Grounds             []int         `yaml:"grounds"`
	Sinks               []int         `yaml:"sinks"`
	Fluids              []FluidSpec   `yaml:"fluids"`
	Channels            []ChannelSpec `yaml:"channels"`
	Pumps               []PumpSpec    `yaml:"pumps"`
	Droplets            []DropletSpec `yaml:"droplets"`
}

// Parse decodes a chip description document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("chipconfig: parsing chip description: %w", err)
	}
	return &doc, nil
}

// Build assembles a builder.Builder from doc, issuing every Add* call
// in document order so edge/droplet ids are deterministic.
func Build(doc *Document, model chip.ResistanceModel, solver mna.Solver) (*builder.Builder, error) {
	b := builder.New(doc.Name, model, solver)

	fluidIDs := make([]int, len(doc.Fluids))
	for i, f := range doc.Fluids {
		fluidIDs[i] = b.AddFluid(float64(f.Viscosity), float64(f.Density), float64(f.Concentration))
	}

	channelIDs := make([]int, len(doc.Channels))
	for i, ch := range doc.Channels {
		var id int
		var err error
		switch ch.Subtype {
		case "bypass":
			id, err = b.AddBypassChannel(ch.Node0, ch.Node1, float64(ch.Width), float64(ch.Height), float64(ch.Length))
		case "cloggable":
			id, err = b.AddCloggableChannel(ch.Node0, ch.Node1, float64(ch.Width), float64(ch.Height), float64(ch.Length))
		default:
			id, err = b.AddChannel(ch.Node0, ch.Node1, float64(ch.Width), float64(ch.Height), float64(ch.Length))
		}
		if err != nil {
			return nil, err
		}
		channelIDs[i] = id
	}

	for _, p := range doc.Pumps {
		if p.Kind == "pressure" {
			b.AddPressurePump(p.Node0, p.Node1, float64(p.Value))
		} else {
			b.AddFlowRatePump(p.Node0, p.Node1, float64(p.Value))
		}
	}

	for _, g := range doc.Grounds {
		b.AddGround(g)
	}
	for _, sk := range doc.Sinks {
		b.AddSink(sk)
	}

	if len(fluidIDs) > 0 {
		if doc.ContinuousPhase < 0 || doc.ContinuousPhase >= len(fluidIDs) {
			return nil, fmt.Errorf("chipconfig: continuous_phase index %d out of range", doc.ContinuousPhase)
		}
		b.SetContinuousPhase(fluidIDs[doc.ContinuousPhase])
	}
	if doc.MaxAdaptiveTimeStep > 0 {
		b.SetMaximalAdaptiveTimeStep(float64(doc.MaxAdaptiveTimeStep))
	}

	for _, d := range doc.Droplets {
		if d.Fluid < 0 || d.Fluid >= len(fluidIDs) {
			return nil, fmt.Errorf("chipconfig: droplet fluid index %d out of range", d.Fluid)
		}
		if d.Channel < 0 || d.Channel >= len(channelIDs) {
			return nil, fmt.Errorf("chipconfig: droplet channel index %d out of range", d.Channel)
		}
		if _, err := b.AddDroplet(fluidIDs[d.Fluid], float64(d.Volume), float64(d.InjectTime), channelIDs[d.Channel], float64(d.RelPos)); err != nil {
			return nil, err
		}
	}

	return b, nil
}
