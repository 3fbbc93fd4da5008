// Package builder is the public, external-collaborator surface spec.md
// §6 describes as out of scope for the core: thin glue that assembles
// a chip.Chip and a simulation.Simulation and exposes exactly the
// operations a caller needs (add_channel, add_droplet,
// check_chip_validity, simulate, ...), with no engine logic of its
// own.
package builder

import (
	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/mna"
	"droplet-sim/pkg/simulation"
)

// Builder assembles one chip and its simulation. Not safe for
// concurrent use; each Builder owns its chip/solver/droplet graph
// exclusively (spec §5).
type Builder struct {
	Chip *chip.Chip
	Sim  *simulation.Simulation

	model chip.ResistanceModel
}

// New creates a Builder for a chip named name, using model to convert
// channel geometry into resistance and solver to factor the MNA system
// each iteration.
func New(name string, model chip.ResistanceModel, solver mna.Solver) *Builder {
	c := chip.New(name)
	return &Builder{
		Chip:  c,
		Sim:   simulation.New(c, solver),
		model: model,
	}
}

// AddChannel adds a NORMAL channel and returns its id.
func (b *Builder) AddChannel(node0, node1 int, w, h, l float64) (int, error) {
	ch, err := b.Chip.AddChannel(node0, node1, w, h, l, b.model)
	if err != nil {
		return 0, err
	}
	return ch.ID(), nil
}

// AddBypassChannel adds a BYPASS channel and returns its id.
func (b *Builder) AddBypassChannel(node0, node1 int, w, h, l float64) (int, error) {
	ch, err := b.Chip.AddBypassChannel(node0, node1, w, h, l, b.model)
	if err != nil {
		return 0, err
	}
	return ch.ID(), nil
}

// AddCloggableChannel adds a CLOGGABLE channel and returns its id.
// CLOGGABLE channels are excluded from CheckChipValidity's
// reachability graph (spec §3, §6).
func (b *Builder) AddCloggableChannel(node0, node1 int, w, h, l float64) (int, error) {
	ch, err := b.Chip.AddCloggableChannel(node0, node1, w, h, l, b.model)
	if err != nil {
		return 0, err
	}
	return ch.ID(), nil
}

// AddFlowRatePump adds a fixed-flow pump and returns its id.
func (b *Builder) AddFlowRatePump(node0, node1 int, q float64) int {
	return b.Chip.AddFlowRatePump(node0, node1, q).ID()
}

// AddPressurePump adds a fixed-pressure-rise pump and returns its id.
func (b *Builder) AddPressurePump(node0, node1 int, deltaP float64) int {
	return b.Chip.AddPressurePump(node0, node1, deltaP).ID()
}

// AddSink marks node as a droplet sink.
func (b *Builder) AddSink(node int) { b.Chip.AddSink(node) }

// AddGround marks node as a pressure-reference ground. At least one is
// required before Simulate.
func (b *Builder) AddGround(node int) { b.Chip.AddGround(node) }

// AddFluid registers a fluid and returns its id.
func (b *Builder) AddFluid(viscosity, density, concentration float64) int {
	return b.Chip.AddFluid(viscosity, density, concentration).ID
}

// SetContinuousPhase designates fluidID as the carrier fluid whose
// viscosity enters every channel's static resistance. Required before
// Simulate.
func (b *Builder) SetContinuousPhase(fluidID int) { b.Chip.SetContinuousPhase(fluidID) }

// SetMaximalAdaptiveTimeStep sets the TimeStep event's fire interval;
// zero disables it.
func (b *Builder) SetMaximalAdaptiveTimeStep(dt float64) { b.Chip.SetMaximalAdaptiveTimeStep(dt) }

// AddDroplet schedules a droplet injection, validated synchronously
// (spec §4.10, §7).
func (b *Builder) AddDroplet(fluidID int, volume, injectTime float64, channelID int, relPos float64) (int, error) {
	return b.Sim.AddDroplet(fluidID, volume, injectTime, channelID, relPos)
}

// CheckChipValidity fails unless every node and channel reaches at
// least one ground through non-CLOGGABLE channels.
func (b *Builder) CheckChipValidity() error { return b.Chip.CheckValidity() }

// Simulate runs the event loop to quiescence or the iteration cap.
func (b *Builder) Simulate() (*simulation.Result, error) { return b.Sim.Run() }
