// Package simulation orchestrates the discrete-event loop: update
// droplet-contributed resistances, solve MNA, redistribute boundary
// flow rates, record a state snapshot, enumerate candidate events,
// fire the earliest, repeat (spec §2).
package simulation

import (
	"github.com/sirupsen/logrus"

	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/droplet"
	"droplet-sim/pkg/event"
	"droplet-sim/pkg/mna"
	"droplet-sim/pkg/simerr"
)

// DefaultMaxIterations is the event-loop cap applied when the caller
// does not override it (spec §5).
const DefaultMaxIterations = 1_000_000

// injectionSpec is a validated, not-yet-fired droplet injection.
// head/tail are precomputed relative positions (spec §4.10); they are
// validated once, at AddDroplet time, per the "configuration errors
// are reported synchronously by the builder" recovery policy (spec
// §7), not deferred to the Injection event.
type injectionSpec struct {
	DropletID  int
	FluidID    int
	Volume     float64
	InjectTime float64
	Channel    int
	RelPos     float64

	head, tail float64
	injected   bool
}

// Simulation owns the chip, the solver backend, and the droplet
// registry for one run. All mutable state is owned here; the event
// dispatcher is the sole writer during event firing (spec §5).
type Simulation struct {
	Chip   *chip.Chip
	Solver mna.Solver

	Droplets      map[int]*droplet.Droplet
	dropletOrder  []int
	nextDropletID int

	pending []*injectionSpec

	MaxIterations int

	time        float64
	seq         int
	diagnostics int
	states      []*State
}

// New creates a Simulation over chip c using solver for the MNA
// solve, with the default iteration cap.
func New(c *chip.Chip, solver mna.Solver) *Simulation {
	return &Simulation{
		Chip:          c,
		Solver:        solver,
		Droplets:      make(map[int]*droplet.Droplet),
		MaxIterations: DefaultMaxIterations,
	}
}

func (s *Simulation) nextSeq() int {
	seq := s.seq
	s.seq++
	return seq
}

func (s *Simulation) channel(id int) *chip.Channel {
	ch, _ := s.Chip.Edges[id].(*chip.Channel)
	return ch
}

// AddDroplet registers a droplet scheduled for injection at injectTime
// into channel channelID at relative position relPos. Validated
// synchronously (spec §4.10, §7 InvalidInjection): the droplet length
// V/V_chan must be < 1 and both head and tail must lie strictly inside
// (0, 1).
func (s *Simulation) AddDroplet(fluidID int, volume, injectTime float64, channelID int, relPos float64) (int, error) {
	ch := s.channel(channelID)
	if ch == nil {
		return 0, &simerr.InvalidInjectionError{Droplet: -1, Channel: channelID, Reason: "no such channel"}
	}
	vchan := ch.Volume()
	ld := volume / vchan
	head := relPos + ld/2
	tail := relPos - ld/2
	if ld >= 1 || !(tail > 0 && tail < 1 && head > 0 && head < 1) {
		return 0, &simerr.InvalidInjectionError{Droplet: -1, Channel: channelID, Reason: "droplet does not fit strictly within the channel"}
	}

	id := s.nextDropletID
	s.nextDropletID++
	d := droplet.New(id, fluidID, volume)
	s.Droplets[id] = d
	s.dropletOrder = append(s.dropletOrder, id)
	s.pending = append(s.pending, &injectionSpec{
		DropletID: id, FluidID: fluidID, Volume: volume, InjectTime: injectTime,
		Channel: channelID, RelPos: relPos, head: head, tail: tail,
	})
	return id, nil
}

func (s *Simulation) specFor(dropletID int) *injectionSpec {
	for _, spec := range s.pending {
		if spec.DropletID == dropletID && !spec.injected {
			return spec
		}
	}
	return nil
}

// Run executes the control-flow loop of spec §2 to quiescence (no
// candidate events remain) or to MaxIterations, whichever comes
// first, and returns the accumulated Result.
func (s *Simulation) Run() (*Result, error) {
	if !s.Chip.ContinuousPhaseSet() {
		return nil, simerr.ErrMissingContinuousPhase
	}
	if len(s.Chip.Grounds) == 0 {
		return nil, simerr.ErrMissingGround
	}
	if err := s.Chip.FinalizeResistances(); err != nil {
		return nil, err
	}

	iterationLimited := false
	iter := 0
	for {
		if iter >= s.MaxIterations {
			iterationLimited = true
			logrus.Warnf("simulation: iteration limit %d reached, returning partial result", s.MaxIterations)
			break
		}
		iter++

		s.applyDropletResistances()

		sys := mna.Build(s.Chip)
		sol, err := s.Solver.Solve(sys)
		if err != nil {
			return nil, err
		}

		s.redistributeAll(sol)
		s.record(sol)

		candidates := s.enumerateCandidates(sol)
		winner, ok := event.PickEarliest(candidates)
		if !ok {
			logrus.Infof("simulation: no candidate events remain after %d iterations, time=%g", iter, s.time)
			break
		}

		s.advanceBoundaries(winner.Time)
		s.time += winner.Time
		s.fire(winner, sol)
	}

	result := s.buildResult(iterationLimited)
	if iterationLimited {
		return result, &simerr.IterationLimitError{Iterations: iter}
	}
	return result, nil
}
