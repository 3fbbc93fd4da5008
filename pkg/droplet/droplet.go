// Package droplet models a droplet's boundaries, occupancy, and the
// small state machine each boundary goes through as it crosses
// channel topology (spec §3-4.5).
package droplet

// State is a droplet's lifecycle stage.
type State int

const (
	Injection State = iota
	Network
	Trapped
	Sink
)

func (s State) String() string {
	switch s {
	case Injection:
		return "INJECTION"
	case Network:
		return "NETWORK"
	case Trapped:
		return "TRAPPED"
	case Sink:
		return "SINK"
	default:
		return "UNKNOWN"
	}
}

// WaitState is the parked/active state of a single boundary.
type WaitState int

const (
	Normal WaitState = iota
	WaitInflow
	WaitOutflow
)

func (w WaitState) String() string {
	switch w {
	case WaitInflow:
		return "WAIT_INFLOW"
	case WaitOutflow:
		return "WAIT_OUTFLOW"
	default:
		return "NORMAL"
	}
}

// Boundary is a moving fluid-fluid interface delimiting one droplet in
// one channel.
type Boundary struct {
	Channel  int
	Position float64 // relative position in [0,1]
	Towards0 bool     // droplet interior lies toward node0 of Channel
	FlowRate float64  // signed q_b: <0 toward droplet center, >0 away
	Wait     WaitState
}

// ReferenceNode returns which end of the channel (node0 if true, node1
// if false) the boundary's droplet interior touches.
func (b *Boundary) ReferenceNode() bool { return b.Towards0 }

// SignedVelocity returns the boundary's node0->node1-oriented
// volumetric velocity, derived from FlowRate and Towards0 (spec §4.3).
func (b *Boundary) SignedVelocity() float64 {
	if b.Towards0 {
		return b.FlowRate
	}
	return -b.FlowRate
}

// ReferenceVolume returns the volume of channelVolume lying between
// this boundary and its reference node (spec §4.1's "V_bi, the volume
// on the reference side of boundary i").
func (b *Boundary) ReferenceVolume(channelVolume float64) float64 {
	if b.Towards0 {
		return b.Position * channelVolume
	}
	return (1 - b.Position) * channelVolume
}

// Droplet is a contiguous slug of one fluid moving through the
// network. Boundaries are owned exclusively by their droplet.
type Droplet struct {
	ID            int
	Volume        float64
	FluidID       int
	State         State
	Boundaries    []*Boundary
	FullyOccupied map[int]bool // channel id -> occupied
	ParentIDs     []int
}

// New creates an empty droplet pending injection.
func New(id, fluidID int, volume float64) *Droplet {
	return &Droplet{
		ID:            id,
		FluidID:       fluidID,
		Volume:        volume,
		State:         Injection,
		FullyOccupied: make(map[int]bool),
	}
}

// NewMerged constructs the droplet produced by a merge event. Callers
// (simulation/dispatch) assemble the surviving boundary list and
// fully-occupied set per the specific merge kind (MergeChannel vs
// MergeBifurcation) before calling this.
func NewMerged(id, fluidID int, volume float64, boundaries []*Boundary, fullyOccupied map[int]bool, parentIDs []int) *Droplet {
	if fullyOccupied == nil {
		fullyOccupied = make(map[int]bool)
	}
	return &Droplet{
		ID:            id,
		FluidID:       fluidID,
		Volume:        volume,
		State:         Network,
		Boundaries:    boundaries,
		FullyOccupied: fullyOccupied,
		ParentIDs:     parentIDs,
	}
}

// Channels returns the set of channel ids this droplet currently
// touches, from its boundaries and its fully-occupied channels.
func (d *Droplet) Channels() map[int]bool {
	set := make(map[int]bool)
	for _, b := range d.Boundaries {
		set[b.Channel] = true
	}
	for ch := range d.FullyOccupied {
		set[ch] = true
	}
	return set
}

// SpansMultipleChannels reports whether the droplet currently touches
// more than one channel.
func (d *Droplet) SpansMultipleChannels() bool {
	return len(d.Channels()) > 1
}

// IsAtBifurcation implements the source's documented-as-is heuristic
// (DESIGN NOTES §9): true whenever the droplet spans more than one
// channel, even if no branch actually lies inside the droplet. This
// over-triggers TimeStep events but does not affect correctness.
func (d *Droplet) IsAtBifurcation() bool { return d.SpansMultipleChannels() }

// RemoveBoundary deletes the boundary at index i.
func (d *Droplet) RemoveBoundary(i int) {
	d.Boundaries = append(d.Boundaries[:i], d.Boundaries[i+1:]...)
}
