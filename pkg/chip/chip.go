package chip

import (
	"fmt"
	"sort"

	"droplet-sim/pkg/simerr"
)

// Chip is the static microfluidic network: nodes, edges, ground/sink
// reference nodes, and the fluid registry. It owns all of them for
// the duration of a run; ids are monotonic and never reused.
type Chip struct {
	Name string

	nextNodeID  int
	nextEdgeID  int
	nextFluidID int

	Nodes map[int]*Node
	Edges map[int]Edge
	// edgeOrder/ nodeOrder record insertion order for deterministic
	// iteration (matrix assembly, event enumeration tie-breaking).
	edgeOrder []int
	nodeOrder []int

	Grounds map[int]bool
	Sinks   map[int]bool

	Fluids        map[int]*Fluid
	fluidOrder    []int
	continuous    int
	continuousSet bool

	MaxAdaptiveTimeStep float64
}

func New(name string) *Chip {
	return &Chip{
		Name:    name,
		Nodes:   make(map[int]*Node),
		Edges:   make(map[int]Edge),
		Grounds: make(map[int]bool),
		Sinks:   make(map[int]bool),
		Fluids:  make(map[int]*Fluid),
	}
}

// ensureNode creates a Node on first reference, as spec.md §3 requires.
func (c *Chip) ensureNode(id int) {
	if _, ok := c.Nodes[id]; ok {
		return
	}
	c.Nodes[id] = &Node{ID: id}
	c.nodeOrder = append(c.nodeOrder, id)
	if id >= c.nextNodeID {
		c.nextNodeID = id + 1
	}
}

func (c *Chip) addEdge(e Edge) {
	c.Edges[e.ID()] = e
	c.edgeOrder = append(c.edgeOrder, e.ID())
}

func (c *Chip) nextID() int {
	id := c.nextEdgeID
	c.nextEdgeID++
	return id
}

// AddChannel creates a Normal channel between node0 and node1.
func (c *Chip) AddChannel(node0, node1 int, w, h, l float64, model ResistanceModel) (*Channel, error) {
	return c.addChannel(node0, node1, w, h, l, Normal, model)
}

// AddBypassChannel creates a Bypass channel, which BoundaryHead
// routing never selects and which check validity still traverses.
func (c *Chip) AddBypassChannel(node0, node1 int, w, h, l float64, model ResistanceModel) (*Channel, error) {
	return c.addChannel(node0, node1, w, h, l, Bypass, model)
}

// AddCloggableChannel creates a Cloggable channel, excluded from the
// ground-reachability graph used by CheckValidity.
func (c *Chip) AddCloggableChannel(node0, node1 int, w, h, l float64, model ResistanceModel) (*Channel, error) {
	return c.addChannel(node0, node1, w, h, l, Cloggable, model)
}

func (c *Chip) addChannel(node0, node1 int, w, h, l float64, subtype ChannelSubtype, model ResistanceModel) (*Channel, error) {
	id := c.nextID()
	ch, err := NewChannel(id, node0, node1, w, h, l, subtype, model)
	if err != nil {
		return nil, err
	}
	c.ensureNode(node0)
	c.ensureNode(node1)
	c.addEdge(ch)
	return ch, nil
}

// FinalizeResistances computes every channel's static resistance from
// the continuous phase's viscosity. Called once the continuous phase
// is set, before the first MNA solve (spec §4.1, §6
// set_continuous_phase).
func (c *Chip) FinalizeResistances() error {
	fluid, ok := c.ContinuousPhase()
	if !ok {
		return simerr.ErrMissingContinuousPhase
	}
	for _, ch := range c.Channels() {
		ch.RecomputeStatic(fluid.Viscosity)
	}
	return nil
}

func (c *Chip) AddFlowRatePump(node0, node1 int, q float64) *FlowRatePump {
	id := c.nextID()
	p := NewFlowRatePump(id, node0, node1, q)
	c.ensureNode(node0)
	c.ensureNode(node1)
	c.addEdge(p)
	return p
}

func (c *Chip) AddPressurePump(node0, node1 int, deltaP float64) *PressurePump {
	id := c.nextID()
	p := NewPressurePump(id, node0, node1, deltaP)
	c.ensureNode(node0)
	c.ensureNode(node1)
	c.addEdge(p)
	return p
}

func (c *Chip) AddGround(nodeID int) {
	c.ensureNode(nodeID)
	c.Grounds[nodeID] = true
}

func (c *Chip) AddSink(nodeID int) {
	c.ensureNode(nodeID)
	c.Sinks[nodeID] = true
}

func (c *Chip) IsGround(nodeID int) bool { return c.Grounds[nodeID] }
func (c *Chip) IsSink(nodeID int) bool   { return c.Sinks[nodeID] }

func (c *Chip) AddFluid(mu, rho, conc float64) *Fluid {
	id := c.nextFluidID
	c.nextFluidID++
	f := &Fluid{ID: id, Viscosity: mu, Density: rho, Concentration: conc}
	c.Fluids[id] = f
	c.fluidOrder = append(c.fluidOrder, id)
	return f
}

// AddMixedFluid registers a Fluid produced by Mix, assigning it the
// next fluid id.
func (c *Chip) AddMixedFluid(mixed Fluid) *Fluid {
	id := c.nextFluidID
	c.nextFluidID++
	mixed.ID = id
	f := &mixed
	c.Fluids[id] = f
	c.fluidOrder = append(c.fluidOrder, id)
	return f
}

func (c *Chip) SetContinuousPhase(fluidID int) {
	c.continuous = fluidID
	c.continuousSet = true
}

func (c *Chip) ContinuousPhase() (*Fluid, bool) {
	if !c.continuousSet {
		return nil, false
	}
	return c.Fluids[c.continuous], true
}

func (c *Chip) ContinuousPhaseSet() bool { return c.continuousSet }

func (c *Chip) SetMaximalAdaptiveTimeStep(dt float64) { c.MaxAdaptiveTimeStep = dt }

// EdgeOrder returns edge ids in insertion order.
func (c *Chip) EdgeOrder() []int {
	out := make([]int, len(c.edgeOrder))
	copy(out, c.edgeOrder)
	return out
}

// NodeOrder returns node ids in insertion order.
func (c *Chip) NodeOrder() []int {
	out := make([]int, len(c.nodeOrder))
	copy(out, c.nodeOrder)
	return out
}

// Channels returns every Channel edge, in insertion order.
func (c *Chip) Channels() []*Channel {
	var out []*Channel
	for _, id := range c.edgeOrder {
		if ch, ok := c.Edges[id].(*Channel); ok {
			out = append(out, ch)
		}
	}
	return out
}

// ChannelsAt returns the channels incident to node, in insertion
// order, optionally excluding one edge id.
func (c *Chip) ChannelsAt(node int, exclude int) []*Channel {
	var out []*Channel
	for _, ch := range c.Channels() {
		n0, n1 := ch.Nodes()
		if ch.ID() == exclude {
			continue
		}
		if n0 == node || n1 == node {
			out = append(out, ch)
		}
	}
	return out
}

// CheckValidity verifies that every node and channel is reachable from
// some ground through non-Cloggable channels (channels only; pumps do
// not establish hydraulic connectivity for this check since they are
// independent sources, not passive conductors).
func (c *Chip) CheckValidity() error {
	reachable := make(map[int]bool)
	queue := make([]int, 0, len(c.Grounds))
	for g := range c.Grounds {
		if !reachable[g] {
			reachable[g] = true
			queue = append(queue, g)
		}
	}
	adjacency := make(map[int][]*Channel)
	for _, ch := range c.Channels() {
		if ch.Subtype == Cloggable {
			continue
		}
		n0, n1 := ch.Nodes()
		adjacency[n0] = append(adjacency[n0], ch)
		adjacency[n1] = append(adjacency[n1], ch)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, ch := range adjacency[n] {
			n0, n1 := ch.Nodes()
			other := n1
			if n != n0 {
				other = n0
			}
			if !reachable[other] {
				reachable[other] = true
				queue = append(queue, other)
			}
		}
	}

	var badNodes []int
	for _, id := range c.nodeOrder {
		if !reachable[id] {
			badNodes = append(badNodes, id)
		}
	}
	var badChannels []int
	for _, ch := range c.Channels() {
		if ch.Subtype == Cloggable {
			continue
		}
		n0, n1 := ch.Nodes()
		if !reachable[n0] || !reachable[n1] {
			badChannels = append(badChannels, ch.ID())
		}
	}
	if len(badNodes) > 0 || len(badChannels) > 0 {
		sort.Ints(badNodes)
		sort.Ints(badChannels)
		return &simerr.DisconnectedNetworkError{Nodes: badNodes, Channels: badChannels}
	}
	return nil
}

func (c *Chip) String() string {
	return fmt.Sprintf("chip %q: %d nodes, %d edges, %d fluids", c.Name, len(c.Nodes), len(c.Edges), len(c.Fluids))
}
