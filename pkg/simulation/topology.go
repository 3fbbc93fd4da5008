package simulation

import (
	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/mna"
)

// referenceNode returns the endpoint of ch toward which a boundary
// with the given Towards0 flag's droplet interior lies.
func referenceNode(ch *chip.Channel, towards0 bool) int {
	n0, n1 := ch.Nodes()
	if towards0 {
		return n0
	}
	return n1
}

// farNode returns the endpoint of ch opposite a boundary's reference
// node: where an outflowing head advances toward.
func farNode(ch *chip.Channel, towards0 bool) int {
	n0, n1 := ch.Nodes()
	if towards0 {
		return n1
	}
	return n0
}

// outflowAway returns ch's flow rate oriented away from node (positive
// means outflow from node through ch), and whether ch is eligible at
// all (NORMAL subtype, incident to node).
func outflowAway(ch *chip.Channel, node int, sol *mna.Solution) (float64, bool) {
	if ch.Subtype != chip.Normal {
		return 0, false
	}
	n0, n1 := ch.Nodes()
	flow := sol.ChannelFlow(ch)
	switch node {
	case n0:
		return flow, true
	case n1:
		return -flow, true
	default:
		return 0, false
	}
}

// bestOutflowChannel finds, among the channels at node (excluding
// exclude), the NORMAL channel with maximum outflow magnitude away
// from node (spec §4.6 step 2).
func bestOutflowChannel(c *chip.Chip, node, exclude int, sol *mna.Solution) (*chip.Channel, bool) {
	var best *chip.Channel
	var bestFlow float64
	for _, ch := range c.ChannelsAt(node, exclude) {
		flow, ok := outflowAway(ch, node, sol)
		if !ok || flow <= 0 {
			continue
		}
		if best == nil || flow > bestFlow {
			best = ch
			bestFlow = flow
		}
	}
	return best, best != nil
}

// hasOutflowAway reports whether any eligible channel at node
// (excluding exclude) currently carries outflow away from node (spec
// §4.4 step 2's wait-exit condition).
func hasOutflowAway(c *chip.Chip, node, exclude int, sol *mna.Solution) bool {
	_, ok := bestOutflowChannel(c, node, exclude, sol)
	return ok
}
