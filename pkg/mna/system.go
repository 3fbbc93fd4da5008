// Package mna builds and solves the modified-nodal-analysis linear
// system for a chip: node pressures and pump flow rates from channel
// conductances, flow-rate pump sources, and pressure-pump branch
// equations (spec §4.2).
package mna

import (
	"droplet-sim/pkg/chip"
)

// System is the node/branch index assignment derived from a chip,
// independent of which solver backend is used to factor it.
type System struct {
	Chip *chip.Chip

	nodeIndex map[int]int // node id -> 1-based matrix row/col, ground excluded
	branches  []chip.BranchPump
	Size      int
}

// Build assigns a matrix index to every non-ground node, then appends
// one branch index per pressure pump (spec §4.2).
func Build(c *chip.Chip) *System {
	sys := &System{Chip: c, nodeIndex: make(map[int]int)}

	idx := 1
	for _, nid := range c.NodeOrder() {
		if c.IsGround(nid) {
			continue
		}
		sys.nodeIndex[nid] = idx
		idx++
	}

	for _, eid := range c.EdgeOrder() {
		if bp, ok := c.Edges[eid].(chip.BranchPump); ok {
			bp.SetBranchIndex(idx)
			sys.branches = append(sys.branches, bp)
			idx++
		}
	}

	sys.Size = idx - 1
	return sys
}

// NodeIndex returns the matrix index for node id, or (0, false) if it
// is a ground node (excluded from the system).
func (s *System) NodeIndex(nodeID int) (int, bool) {
	idx, ok := s.nodeIndex[nodeID]
	return idx, ok
}

// Stamp is the minimal write surface the chip's edges need to
// populate an MNA system, implemented by both solver backends.
type Stamp interface {
	AddElement(i, j int, value float64)
	AddRHS(i int, value float64)
}

// StampSystem writes every edge's contribution into m: channel
// conductances, flow-rate pump sources, and pressure-pump branch rows
// (spec §4.2).
func StampSystem(sys *System, m Stamp) {
	for _, eid := range sys.Chip.EdgeOrder() {
		edge := sys.Chip.Edges[eid]
		n0, n1 := edge.Nodes()
		i0, ok0 := sys.NodeIndex(n0)
		i1, ok1 := sys.NodeIndex(n1)

		switch e := edge.(type) {
		case chip.Conductive:
			g := e.Conductance()
			if ok0 {
				m.AddElement(i0, i0, g)
			}
			if ok1 {
				m.AddElement(i1, i1, g)
			}
			if ok0 && ok1 {
				m.AddElement(i0, i1, -g)
				m.AddElement(i1, i0, -g)
			}
		case chip.FixedFlow:
			q := e.Q()
			if ok0 {
				m.AddRHS(i0, -q)
			}
			if ok1 {
				m.AddRHS(i1, q)
			}
		case chip.BranchPump:
			b := e.BranchIndex()
			if ok0 {
				m.AddElement(b, i0, -1)
				m.AddElement(i0, b, -1)
			}
			if ok1 {
				m.AddElement(b, i1, 1)
				m.AddElement(i1, b, 1)
			}
			m.AddRHS(b, e.DeltaP())
		}
	}
}

// Solution carries node pressures and pump flows read back from a
// solved system.
type Solution struct {
	NodePressures map[int]float64
	PumpFlows     map[int]float64
}

// ChannelFlow returns the channel's signed flow rate: positive runs
// node0 -> node1.
func (s *Solution) ChannelFlow(ch *chip.Channel) float64 {
	n0, n1 := ch.Nodes()
	return (s.NodePressures[n0] - s.NodePressures[n1]) / ch.TotalResistance()
}
