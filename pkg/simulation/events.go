package simulation

import (
	"droplet-sim/pkg/droplet"
	"droplet-sim/pkg/event"
	"droplet-sim/pkg/mna"
)

// dropletAtNode returns a network droplet (other than exclude) whose
// interior already touches node, or nil if none does (spec §4.9's
// "node N where droplet D1 already sits").
func (s *Simulation) dropletAtNode(node, exclude int) *droplet.Droplet {
	for _, id := range s.dropletOrder {
		if id == exclude {
			continue
		}
		d := s.Droplets[id]
		if d.State != droplet.Network {
			continue
		}
		for _, b := range d.Boundaries {
			ch := s.channel(b.Channel)
			if referenceNode(ch, b.Towards0) == node {
				return d
			}
		}
		for chID := range d.FullyOccupied {
			ch := s.channel(chID)
			n0, n1 := ch.Nodes()
			if n0 == node || n1 == node {
				return d
			}
		}
	}
	return nil
}

// enumerateCandidates computes every candidate event for the current
// boundary flow rates (spec §4.3, §4.6-§4.10).
func (s *Simulation) enumerateCandidates(sol *mna.Solution) []event.Event {
	var candidates []event.Event

	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		if d.State != droplet.Network {
			continue
		}
		for bi, b := range d.Boundaries {
			if b.Wait != droplet.Normal {
				continue // parked boundaries generate no candidate until WaitExit clears them
			}
			ch := s.channel(b.Channel)
			vchan := ch.Volume()
			vRef := b.ReferenceVolume(vchan)

			switch {
			case b.FlowRate > 0: // head: moving away from droplet center
				vRemaining := vchan - vRef
				dt := vRemaining / b.FlowRate
				node := farNode(ch, b.Towards0)
				if other := s.dropletAtNode(node, d.ID); other != nil {
					candidates = append(candidates, event.Event{
						Kind: event.MergeBifurcation, Time: dt, Seq: s.nextSeq(),
						Droplet: d.ID, OtherDroplet: other.ID, Boundary: bi, Node: node, Channel: ch.ID(),
					})
				} else {
					candidates = append(candidates, event.Event{
						Kind: event.BoundaryHead, Time: dt, Seq: s.nextSeq(),
						Droplet: d.ID, Boundary: bi, Node: node, Channel: ch.ID(),
					})
				}
			case b.FlowRate < 0: // tail: moving toward droplet center
				dt := vRef / -b.FlowRate
				candidates = append(candidates, event.Event{
					Kind: event.BoundaryTail, Time: dt, Seq: s.nextSeq(),
					Droplet: d.ID, Boundary: bi, Channel: ch.ID(),
				})
			}
		}
	}

	candidates = append(candidates, s.mergeChannelCandidates()...)
	candidates = append(candidates, s.injectionCandidates()...)
	candidates = append(candidates, s.timeStepCandidate()...)

	return candidates
}

// mergeChannelCandidates finds every pair of boundaries of different
// droplets sharing a channel whose oriented velocities converge inside
// the channel (spec §4.3 "MergeChannel time", §4.8).
func (s *Simulation) mergeChannelCandidates() []event.Event {
	type ref struct {
		dropletID int
		boundary  int
		b         *droplet.Boundary
	}

	var candidates []event.Event
	for _, ch := range s.Chip.Channels() {
		var refs []ref
		for _, id := range s.dropletOrder {
			d := s.Droplets[id]
			if d.State != droplet.Network {
				continue
			}
			for bi, b := range d.Boundaries {
				if b.Channel == ch.ID() {
					refs = append(refs, ref{id, bi, b})
				}
			}
		}

		area := ch.W * ch.H
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				a, c := refs[i], refs[j]
				if a.dropletID == c.dropletID {
					continue // spec §8 invariant 7: never same droplet
				}
				v0 := a.b.SignedVelocity() / area
				v1 := c.b.SignedVelocity() / area
				if v0 == v1 {
					continue
				}
				p0 := a.b.Position * ch.L
				p1 := c.b.Position * ch.L
				dt := (p1 - p0) / (v0 - v1)
				if dt <= 0 {
					continue
				}
				meet := p0 + v0*dt
				if meet <= 0 || meet >= ch.L {
					continue
				}
				candidates = append(candidates, event.Event{
					Kind: event.MergeChannel, Time: dt, Seq: s.nextSeq(),
					Droplet: a.dropletID, OtherDroplet: c.dropletID,
					Boundary: a.boundary, OtherBoundary: c.boundary, Channel: ch.ID(),
				})
			}
		}
	}
	return candidates
}

func (s *Simulation) injectionCandidates() []event.Event {
	var candidates []event.Event
	for _, spec := range s.pending {
		if spec.injected {
			continue
		}
		dt := spec.InjectTime - s.time
		if dt < 0 {
			dt = 0
		}
		candidates = append(candidates, event.Event{
			Kind: event.Injection, Time: dt, Seq: s.nextSeq(), Droplet: spec.DropletID, Channel: spec.Channel,
		})
	}
	return candidates
}

// timeStepCandidate emits a single adaptive-step tick when enabled and
// some droplet is at a bifurcation (spec §4.3, §9 "isAtBifurcation
// heuristic"): one tick is sufficient since firing it has no effect
// beyond the generic Δt advance every event already gets.
func (s *Simulation) timeStepCandidate() []event.Event {
	if s.Chip.MaxAdaptiveTimeStep <= 0 {
		return nil
	}
	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		if d.State == droplet.Network && d.IsAtBifurcation() {
			return []event.Event{{
				Kind: event.TimeStep, Time: s.Chip.MaxAdaptiveTimeStep, Seq: s.nextSeq(), Droplet: d.ID,
			}}
		}
	}
	return nil
}

// advanceBoundaries moves every network droplet's boundaries forward
// by dt at their current flow rate (spec §2 step 7), clamping to
// [0,1] against floating-point overshoot (spec §8 invariant 6).
func (s *Simulation) advanceBoundaries(dt float64) {
	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		if d.State != droplet.Network {
			continue
		}
		for _, b := range d.Boundaries {
			ch := s.channel(b.Channel)
			v := b.SignedVelocity() / ch.Volume()
			b.Position += v * dt
			if b.Position < 0 {
				b.Position = 0
			}
			if b.Position > 1 {
				b.Position = 1
			}
		}
	}
}
