package simulation

import (
	"github.com/sirupsen/logrus"

	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/droplet"
	"droplet-sim/pkg/event"
	"droplet-sim/pkg/mna"
)

// fire performs the single winning event (spec §2 step 8, §4.6-§4.10).
// It is the sole writer of droplet state during this step (spec §5).
func (s *Simulation) fire(ev event.Event, sol *mna.Solution) {
	switch ev.Kind {
	case event.Injection:
		s.fireInjection(ev)
	case event.BoundaryHead:
		s.fireBoundaryHead(ev, sol)
	case event.BoundaryTail:
		s.fireBoundaryTail(ev)
	case event.MergeChannel:
		s.fireMergeChannel(ev)
	case event.MergeBifurcation:
		s.fireMergeBifurcation(ev)
	case event.TimeStep:
		// No state change beyond the generic Δt advance every event
		// already receives; this tick exists only to force a
		// re-solve at bifurcations (spec §9).
	}
}

func (s *Simulation) fireInjection(ev event.Event) {
	spec := s.specFor(ev.Droplet)
	if spec == nil {
		return
	}
	spec.injected = true

	d := s.Droplets[ev.Droplet]
	d.Boundaries = []*droplet.Boundary{
		{Channel: spec.Channel, Position: spec.tail, Towards0: false},
		{Channel: spec.Channel, Position: spec.head, Towards0: true},
	}
	d.State = droplet.Network
}

func (s *Simulation) fireBoundaryHead(ev event.Event, sol *mna.Solution) {
	d := s.Droplets[ev.Droplet]
	b := d.Boundaries[ev.Boundary]
	n := ev.Node

	if s.Chip.IsSink(n) {
		d.State = droplet.Sink
		return
	}

	next, ok := bestOutflowChannel(s.Chip, n, b.Channel, sol)
	if !ok {
		b.Wait = droplet.WaitOutflow
		b.FlowRate = 0
		return
	}

	if d.SpansMultipleChannels() {
		d.FullyOccupied[b.Channel] = true
	}

	n0, _ := next.Nodes()
	towards0 := n0 == n
	b.Channel = next.ID()
	b.Towards0 = towards0
	if towards0 {
		b.Position = 0
	} else {
		b.Position = 1
	}
	b.Wait = droplet.Normal
}

func (s *Simulation) fireBoundaryTail(ev event.Event) {
	d := s.Droplets[ev.Droplet]
	b := d.Boundaries[ev.Boundary]
	ch := s.channel(b.Channel)
	n := referenceNode(ch, b.Towards0)

	type occupant struct {
		boundaryChannel int // channel of the other boundary, or -1 if fully-occupied
		fullyOccupied   int // fully-occupied channel id, or -1 if a boundary
	}
	var occupants []occupant
	for i, ob := range d.Boundaries {
		if i == ev.Boundary {
			continue
		}
		och := s.channel(ob.Channel)
		if referenceNode(och, ob.Towards0) == n {
			occupants = append(occupants, occupant{boundaryChannel: ob.Channel, fullyOccupied: -1})
		}
	}
	for chID := range d.FullyOccupied {
		och := s.channel(chID)
		n0, n1 := och.Nodes()
		if n0 == n || n1 == n {
			occupants = append(occupants, occupant{boundaryChannel: -1, fullyOccupied: chID})
		}
	}

	switch len(occupants) {
	case 0:
		// No further topology for this droplet at n: defensively
		// drop the boundary and, if nothing else remains, retire it.
		logrus.Warnf("droplet %d: boundary tail reached node %d with no adjacent occupancy", d.ID, n)
		d.RemoveBoundary(ev.Boundary)
		if len(d.Boundaries) == 0 && len(d.FullyOccupied) == 0 {
			d.State = droplet.Trapped
		}
	case 1:
		o := occupants[0]
		var newChannelID int
		if o.fullyOccupied >= 0 {
			newChannelID = o.fullyOccupied
			delete(d.FullyOccupied, o.fullyOccupied)
		} else {
			newChannelID = o.boundaryChannel
		}
		newCh := s.channel(newChannelID)
		n0, n1 := newCh.Nodes()
		pos := 1.0
		if n0 == n {
			pos = 0.0
		}
		b.Channel = newChannelID
		b.Position = pos
		b.Towards0 = n1 == n
		b.Wait = droplet.Normal
		b.FlowRate = 0
	default:
		d.RemoveBoundary(ev.Boundary)
	}
}

func (s *Simulation) fireMergeChannel(ev event.Event) {
	d0 := s.Droplets[ev.Droplet]
	d1 := s.Droplets[ev.OtherDroplet]

	var boundaries []*droplet.Boundary
	for i, b := range d0.Boundaries {
		if i != ev.Boundary {
			boundaries = append(boundaries, b)
		}
	}
	for i, b := range d1.Boundaries {
		if i != ev.OtherBoundary {
			boundaries = append(boundaries, b)
		}
	}

	occ := mergedOccupancy(d0, d1)
	merged := s.newMergedDroplet(d0, d1, boundaries, occ)
	d0.State = droplet.Sink
	d1.State = droplet.Sink
	s.registerDroplet(merged)
}

func (s *Simulation) fireMergeBifurcation(ev event.Event) {
	d0 := s.Droplets[ev.Droplet]
	d1 := s.Droplets[ev.OtherDroplet]

	hadMultiple := d0.SpansMultipleChannels()
	advancingChannel := -1
	var boundaries []*droplet.Boundary
	for i, b := range d0.Boundaries {
		if i == ev.Boundary {
			advancingChannel = b.Channel
			continue
		}
		boundaries = append(boundaries, b)
	}
	boundaries = append(boundaries, d1.Boundaries...)

	occ := mergedOccupancy(d0, d1)
	if hadMultiple && advancingChannel >= 0 {
		occ[advancingChannel] = true
	}

	merged := s.newMergedDroplet(d0, d1, boundaries, occ)
	d0.State = droplet.Sink
	d1.State = droplet.Sink
	s.registerDroplet(merged)
}

func mergedOccupancy(d0, d1 *droplet.Droplet) map[int]bool {
	occ := make(map[int]bool, len(d0.FullyOccupied)+len(d1.FullyOccupied))
	for ch := range d0.FullyOccupied {
		occ[ch] = true
	}
	for ch := range d1.FullyOccupied {
		occ[ch] = true
	}
	return occ
}

// newMergedDroplet mixes fluids (ratio-weighted by volume, spec §4.1
// and §4.8) and constructs the merged droplet, registering the new
// fluid with the chip.
func (s *Simulation) newMergedDroplet(d0, d1 *droplet.Droplet, boundaries []*droplet.Boundary, occ map[int]bool) *droplet.Droplet {
	f0 := s.Chip.Fluids[d0.FluidID]
	f1 := s.Chip.Fluids[d1.FluidID]
	mixed := chip.Mix(*f0, *f1, d0.Volume, d1.Volume)
	fluid := s.Chip.AddMixedFluid(mixed)

	id := s.nextDropletID
	s.nextDropletID++
	return droplet.NewMerged(id, fluid.ID, d0.Volume+d1.Volume, boundaries, occ, []int{d0.ID, d1.ID})
}

func (s *Simulation) registerDroplet(d *droplet.Droplet) {
	s.Droplets[d.ID] = d
	s.dropletOrder = append(s.dropletOrder, d.ID)
}
