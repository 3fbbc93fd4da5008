package simulation

import (
	"github.com/sirupsen/logrus"

	"droplet-sim/pkg/droplet"
	"droplet-sim/pkg/mna"
)

// redistributeAll runs the per-droplet boundary flow redistribution
// (spec §4.4) for every droplet currently in the network.
func (s *Simulation) redistributeAll(sol *mna.Solution) {
	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		if d.State != droplet.Network {
			continue
		}
		s.redistributeDroplet(d, sol)
	}
}

func (s *Simulation) redistributeDroplet(d *droplet.Droplet, sol *mna.Solution) {
	var active []*droplet.Boundary
	var qcs []float64

	for _, b := range d.Boundaries {
		ch := s.channel(b.Channel)
		qc := droplet.OrientedFlow(b.Towards0, sol.ChannelFlow(ch))

		if b.Wait != droplet.Normal {
			node := farNode(ch, b.Towards0)
			adjacentAvailable := hasOutflowAway(s.Chip, node, ch.ID(), sol)
			if !droplet.WaitExit(b.Wait, qc, adjacentAvailable) {
				continue
			}
			b.Wait = droplet.Normal
		}

		active = append(active, b)
		qcs = append(qcs, qc)
	}

	if ok := droplet.Redistribute(active, qcs); !ok && len(active) > 0 {
		s.diagnostics++
		logrus.Warnf("droplet %d: degenerate redistribution (only inflow or only outflow present); holding position this step", d.ID)
	}
}
