package simulation

import "droplet-sim/pkg/droplet"

// applyDropletResistances resets every channel's droplet resistance
// and re-accumulates the contributions of every network droplet (spec
// §4.1).
func (s *Simulation) applyDropletResistances() {
	for _, ch := range s.Chip.Channels() {
		ch.ResetDropletResistance()
	}

	fluid, _ := s.Chip.ContinuousPhase()
	muCont := fluid.Viscosity

	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		if d.State != droplet.Network {
			continue
		}

		if !d.SpansMultipleChannels() {
			b0, b1 := d.Boundaries[0], d.Boundaries[1]
			ch := s.channel(b0.Channel)
			vchan := ch.Volume()
			vIn := b0.ReferenceVolume(vchan) + b1.ReferenceVolume(vchan) - vchan
			ch.AddDropletResistance(ch.SegmentResistance(muCont, vIn))
			continue
		}

		for _, b := range d.Boundaries {
			ch := s.channel(b.Channel)
			vseg := b.ReferenceVolume(ch.Volume())
			ch.AddDropletResistance(ch.SegmentResistance(muCont, vseg))
		}
		for chID := range d.FullyOccupied {
			ch := s.channel(chID)
			ch.AddDropletResistance(ch.SegmentResistance(muCont, ch.Volume()))
		}
	}
}
