package chip

import "droplet-sim/pkg/simerr"

// Channel is a rigid rectangular microfluidic channel. Its static
// resistance Rc depends on geometry and the continuous-phase
// viscosity, which may not be known yet when the channel is added (the
// builder API allows add_channel before set_continuous_phase); it is
// computed by RecomputeStatic once the continuous phase is fixed. Its
// droplet resistance Rd is recomputed every simulation iteration from
// whatever droplets currently occupy it.
type Channel struct {
	id           int
	node0, node1 int
	W, H, L      float64
	Subtype      ChannelSubtype
	model        ResistanceModel
	staticR      float64
	dropletR     float64
}

// NewChannel validates geometry (w>0, h>0, L>0). model must not be nil;
// the static resistance is left at zero until RecomputeStatic is
// called with the continuous-phase viscosity.
func NewChannel(id, node0, node1 int, w, h, l float64, subtype ChannelSubtype, model ResistanceModel) (*Channel, error) {
	if w <= 0 {
		return nil, &simerr.InvalidGeometryError{Channel: id, Field: "w", Value: w}
	}
	if h <= 0 {
		return nil, &simerr.InvalidGeometryError{Channel: id, Field: "h", Value: h}
	}
	if l <= 0 {
		return nil, &simerr.InvalidGeometryError{Channel: id, Field: "L", Value: l}
	}
	return &Channel{
		id:      id,
		node0:   node0,
		node1:   node1,
		W:       w,
		H:       h,
		L:       l,
		Subtype: subtype,
		model:   model,
	}, nil
}

func (c *Channel) ID() int                    { return c.id }
func (c *Channel) Kind() Kind                  { return KindChannel }
func (c *Channel) Nodes() (int, int)           { return c.node0, c.node1 }
func (c *Channel) Volume() float64             { return c.W * c.H * c.L }
func (c *Channel) StaticResistance() float64   { return c.staticR }
func (c *Channel) DropletResistance() float64  { return c.dropletR }
func (c *Channel) TotalResistance() float64    { return c.staticR + c.dropletR }
func (c *Channel) Conductance() float64        { return 1.0 / c.TotalResistance() }

// RecomputeStatic sets Rc from the channel's geometry and the given
// continuous-phase viscosity (spec §4.1).
func (c *Channel) RecomputeStatic(muCont float64) {
	c.staticR = c.model.ChannelResistance(c.W, c.H, c.L, muCont)
}

// SegmentResistance returns the resistance contribution of a droplet
// segment of volume volumeSeg occupying this channel, at the given
// continuous-phase viscosity (spec §4.1).
func (c *Channel) SegmentResistance(muCont, volumeSeg float64) float64 {
	return c.model.SegmentResistance(c.W, c.H, muCont, volumeSeg)
}

// ResetDropletResistance zeroes Rd ahead of a resistance-update pass.
func (c *Channel) ResetDropletResistance() { c.dropletR = 0 }

// AddDropletResistance accumulates one droplet segment's contribution.
func (c *Channel) AddDropletResistance(r float64) { c.dropletR += r }

// ResistanceModel maps channel geometry, a droplet segment volume, and
// continuous-phase viscosity onto resistance contributions. Two
// implementations are provided in package resistance behind this
// interface: the rectangular Hagen-Poiseuille model and an alternative
// linear "test" model.
type ResistanceModel interface {
	ChannelResistance(w, h, l, mu float64) float64
	SegmentResistance(w, h, mu, volumeSeg float64) float64
}
