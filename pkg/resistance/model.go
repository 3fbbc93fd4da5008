// Package resistance implements the two interchangeable resistance
// models declared by chip.ResistanceModel: a rectangular-channel
// Hagen-Poiseuille model, and a linear volume-based model used for
// regression tests, matching the "two to_json implementations" style
// of exposing an interchangeable implementation behind one interface
// (see DESIGN.md).
package resistance

import "math"

// HagenPoiseuille computes the static and droplet-segment resistance
// of a rigid rectangular channel using the closed-form
// rectangular-cross-section Hagen-Poiseuille approximation (spec §4.1).
type HagenPoiseuille struct{}

func (HagenPoiseuille) shapeFactor(w, h float64) float64 {
	return 12.0 / (1.0 - 192.0*h*math.Tanh(math.Pi*w/(2.0*h))/(math.Pow(math.Pi, 5)*w))
}

// ChannelResistance returns R_c = L * a * mu / (w * h^3).
func (m HagenPoiseuille) ChannelResistance(w, h, l, mu float64) float64 {
	a := m.shapeFactor(w, h)
	return l * a * mu / (w * h * h * h)
}

// SegmentResistance returns R_d_seg = 3 * (Vseg/(w*h)) * a * mu / (w * h^3).
func (m HagenPoiseuille) SegmentResistance(w, h, mu, volumeSeg float64) float64 {
	a := m.shapeFactor(w, h)
	return 3.0 * (volumeSeg / (w * h)) * a * mu / (w * h * h * h)
}

// TestVolumeModel is the alternative test resistance model from
// spec.md §4.1: R_c = V_chan, R_d_seg = 3*w*h*V_seg. It ignores
// viscosity entirely, which is useful for deterministic regression
// fixtures that don't want to depend on a fluid's mu.
type TestVolumeModel struct{}

func (TestVolumeModel) ChannelResistance(w, h, l, mu float64) float64 {
	return w * h * l
}

func (TestVolumeModel) SegmentResistance(w, h, mu, volumeSeg float64) float64 {
	return 3.0 * w * h * volumeSeg
}
