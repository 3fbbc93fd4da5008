package chip

// Fluid is append-only once created: mixing (see Mix) always produces
// a new id, never mutates an existing Fluid.
type Fluid struct {
	ID            int
	Viscosity     float64
	Density       float64
	Concentration float64
	ParentIDs     []int
}

// Mix produces the ratio-weighted mixture of two fluids by volume. The
// id is left unset (0); the caller assigns it from the owning
// registry. Parent ids are recorded in (f0, f1) argument order.
func Mix(f0, f1 Fluid, v0, v1 float64) Fluid {
	total := v0 + v1
	w0, w1 := v0/total, v1/total
	return Fluid{
		Viscosity:     w0*f0.Viscosity + w1*f1.Viscosity,
		Density:       w0*f0.Density + w1*f1.Density,
		Concentration: w0*f0.Concentration + w1*f1.Concentration,
		ParentIDs:     []int{f0.ID, f1.ID},
	}
}
