package mna

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"droplet-sim/pkg/simerr"
)

// DenseSolver solves the MNA system with a dense QR decomposition
// (gonum.org/v1/gonum/mat), the "robust dense linear method" spec §4.2
// calls adequate for these problem sizes. It is selected via
// --solver=dense and used by the MNA regression tests, where asserting
// against a tiny, exactly-reproducible dense system is simplest.
type DenseSolver struct{}

type denseStamp struct {
	a    *mat.Dense
	rhs  []float64
	size int
}

func (s *denseStamp) AddElement(i, j int, value float64) {
	s.a.Set(i-1, j-1, s.a.At(i-1, j-1)+value)
}

func (s *denseStamp) AddRHS(i int, value float64) {
	s.rhs[i-1] += value
}

func (DenseSolver) Solve(sys *System) (*Solution, error) {
	if sys.Size == 0 {
		return &Solution{NodePressures: map[int]float64{}, PumpFlows: map[int]float64{}}, nil
	}

	stamp := &denseStamp{
		a:    mat.NewDense(sys.Size, sys.Size, nil),
		rhs:  make([]float64, sys.Size),
		size: sys.Size,
	}
	StampSystem(sys, stamp)

	b := mat.NewVecDense(sys.Size, stamp.rhs)

	var qr mat.QR
	qr.Factorize(stamp.a)

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", simerr.ErrNetworkSingular, err)
	}

	// sys indices are 1-based with index 0 unused, mirroring the
	// sparse backend's solution vector layout.
	raw := make([]float64, sys.Size+1)
	for i := 0; i < sys.Size; i++ {
		raw[i+1] = x.AtVec(i)
	}
	return extractSolution(sys, raw), nil
}
