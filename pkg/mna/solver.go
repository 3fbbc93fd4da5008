package mna

// Solver solves a built System, returning node pressures and pump
// flows or simerr.ErrNetworkSingular if the matrix could not be
// factored.
type Solver interface {
	Solve(sys *System) (*Solution, error)
}

// Solve solves the already built system sys with solver.
func Solve(solver Solver, sys *System) (*Solution, error) {
	return solver.Solve(sys)
}
