// Package chip models the static microfluidic network: nodes, the
// three edge kinds (channel, flow-rate pump, pressure pump), and
// fluids. It decouples the MNA solver from concrete edge types
// through small capability interfaces rather than a type hierarchy.
package chip

// Node is a junction in the network. Ground nodes are fixed at 0 Pa
// and excluded from the MNA matrix index space.
type Node struct {
	ID       int
	Pressure float64
}
