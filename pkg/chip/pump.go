package chip

// FlowRatePump drives a fixed volumetric flow Q from node0 to node1
// (Q>0) regardless of network pressure.
type FlowRatePump struct {
	id           int
	node0, node1 int
	q            float64
}

func NewFlowRatePump(id, node0, node1 int, q float64) *FlowRatePump {
	return &FlowRatePump{id: id, node0: node0, node1: node1, q: q}
}

func (p *FlowRatePump) ID() int           { return p.id }
func (p *FlowRatePump) Kind() Kind        { return KindFlowRatePump }
func (p *FlowRatePump) Nodes() (int, int) { return p.node0, p.node1 }
func (p *FlowRatePump) Q() float64        { return p.q }

// PressurePump imposes a fixed pressure rise DeltaP from node0 to
// node1; its flow is a derived unknown solved as an MNA branch
// variable.
type PressurePump struct {
	id           int
	node0, node1 int
	deltaP       float64
	branchIdx    int
	solvedFlow   float64
}

func NewPressurePump(id, node0, node1 int, deltaP float64) *PressurePump {
	return &PressurePump{id: id, node0: node0, node1: node1, deltaP: deltaP}
}

func (p *PressurePump) ID() int                 { return p.id }
func (p *PressurePump) Kind() Kind              { return KindPressurePump }
func (p *PressurePump) Nodes() (int, int)       { return p.node0, p.node1 }
func (p *PressurePump) DeltaP() float64         { return p.deltaP }
func (p *PressurePump) BranchIndex() int        { return p.branchIdx }
func (p *PressurePump) SetBranchIndex(idx int)  { p.branchIdx = idx }
func (p *PressurePump) SetSolvedFlow(q float64) { p.solvedFlow = q }
func (p *PressurePump) SolvedFlow() float64     { return p.solvedFlow }
