package droplet

// SlipFactor is the constant boundary-velocity multiplier (spec §4.4
// step 4, §9 "Slip factor"). A droplet is assumed to move faster than
// the mean continuous-phase velocity by this ratio.
const SlipFactor = 1.28

// OrientedFlow converts a channel's node0->node1 signed flow rate into
// the boundary-oriented qc convention used for redistribution:
// positive means outflow, i.e. the boundary moves away from the
// droplet's interior (spec §4.4 step 1).
func OrientedFlow(towards0 bool, channelFlow float64) float64 {
	if towards0 {
		return channelFlow
	}
	return -channelFlow
}

// WaitExit reports whether a boundary currently parked in wait state
// exits back to NORMAL this step, given its oriented flow qc and,
// for WAIT_OUTFLOW only, whether some adjacent NORMAL channel at the
// opposite node now carries outflow away from that node (spec §4.4
// step 2). A NORMAL boundary is always "active".
func WaitExit(wait WaitState, qc float64, adjacentOutflowAvailable bool) bool {
	switch wait {
	case WaitInflow:
		return qc > 0
	case WaitOutflow:
		return qc < 0 || adjacentOutflowAvailable
	default:
		return true
	}
}

// Redistribute sets each active boundary's q_b from its oriented
// channel flow qc (same index as active), conserving the droplet's
// total volume across boundaries that individually need not balance
// (spec §4.4 steps 3-5). It returns false when the step is
// degenerate (only inflow or only outflow present), in which case
// every q_b is zeroed and the caller should emit a diagnostic and
// leave the droplet in place this iteration.
func Redistribute(active []*Boundary, qc []float64) bool {
	var qIn, qOut float64
	for _, q := range qc {
		switch {
		case q < 0:
			qIn += -q
		case q > 0:
			qOut += q
		}
	}
	if qIn == 0 || qOut == 0 {
		for _, b := range active {
			b.FlowRate = 0
		}
		return false
	}

	qAvg := (qIn + qOut) / 2
	for i, b := range active {
		q := qc[i]
		if q < 0 {
			b.FlowRate = SlipFactor * qAvg * q / qIn
		} else {
			b.FlowRate = SlipFactor * qAvg * q / qOut
		}
	}
	return true
}
