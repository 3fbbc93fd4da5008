// Package event defines the discrete-event vocabulary of the
// simulation loop as a tagged variant (spec §9 "Event polymorphism"):
// one Event type carrying only the fields its Kind needs, dispatched
// by a single switch rather than a class hierarchy.
package event

import "sort"

// Kind identifies which of the six event variants an Event carries.
type Kind int

const (
	MergeBifurcation Kind = iota
	Injection
	BoundaryHead
	BoundaryTail
	MergeChannel
	TimeStep
)

func (k Kind) String() string {
	switch k {
	case MergeBifurcation:
		return "MergeBifurcation"
	case Injection:
		return "Injection"
	case BoundaryHead:
		return "BoundaryHead"
	case BoundaryTail:
		return "BoundaryTail"
	case MergeChannel:
		return "MergeChannel"
	case TimeStep:
		return "TimeStep"
	default:
		return "Unknown"
	}
}

// Priority returns the tie-breaker used when two events share a fire
// time; lower fires first (spec §4.3 table).
func (k Kind) Priority() int {
	switch k {
	case MergeBifurcation:
		return 0
	case Injection, BoundaryHead, BoundaryTail, MergeChannel:
		return 1
	case TimeStep:
		return 2
	default:
		return 99
	}
}

// Event is a candidate or winning occurrence. Only the fields
// relevant to Kind are meaningful; see the per-kind comments.
type Event struct {
	Kind Kind
	Time float64 // Δt from now, seconds
	Seq  int     // stable tie-break, assigned at enumeration time

	// Droplet is the primary droplet for every kind except TimeStep,
	// where it is the droplet that triggered the adaptive step.
	Droplet int

	// OtherDroplet is set for MergeChannel and MergeBifurcation: the
	// second droplet being merged into Droplet.
	OtherDroplet int

	// Boundary is the index into Droplet's Boundaries slice that this
	// event concerns (BoundaryHead, BoundaryTail, MergeChannel,
	// MergeBifurcation).
	Boundary int

	// OtherBoundary is the index into OtherDroplet's Boundaries slice
	// for MergeChannel (the colliding boundary on the other droplet).
	OtherBoundary int

	// Channel is the channel id the event concerns (BoundaryHead's
	// originating channel, MergeChannel's shared channel, Injection's
	// target channel).
	Channel int

	// Node is the node id the event concerns (BoundaryHead's and
	// MergeBifurcation's destination node).
	Node int
}

// PickEarliest returns the winning event from candidates: the one
// sorting first by (Time ascending, Priority ascending, Seq
// ascending), and reports whether any candidate was given (spec
// §4.3 "Ordering").
func PickEarliest(candidates []Event) (Event, bool) {
	if len(candidates) == 0 {
		return Event{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if less(c, best) {
			best = c
		}
	}
	return best, true
}

// Sort orders candidates in place by the same (Time, Priority, Seq)
// rule PickEarliest uses, for callers that want the full ordering
// (e.g. diagnostics or deterministic replay).
func Sort(candidates []Event) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j])
	})
}

func less(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Kind.Priority() != b.Kind.Priority() {
		return a.Kind.Priority() < b.Kind.Priority()
	}
	return a.Seq < b.Seq
}
