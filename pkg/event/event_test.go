package event

import "testing"

func TestKindPriorityOrdering(t *testing.T) {
	if MergeBifurcation.Priority() >= Injection.Priority() {
		t.Errorf("MergeBifurcation must outrank Injection")
	}
	if Injection.Priority() != BoundaryHead.Priority() ||
		Injection.Priority() != BoundaryTail.Priority() ||
		Injection.Priority() != MergeChannel.Priority() {
		t.Errorf("Injection, BoundaryHead, BoundaryTail, and MergeChannel must share one priority tier")
	}
	if TimeStep.Priority() <= Injection.Priority() {
		t.Errorf("TimeStep must outrank nothing: it fires last among same-time events")
	}
}

func TestPickEarliestEmpty(t *testing.T) {
	if _, ok := PickEarliest(nil); ok {
		t.Errorf("PickEarliest(nil) reported a winner")
	}
}

func TestPickEarliestByTime(t *testing.T) {
	candidates := []Event{
		{Kind: BoundaryHead, Time: 5, Seq: 0},
		{Kind: BoundaryTail, Time: 2, Seq: 1},
		{Kind: Injection, Time: 8, Seq: 2},
	}
	got, ok := PickEarliest(candidates)
	if !ok {
		t.Fatalf("expected a winner")
	}
	if got.Seq != 1 {
		t.Errorf("winner Seq = %d, want 1 (earliest time)", got.Seq)
	}
}

func TestPickEarliestTiesBrokenByPriority(t *testing.T) {
	candidates := []Event{
		{Kind: BoundaryHead, Time: 3, Seq: 0},
		{Kind: MergeBifurcation, Time: 3, Seq: 1},
		{Kind: TimeStep, Time: 3, Seq: 2},
	}
	got, ok := PickEarliest(candidates)
	if !ok {
		t.Fatalf("expected a winner")
	}
	if got.Kind != MergeBifurcation {
		t.Errorf("winner Kind = %v, want MergeBifurcation", got.Kind)
	}
}

func TestPickEarliestTiesBrokenBySeq(t *testing.T) {
	candidates := []Event{
		{Kind: BoundaryHead, Time: 1, Seq: 7},
		{Kind: BoundaryTail, Time: 1, Seq: 3},
	}
	got, ok := PickEarliest(candidates)
	if !ok {
		t.Fatalf("expected a winner")
	}
	if got.Seq != 3 {
		t.Errorf("winner Seq = %d, want 3 (lower seq wins a full tie)", got.Seq)
	}
}

func TestSortOrdersByTimePriorityThenSeq(t *testing.T) {
	candidates := []Event{
		{Kind: TimeStep, Time: 1, Seq: 0},
		{Kind: MergeBifurcation, Time: 1, Seq: 1},
		{Kind: Injection, Time: 0, Seq: 2},
		{Kind: BoundaryHead, Time: 1, Seq: 3},
	}
	Sort(candidates)

	want := []int{2, 1, 3, 0}
	for i, seq := range want {
		if candidates[i].Seq != seq {
			t.Fatalf("Sort order[%d].Seq = %d, want %d (full order: %+v)", i, candidates[i].Seq, seq, candidates)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		MergeBifurcation: "MergeBifurcation",
		Injection:        "Injection",
		BoundaryHead:     "BoundaryHead",
		BoundaryTail:     "BoundaryTail",
		MergeChannel:     "MergeChannel",
		TimeStep:         "TimeStep",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
