package droplet

import "testing"

func TestNewDropletStartsInInjection(t *testing.T) {
	d := New(1, 0, 2e-13)
	if d.State != Injection {
		t.Errorf("State = %v, want Injection", d.State)
	}
	if len(d.Boundaries) != 0 {
		t.Errorf("expected no boundaries before injection, got %d", len(d.Boundaries))
	}
}

func TestBoundaryReferenceNode(t *testing.T) {
	b := &Boundary{Towards0: true}
	if !b.ReferenceNode() {
		t.Errorf("ReferenceNode() = false, want true for Towards0 boundary")
	}
	b.Towards0 = false
	if b.ReferenceNode() {
		t.Errorf("ReferenceNode() = true, want false for !Towards0 boundary")
	}
}

func TestBoundarySignedVelocity(t *testing.T) {
	b := &Boundary{Towards0: true, FlowRate: 5}
	if got := b.SignedVelocity(); got != 5 {
		t.Errorf("SignedVelocity() = %g, want 5", got)
	}
	b.Towards0 = false
	if got := b.SignedVelocity(); got != -5 {
		t.Errorf("SignedVelocity() = %g, want -5", got)
	}
}

func TestBoundaryReferenceVolume(t *testing.T) {
	const vchan = 4e-12
	head := &Boundary{Position: 0.75, Towards0: true}
	if got, want := head.ReferenceVolume(vchan), 0.75*vchan; got != want {
		t.Errorf("ReferenceVolume = %g, want %g", got, want)
	}
	tail := &Boundary{Position: 0.25, Towards0: false}
	if got, want := tail.ReferenceVolume(vchan), 0.75*vchan; got != want {
		t.Errorf("ReferenceVolume = %g, want %g", got, want)
	}
}

func TestDropletChannelsUnionsBoundariesAndFullyOccupied(t *testing.T) {
	d := NewMerged(1, 0, 1e-12,
		[]*Boundary{{Channel: 1}, {Channel: 2}},
		map[int]bool{3: true},
		nil,
	)
	channels := d.Channels()
	for _, ch := range []int{1, 2, 3} {
		if !channels[ch] {
			t.Errorf("Channels() missing channel %d", ch)
		}
	}
	if !d.SpansMultipleChannels() {
		t.Errorf("SpansMultipleChannels() = false, want true")
	}
	if !d.IsAtBifurcation() {
		t.Errorf("IsAtBifurcation() = false, want true")
	}
}

func TestSingleChannelDropletDoesNotSpan(t *testing.T) {
	d := New(1, 0, 1e-12)
	d.Boundaries = []*Boundary{
		{Channel: 5, Position: 0.2, Towards0: false},
		{Channel: 5, Position: 0.4, Towards0: true},
	}
	if d.SpansMultipleChannels() {
		t.Errorf("SpansMultipleChannels() = true for a single-channel droplet")
	}
}

func TestRemoveBoundary(t *testing.T) {
	d := New(1, 0, 1e-12)
	d.Boundaries = []*Boundary{{Channel: 1}, {Channel: 2}, {Channel: 3}}
	d.RemoveBoundary(1)
	if len(d.Boundaries) != 2 {
		t.Fatalf("len(Boundaries) = %d, want 2", len(d.Boundaries))
	}
	if d.Boundaries[0].Channel != 1 || d.Boundaries[1].Channel != 3 {
		t.Errorf("RemoveBoundary removed the wrong entry: %+v", d.Boundaries)
	}
}

func TestStateStrings(t *testing.T) {
	cases := map[State]string{Injection: "INJECTION", Network: "NETWORK", Trapped: "TRAPPED", Sink: "SINK"}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestWaitStateStrings(t *testing.T) {
	cases := map[WaitState]string{Normal: "NORMAL", WaitInflow: "WAIT_INFLOW", WaitOutflow: "WAIT_OUTFLOW"}
	for ws, want := range cases {
		if got := ws.String(); got != want {
			t.Errorf("WaitState(%d).String() = %q, want %q", ws, got, want)
		}
	}
}
