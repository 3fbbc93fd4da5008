package simulation

import (
	"testing"

	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/mna"
	"droplet-sim/pkg/resistance"
	"droplet-sim/pkg/simerr"
)

func chainChip(t *testing.T) *chip.Chip {
	t.Helper()
	c := chip.New("chain")
	if _, err := c.AddChannel(0, 1, 100e-6, 30e-6, 1e-3, resistance.HagenPoiseuille{}); err != nil {
		t.Fatalf("AddChannel: %v", err)
	}
	c.AddPressurePump(-1, 0, 500)
	return c
}

func TestRunFailsWithoutContinuousPhase(t *testing.T) {
	c := chainChip(t)
	c.AddGround(-1)
	c.AddSink(1)
	sim := New(c, mna.DenseSolver{})
	_, err := sim.Run()
	if err != simerr.ErrMissingContinuousPhase {
		t.Errorf("Run() error = %v, want ErrMissingContinuousPhase", err)
	}
}

func TestRunFailsWithoutGround(t *testing.T) {
	c := chainChip(t)
	fluid := c.AddFluid(1e-3, 1e3, 0)
	c.SetContinuousPhase(fluid.ID)
	c.AddSink(1)
	if err := c.FinalizeResistances(); err != nil {
		t.Fatalf("FinalizeResistances: %v", err)
	}
	sim := New(c, mna.DenseSolver{})
	_, err := sim.Run()
	if err != simerr.ErrMissingGround {
		t.Errorf("Run() error = %v, want ErrMissingGround", err)
	}
}

func TestAddDropletRejectsDropletTooLargeForChannel(t *testing.T) {
	c := chainChip(t)
	fluid := c.AddFluid(1e-3, 1e3, 0)
	c.SetContinuousPhase(fluid.ID)
	c.AddGround(-1)
	c.AddSink(1)
	if err := c.FinalizeResistances(); err != nil {
		t.Fatalf("FinalizeResistances: %v", err)
	}
	sim := New(c, mna.DenseSolver{})
	ch := c.Channels()[0]

	vchan := ch.Volume()
	if _, err := sim.AddDroplet(fluid.ID, 1.1*vchan, 0, ch.ID(), 0.5); err == nil {
		t.Errorf("expected an error for a droplet longer than the channel")
	}
	if _, err := sim.AddDroplet(fluid.ID, 0.1*vchan, 0, ch.ID(), 0.02); err == nil {
		t.Errorf("expected an error for a droplet whose tail falls outside (0,1)")
	}
	if _, err := sim.AddDroplet(fluid.ID, 0.1*vchan, 0, ch.ID(), 0.98); err == nil {
		t.Errorf("expected an error for a droplet whose head falls outside (0,1)")
	}
	if _, err := sim.AddDroplet(fluid.ID, 0.1*vchan, 0, 999, 0.5); err == nil {
		t.Errorf("expected an error for a nonexistent channel")
	}
}

func TestAddDropletAcceptsFittingDroplet(t *testing.T) {
	c := chainChip(t)
	fluid := c.AddFluid(1e-3, 1e3, 0)
	c.SetContinuousPhase(fluid.ID)
	c.AddGround(-1)
	c.AddSink(1)
	if err := c.FinalizeResistances(); err != nil {
		t.Fatalf("FinalizeResistances: %v", err)
	}
	sim := New(c, mna.DenseSolver{})
	ch := c.Channels()[0]
	vchan := ch.Volume()
	id, err := sim.AddDroplet(fluid.ID, 0.2*vchan, 0, ch.ID(), 0.5)
	if err != nil {
		t.Fatalf("AddDroplet: %v", err)
	}
	if id != 0 {
		t.Errorf("first droplet id = %d, want 0", id)
	}
}
