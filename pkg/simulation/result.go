package simulation

import (
	"encoding/json"
	"fmt"
	"sort"

	"droplet-sim/pkg/chip"
	"droplet-sim/pkg/mna"
)

// BoundaryView is the reported shape of one droplet boundary (spec §6
// DropletPosition).
type BoundaryView struct {
	Channel        int     `json:"channel"`
	RelPos         float64 `json:"rel_pos"`
	VolumeTowards0 bool    `json:"volume_towards0"`
	FlowRate       float64 `json:"flow_rate"`
	Wait           string  `json:"wait"`
}

// DropletPosition is one droplet's reported shape within a State (spec
// §6).
type DropletPosition struct {
	State         string         `json:"state"`
	Boundaries    []BoundaryView `json:"boundaries"`
	FullyOccupied []int          `json:"fully_occupied"`
}

// State is one recorded snapshot of the network (spec §2 step 4, §6).
type State struct {
	ID               int                     `json:"id"`
	Time             float64                 `json:"time"`
	Pressures        map[int]float64         `json:"pressures"`
	FlowRates        map[int]float64         `json:"flow_rates"`
	DropletPositions map[int]DropletPosition `json:"droplet_positions"`
}

// record appends a State snapshot built from sol and the current
// droplet registry (spec §2 step 4).
func (s *Simulation) record(sol *mna.Solution) {
	st := &State{
		ID:               len(s.states),
		Time:             s.time,
		Pressures:        make(map[int]float64, len(sol.NodePressures)),
		FlowRates:        make(map[int]float64, len(s.Chip.Edges)),
		DropletPositions: make(map[int]DropletPosition, len(s.dropletOrder)),
	}
	for n, p := range sol.NodePressures {
		st.Pressures[n] = p
	}
	for _, ch := range s.Chip.Channels() {
		st.FlowRates[ch.ID()] = sol.ChannelFlow(ch)
	}
	for id, q := range sol.PumpFlows {
		st.FlowRates[id] = q
	}
	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		dp := DropletPosition{State: d.State.String()}
		for _, b := range d.Boundaries {
			dp.Boundaries = append(dp.Boundaries, BoundaryView{
				Channel: b.Channel, RelPos: b.Position, VolumeTowards0: b.Towards0,
				FlowRate: b.FlowRate, Wait: b.Wait.String(),
			})
		}
		for ch := range d.FullyOccupied {
			dp.FullyOccupied = append(dp.FullyOccupied, ch)
		}
		sort.Ints(dp.FullyOccupied)
		st.DropletPositions[id] = dp
	}
	s.states = append(s.states, st)
}

// ChipSummary carries the chip's identity and component counts (spec
// §6, original_source/architecture/Chip.{h,cpp}).
type ChipSummary struct {
	Name     string `json:"name"`
	Channels int    `json:"channels"`
	Pumps    int    `json:"pumps"`
}

// DropletSummary is the registry-level view of a droplet (spec §6
// "droplets (with parents)").
type DropletSummary struct {
	ID        int     `json:"id"`
	FluidID   int     `json:"fluid_id"`
	Volume    float64 `json:"volume"`
	ParentIDs []int   `json:"parent_ids"`
}

// InjectionSummary is the registry-level view of a scheduled injection
// (spec §6 "injections").
type InjectionSummary struct {
	DropletID  int     `json:"droplet_id"`
	FluidID    int     `json:"fluid_id"`
	Volume     float64 `json:"volume"`
	InjectTime float64 `json:"inject_time"`
	Channel    int     `json:"channel"`
	RelPos     float64 `json:"rel_pos"`
}

// Result is SimulationResult (spec §6): the full recorded history of a
// run plus its static registries and run-level diagnostics.
type Result struct {
	Chip             ChipSummary        `json:"chip"`
	Fluids           []DropletFluid     `json:"fluids"`
	Droplets         []DropletSummary   `json:"droplets"`
	Injections       []InjectionSummary `json:"injections"`
	States           []*State           `json:"states"`
	DiagnosticsCount int                `json:"diagnostics_count"`
	IterationLimited bool               `json:"iteration_limited"`
}

// DropletFluid is the reported shape of a chip.Fluid.
type DropletFluid struct {
	ID            int     `json:"id"`
	Viscosity     float64 `json:"viscosity"`
	Density       float64 `json:"density"`
	Concentration float64 `json:"concentration"`
	ParentIDs     []int   `json:"parent_ids"`
}

func (s *Simulation) buildResult(iterationLimited bool) *Result {
	r := &Result{
		Chip: ChipSummary{
			Name:     s.Chip.Name,
			Channels: len(s.Chip.Channels()),
			Pumps:    s.countPumps(),
		},
		States:           s.states,
		DiagnosticsCount: s.diagnostics,
		IterationLimited: iterationLimited,
	}

	for _, id := range sortedFluidIDs(s.Chip) {
		f := s.Chip.Fluids[id]
		r.Fluids = append(r.Fluids, DropletFluid{
			ID: f.ID, Viscosity: f.Viscosity, Density: f.Density,
			Concentration: f.Concentration, ParentIDs: f.ParentIDs,
		})
	}

	for _, id := range s.dropletOrder {
		d := s.Droplets[id]
		r.Droplets = append(r.Droplets, DropletSummary{
			ID: d.ID, FluidID: d.FluidID, Volume: d.Volume, ParentIDs: d.ParentIDs,
		})
	}

	for _, spec := range s.pending {
		r.Injections = append(r.Injections, InjectionSummary{
			DropletID: spec.DropletID, FluidID: spec.FluidID, Volume: spec.Volume,
			InjectTime: spec.InjectTime, Channel: spec.Channel, RelPos: spec.RelPos,
		})
	}

	return r
}

func (s *Simulation) countPumps() int {
	n := 0
	for _, id := range s.Chip.EdgeOrder() {
		switch s.Chip.Edges[id].(type) {
		case *chip.FlowRatePump, *chip.PressurePump:
			n++
		}
	}
	return n
}

func sortedFluidIDs(c *chip.Chip) []int {
	ids := make([]int, 0, len(c.Fluids))
	for id := range c.Fluids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PathStep is one entry of a droplet's collapsed occupancy path (spec
// §6 "DropletPath derivation").
type PathStep struct {
	StateID  int   `json:"state_id"`
	Channels []int `json:"channels"`
}

// DropletPath returns get_droplet_path(id): the ordered list of
// (state id, occupied channel set), collapsing consecutive identical
// sets (spec §6).
func (r *Result) DropletPath(id int) []PathStep {
	var path []PathStep
	lastKey := ""
	for _, st := range r.States {
		dp, ok := st.DropletPositions[id]
		if !ok {
			continue
		}
		seen := make(map[int]bool)
		var channels []int
		for _, b := range dp.Boundaries {
			if !seen[b.Channel] {
				seen[b.Channel] = true
				channels = append(channels, b.Channel)
			}
		}
		for _, ch := range dp.FullyOccupied {
			if !seen[ch] {
				seen[ch] = true
				channels = append(channels, ch)
			}
		}
		sort.Ints(channels)

		key := fmt.Sprint(channels)
		if key == lastKey {
			continue
		}
		lastKey = key
		path = append(path, PathStep{StateID: st.ID, Channels: channels})
	}
	return path
}

// legacyDropletPosition mirrors to_json's uncommented variant (spec §9
// "Two to_json implementations"): it omits wait state and volume
// orientation, flattening boundaries to bare (channel, position,
// flow_rate) tuples.
type legacyDropletPosition struct {
	Boundaries    [][3]float64 `json:"boundaries"`
	FullyOccupied []int        `json:"fully_occupied"`
}

type legacyState struct {
	Time             float64                         `json:"time"`
	Pressures        map[int]float64                 `json:"pressures"`
	FlowRates        map[int]float64                 `json:"flow_rates"`
	DropletPositions map[int]legacyDropletPosition    `json:"droplet_positions"`
}

// ToJSONLegacy serializes the result in the narrower, field-dropping
// shape (spec §9's "uncommented" to_json): no chip/fluid/droplet/
// injection registries, no state id, boundaries reduced to
// (channel, rel_pos, flow_rate) triples.
func (r *Result) ToJSONLegacy() ([]byte, error) {
	states := make([]legacyState, len(r.States))
	for i, st := range r.States {
		ls := legacyState{
			Time:             st.Time,
			Pressures:        st.Pressures,
			FlowRates:        st.FlowRates,
			DropletPositions: make(map[int]legacyDropletPosition, len(st.DropletPositions)),
		}
		for id, dp := range st.DropletPositions {
			bounds := make([][3]float64, len(dp.Boundaries))
			for j, b := range dp.Boundaries {
				bounds[j] = [3]float64{float64(b.Channel), b.RelPos, b.FlowRate}
			}
			ls.DropletPositions[id] = legacyDropletPosition{
				Boundaries: bounds, FullyOccupied: dp.FullyOccupied,
			}
		}
		states[i] = ls
	}
	return json.Marshal(states)
}

// ToJSONFull serializes the complete documented schema (spec §6): chip
// summary, fluids, droplets, injections, and every State in full.
func (r *Result) ToJSONFull() ([]byte, error) {
	return json.Marshal(r)
}
