package ui

import (
	"testing"

	"github.com/pthm-cable/critters/game"
)

func TestPickAgent(t *testing.T) {
	agents := []game.AgentView{
		{ID: 1, X: 100, Y: 100, Size: 20},                 // top-left anchored: centre (110, 110)
		{ID: 2, X: 125, Y: 110, Size: 20, Centered: true}, // centre (125, 110)
		{ID: 3, X: 300, Y: 300, Size: 20, Centered: true},
	}

	tests := []struct {
		name   string
		x, y   float64
		want   int
		wantOK bool
	}{
		{"inside anchored box", 105, 105, 1, true},
		{"inside centred box", 300, 305, 3, true},
		{"within tolerance", 314, 300, 3, true},
		{"beyond tolerance", 311 + hitTolerance, 300, 0, false},
		{"overlap picks closest centre", 120, 110, 2, true},
		{"empty space", 200, 200, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickAgent(agents, tt.x, tt.y)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PickAgent(%v, %v): got %d/%v, want %d/%v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInspectorFollowsAgentByID(t *testing.T) {
	ins := NewInspector(NewRenderer(), 0.5)
	frame := game.Frame{Agents: []game.AgentView{
		{ID: 7, X: 50, Y: 50, Size: 20, Centered: true},
	}}

	ins.HandleClick(frame.Agents, 50, 50)
	a, ok := ins.Selected(frame)
	if !ok || a.ID != 7 {
		t.Fatalf("selected: got %d/%v, want 7/true", a.ID, ok)
	}

	// The agent moved; selection follows the ID, not the position.
	frame.Agents[0].X = 400
	if a, ok := ins.Selected(frame); !ok || a.X != 400 {
		t.Errorf("after move: got x=%v/%v, want 400/true", a.X, ok)
	}

	// The agent died; the selection is dropped for good.
	if _, ok := ins.Selected(game.Frame{}); ok {
		t.Error("selection survived the agent's removal")
	}
	if _, ok := ins.Selected(frame); ok {
		t.Error("selection came back after being dropped")
	}
}

func TestInspectorMissClears(t *testing.T) {
	ins := NewInspector(NewRenderer(), 0.5)
	agents := []game.AgentView{{ID: 1, X: 50, Y: 50, Size: 20, Centered: true}}

	ins.HandleClick(agents, 50, 50)
	ins.HandleClick(agents, 500, 500)
	if _, ok := ins.Selected(game.Frame{Agents: agents}); ok {
		t.Error("click on empty space should clear the selection")
	}
}

func TestInspectorLines(t *testing.T) {
	lines := InspectorLines(game.AgentView{ID: 4, Species: 2, X: 10.4, Y: 20.6, Fitness: 101.25})
	want := map[string]string{
		"Agent":    "4",
		"Species":  "2",
		"Position": "(10, 21)",
		"Heading":  "0 deg",
		"Fitness":  "101.25",
	}
	for _, l := range lines {
		if want[l[0]] != l[1] {
			t.Errorf("%s: got %q, want %q", l[0], l[1], want[l[0]])
		}
	}
}

func TestSpanIsSymmetric(t *testing.T) {
	lo, hi := span([]float64{-3, 1, 2})
	if lo != -3 || hi != 3 {
		t.Errorf("span: got [%v, %v], want [-3, 3]", lo, hi)
	}
	lo, hi = span([]float64{0, 0})
	if lo != -1 || hi != 1 {
		t.Errorf("zero span: got [%v, %v], want [-1, 1]", lo, hi)
	}
}

func TestAgentCenter(t *testing.T) {
	tests := []struct {
		name   string
		a      game.AgentView
		cx, cy float64
	}{
		{"top-left anchored", game.AgentView{X: 10, Y: 20, Size: 20}, 20, 30},
		{"centred", game.AgentView{X: 10, Y: 20, Size: 20, Centered: true}, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := agentCenter(tt.a)
			if cx != tt.cx || cy != tt.cy {
				t.Errorf("centre: got (%v, %v), want (%v, %v)", cx, cy, tt.cx, tt.cy)
			}
		})
	}
}
