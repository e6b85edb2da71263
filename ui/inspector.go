package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/game"
)

// hitTolerance widens an agent's box for click selection.
const hitTolerance = 5

// PickAgent returns the ID of the agent under (x, y), preferring the one
// whose centre is closest.
func PickAgent(agents []game.AgentView, x, y float64) (int, bool) {
	best, bestDist := 0, math.Inf(1)
	found := false
	for _, a := range agents {
		cx, cy := agentCenter(a)
		half := agentBody(a).Radius() + hitTolerance
		dx, dy := x-cx, y-cy
		if math.Abs(dx) > half || math.Abs(dy) > half {
			continue
		}
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist, found = a.ID, d, true
		}
	}
	return best, found
}

func agentBody(a game.AgentView) components.Body {
	return components.Body{Size: a.Size, Centered: a.Centered}
}

func agentCenter(a game.AgentView) (float64, float64) {
	c := agentBody(a).Center(components.Position{X: a.X, Y: a.Y})
	return c.X, c.Y
}

// InspectorLines returns the label/value pairs shown for an agent.
func InspectorLines(a game.AgentView) [][2]string {
	return [][2]string{
		{"Agent", fmt.Sprintf("%d", a.ID)},
		{"Species", fmt.Sprintf("%d", a.Species)},
		{"Position", fmt.Sprintf("(%.0f, %.0f)", a.X, a.Y)},
		{"Heading", fmt.Sprintf("%.0f deg", a.Heading*180/math.Pi)},
		{"Fitness", fmt.Sprintf("%.2f", a.Fitness)},
	}
}

// Inspector tracks the selected agent across frames by genome ID.
type Inspector struct {
	renderer  *Renderer
	selected  int
	hasTarget bool
	threshold float64
}

// NewInspector creates an inspector; threshold is the gate activation level
// drawn as the split between active and inactive outputs.
func NewInspector(r *Renderer, threshold float64) *Inspector {
	return &Inspector{renderer: r, threshold: threshold}
}

// HandleClick selects the agent under the cursor, or clears the selection
// when the click misses every agent.
func (ins *Inspector) HandleClick(agents []game.AgentView, x, y float64) {
	ins.selected, ins.hasTarget = PickAgent(agents, x, y)
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasTarget = false
}

// Selected returns the selected agent's view in f. The selection is dropped
// once the agent is no longer alive.
func (ins *Inspector) Selected(f game.Frame) (game.AgentView, bool) {
	if !ins.hasTarget {
		return game.AgentView{}, false
	}
	for _, a := range f.Agents {
		if a.ID == ins.selected {
			return a, true
		}
	}
	ins.hasTarget = false
	return game.AgentView{}, false
}

// DrawHighlight circles the selected agent in the world view.
func (ins *Inspector) DrawHighlight(a game.AgentView) {
	cx, cy := agentCenter(a)
	rl.DrawCircleLines(int32(cx), int32(cy), float32(a.Size*0.9), rl.Yellow)
}

// Draw renders the inspector section at (x, y) and returns the Y below it.
func (ins *Inspector) Draw(x, y int32, a game.AgentView) int32 {
	r := ins.renderer
	y = r.DrawSectionHeader(x, y, "Inspector")
	for _, line := range InspectorLines(a) {
		y = r.DrawLabelValue(x, y, line[0], line[1])
	}

	ratio := 0.0
	if a.MaxLife > 0 {
		ratio = float64(a.Life) / float64(a.MaxLife)
	}
	y = r.DrawBar(x, y, "Life", ratio, fmt.Sprintf("%d", a.Life))

	if len(a.Inputs) > 0 {
		lo, hi := span(a.Inputs)
		y = r.DrawBarGroup(x, y, "Inputs", a.Inputs, lo, hi, math.Inf(-1))
	}
	if len(a.Outputs) > 0 {
		y = r.DrawBarGroup(x, y, "Gates", a.Outputs, 0, 1, ins.threshold)
	}
	return y
}

// span returns a symmetric range covering every value, so sign is visible
// as fill above or below half height.
func span(values []float64) (float64, float64) {
	m := 0.0
	for _, v := range values {
		m = max(m, math.Abs(v))
	}
	if m == 0 {
		m = 1
	}
	return -m, m
}
