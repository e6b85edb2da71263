package main

import "testing"

func TestParamVectorLayout(t *testing.T) {
	pv := NewParamVector(2, 4, 5)
	if pv.Dim() != 12 {
		t.Fatalf("Dim: got %d, want 12", pv.Dim())
	}
	if pv.Specs[0].Name != "g0_w0" || pv.Specs[2].Name != "g0_bias" || pv.Specs[11].Name != "g3_bias" {
		t.Errorf("names: got %q %q %q", pv.Specs[0].Name, pv.Specs[2].Name, pv.Specs[11].Name)
	}
}

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(2, 4, 5)
	raw := pv.DefaultVector()
	raw[3] = 2.5
	raw[5] = -5

	norm := pv.Normalize(raw)
	if norm[0] != 0.5 || norm[3] != 0.75 || norm[5] != 0 {
		t.Errorf("normalized: got %v", norm)
	}
	back := pv.Denormalize(norm)
	for i := range raw {
		if back[i] != raw[i] {
			t.Errorf("param %d: got %v, want %v", i, back[i], raw[i])
		}
	}
}

func TestPolicyClampsWeights(t *testing.T) {
	pv := NewParamVector(2, 4, 1)
	raw := pv.DefaultVector()
	raw[0] = 9
	raw[1] = -9

	p := pv.Policy(raw)
	if p.Weights[0] != 1 || p.Weights[1] != -1 {
		t.Errorf("clamped weights: got %v %v, want 1 -1", p.Weights[0], p.Weights[1])
	}
	if p.In != 2 || p.Out != 4 {
		t.Errorf("shape: got %dx%d, want 2x4", p.In, p.Out)
	}
}
