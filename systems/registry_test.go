package systems

import (
	"testing"

	"github.com/pthm-cable/critters/telemetry"
)

func TestRegistryCoversPerfPhases(t *testing.T) {
	reg := NewSystemRegistry()
	ids := reg.IDs()
	if len(ids) != len(telemetry.Phases) {
		t.Fatalf("got %d phases, want %d", len(ids), len(telemetry.Phases))
	}
	for i, id := range telemetry.Phases {
		if ids[i] != id {
			t.Errorf("phase %d: got %q, want %q", i, ids[i], id)
		}
		if reg.GetName(id) == id {
			t.Errorf("phase %q has no display name", id)
		}
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("unknown id: got %q, want fallback to id", got)
	}
}
