package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_TracksTickPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePredators)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseThink)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	for _, phase := range []string{PhasePredators, PhaseThink} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if stats.PhasePct[PhaseThink] <= stats.PhasePct[PhasePredators] {
		t.Errorf("think (%v%%) should outweigh predators (%v%%)", stats.PhasePct[PhaseThink], stats.PhasePct[PhasePredators])
	}
}

func TestPerfCollector_RepeatedPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	for i := 0; i < 3; i++ {
		pc.StartPhase(PhaseSense)
		time.Sleep(20 * time.Microsecond)
		pc.StartPhase(PhaseMove)
	}
	pc.EndTick()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseSense] < 60*time.Microsecond {
		t.Errorf("sense should accumulate over 3 entries: got %v", stats.PhaseAvg[PhaseSense])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 12; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseLifecycle)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseThink: 60, PhaseRender: 25},
	}
	row := s.ToCSV(7)
	if row.Generation != 7 || row.AvgTickUS != 1500 {
		t.Errorf("got generation=%d avg=%d, want 7/1500", row.Generation, row.AvgTickUS)
	}
	if row.ThinkPct != 60 || row.RenderPct != 25 || row.SensePct != 0 {
		t.Errorf("phase pct: got think=%v render=%v sense=%v", row.ThinkPct, row.RenderPct, row.SensePct)
	}
}
