package signal

import (
	"math"
	"testing"

	"github.com/ttpr0/go-hdmap/attr"
)

func TestClassifyPhase(t *testing.T) {
	cases := []struct {
		dyaw  float64
		phase attr.PhaseType
	}{
		{0, attr.PHASE_THROUGH},
		{44.999, attr.PHASE_THROUGH},
		{-44.999, attr.PHASE_THROUGH},
		{45, attr.PHASE_LEFT},
		{60, attr.PHASE_LEFT},
		{149.999, attr.PHASE_LEFT},
		{150, attr.PHASE_LEFT_HARD},
		{180, attr.PHASE_LEFT_HARD},
		{-45, attr.PHASE_RIGHT},
		{-90, attr.PHASE_RIGHT},
		{-149.999, attr.PHASE_RIGHT},
		{-150, attr.PHASE_RIGHT_HARD},
		{-179.999, attr.PHASE_RIGHT_HARD},
		// normalized into (-180, 180]
		{-180, attr.PHASE_LEFT_HARD},
		{420, attr.PHASE_LEFT},
		{270, attr.PHASE_RIGHT},
	}
	for _, c := range cases {
		if phase := ClassifyPhase(c.dyaw); phase != c.phase {
			t.Errorf("ClassifyPhase(%v): expected %v, got %v", c.dyaw, c.phase, phase)
		}
	}
}

func TestClassifyPhaseTotal(t *testing.T) {
	counts := map[attr.PhaseType]int{}
	for i := 1; i <= 3600; i++ {
		dyaw := -180 + float64(i)*0.1
		phase := ClassifyPhase(dyaw)
		if phase < attr.PHASE_THROUGH || phase > attr.PHASE_RIGHT_HARD {
			t.Fatalf("ClassifyPhase(%v) out of range: %v", dyaw, phase)
		}
		if ClassifyPhase(dyaw) != phase {
			t.Fatalf("ClassifyPhase(%v) not deterministic", dyaw)
		}
		counts[phase] += 1
	}
	if len(counts) != 5 {
		t.Errorf("expected all five phases, got %v", counts)
	}
	if phase := ClassifyPhase(math.NaN()); phase != attr.PHASE_RIGHT_HARD {
		t.Errorf("expected R0 for NaN, got %v", phase)
	}
}
