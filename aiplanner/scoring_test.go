package aiplanner

import "testing"

func TestScoreProadPenalizeNewLengthScenario(t *testing.T) {
	// spec §8 scenario 4: two candidates under PenalizeNewLength
	// (multiplier 2.5); the first (tile=10,flag=2,new=8) scores 32, the
	// second (tile=6,flag=3,new=12) scores 39, so the first wins.
	a := scoreProad(10, 2, 8, false, PenalizeNewLength)
	b := scoreProad(6, 3, 12, false, PenalizeNewLength)
	if a != 32 {
		t.Fatalf("candidate A score = %v, want 32", a)
	}
	if b != 39 {
		t.Fatalf("candidate B score = %v, want 39", b)
	}
	if !(a < b) {
		t.Fatalf("expected candidate A (%v) to score lower than B (%v)", a, b)
	}
}

func TestSignificantlyBetterScenario(t *testing.T) {
	// spec §8 scenario 5: eroad best=35, proad best=22; 22*1.5+2=35, not
	// strictly less, so keep the existing road.
	if significantlyBetter(22, 35) {
		t.Fatal("expected 22*1.5+2 == 35 to not count as significantly better")
	}
}

func TestSignificantlyBetterWhenClearlyShorter(t *testing.T) {
	if !significantlyBetter(10, 35) {
		t.Fatal("expected a much shorter proad to replace the existing road")
	}
}

func TestReducedNewLengthPenaltyMultiplier(t *testing.T) {
	if got := newLengthMultiplier(PenalizeNewLength); got != 2.5 {
		t.Fatalf("PenalizeNewLength multiplier = %v, want 2.5", got)
	}
	if got := newLengthMultiplier(PenalizeNewLength | ReducedNewLengthPenalty); got != 1.75 {
		t.Fatalf("reduced multiplier = %v, want 1.75", got)
	}
	if got := newLengthMultiplier(0); got != 1.0 {
		t.Fatalf("no-penalty multiplier = %v, want 1.0", got)
	}
}

func TestScoreERoadHasNoNewLengthTerm(t *testing.T) {
	got := scoreERoad(10, 2, false, PenalizeNewLength)
	if got != 12 {
		t.Fatalf("eroad score = %v, want 12 (no new-length term)", got)
	}
}

func TestPenalizeCastleFlagAddsTenOnlyWhenSet(t *testing.T) {
	withPenalty := scoreERoad(5, 1, true, PenalizeCastleFlag)
	withoutOpt := scoreERoad(5, 1, true, 0)
	if withPenalty != 16 {
		t.Fatalf("penalized score = %v, want 16", withPenalty)
	}
	if withoutOpt != 6 {
		t.Fatalf("unpenalized score = %v, want 6", withoutOpt)
	}
}

func TestConvolutionRatio(t *testing.T) {
	if got := convolution(9, 3); got != 3.0 {
		t.Fatalf("convolution(9,3) = %v, want 3.0", got)
	}
}
