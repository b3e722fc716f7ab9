package render

import "testing"

func TestGradientSamplesRampEnds(t *testing.T) {
	g := NewGradient("ocean", 100, 0, false)

	r, gr, b := g.At(0, 0)
	want := ramps["ocean"][0]
	if r != want[0] || gr != want[1] || b != want[2] {
		t.Fatalf("col 0 = (%d,%d,%d), want ramp start (%d,%d,%d)", r, gr, b, want[0], want[1], want[2])
	}

	rev := NewGradient("ocean", 100, 0, true)
	r, gr, b = rev.At(0, 0)
	want = ramps["ocean"][rampSteps-1]
	if r != want[0] || gr != want[1] || b != want[2] {
		t.Fatalf("reversed col 0 = (%d,%d,%d), want ramp end (%d,%d,%d)", r, gr, b, want[0], want[1], want[2])
	}
}

func TestGradientUnknownNameFallsBack(t *testing.T) {
	g := NewGradient("chartreuse-dream", 10, 0, false)
	r, gr, b := g.At(0, 0)
	want := ramps["rainbow"][0]
	if r != want[0] || gr != want[1] || b != want[2] {
		t.Fatalf("fallback col 0 = (%d,%d,%d), want rainbow start (%d,%d,%d)", r, gr, b, want[0], want[1], want[2])
	}
}

func TestGradientShiftMovesPhase(t *testing.T) {
	g := NewGradient("fire", 50, 25, false)
	r0, g0, b0 := g.At(10, 0)
	r1, g1, b1 := g.At(10, 1) // phase moved 25 of 50 px
	if r0 == r1 && g0 == g1 && b0 == b1 {
		t.Fatal("phase shift left the sample unchanged")
	}
}

func TestGradientWrapsOffRampColumns(t *testing.T) {
	g := NewGradient("forest", 20, 0, false)
	r0, g0, b0 := g.At(3, 0)
	r1, g1, b1 := g.At(3+20, 0)
	r2, g2, b2 := g.At(3-20, 0)
	if r0 != r1 || g0 != g1 || b0 != b1 {
		t.Fatal("sample one width right did not wrap")
	}
	if r0 != r2 || g0 != g2 || b0 != b2 {
		t.Fatal("sample one width left did not wrap")
	}
}

func TestRampTablesAreComplete(t *testing.T) {
	names := RampNames()
	if len(names) == 0 {
		t.Fatal("no ramps registered")
	}
	for _, name := range names {
		lut := ramps[name]
		varied := false
		for i := 1; i < rampSteps; i++ {
			if lut[i] != lut[0] {
				varied = true
				break
			}
		}
		if !varied {
			t.Fatalf("ramp %q is a constant color", name)
		}
	}
}
