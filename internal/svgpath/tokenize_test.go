package svgpath

import (
	"math"
	"testing"
)

func cmdsEqualKinds(t *testing.T, got []Command, want []Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d commands, want %d: %+v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("command %d: got kind %v, want %v", i, got[i].Kind, k)
		}
	}
}

func TestTokenizeMoveLineClose(t *testing.T) {
	cmds := Tokenize("M10 10 L20 10 L20 20 Z")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, LineTo, LineTo, Close})
	if cmds[2].X != 20 || cmds[2].Y != 20 {
		t.Errorf("got (%v,%v), want (20,20)", cmds[2].X, cmds[2].Y)
	}
}

func TestTokenizeImplicitLineToAfterMove(t *testing.T) {
	// Extra coordinate pairs after an initial M are implicit LineTo.
	cmds := Tokenize("M0 0 10 0 10 10")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, LineTo, LineTo})
}

func TestTokenizeRelativeCommandsAccumulate(t *testing.T) {
	cmds := Tokenize("m10 10 l5 0 l0 5")
	if cmds[0].X != 10 || cmds[0].Y != 10 {
		t.Fatalf("moveto got (%v,%v), want (10,10)", cmds[0].X, cmds[0].Y)
	}
	if cmds[1].X != 15 || cmds[1].Y != 10 {
		t.Errorf("lineto 1 got (%v,%v), want (15,10)", cmds[1].X, cmds[1].Y)
	}
	if cmds[2].X != 15 || cmds[2].Y != 15 {
		t.Errorf("lineto 2 got (%v,%v), want (15,15)", cmds[2].X, cmds[2].Y)
	}
}

func TestTokenizeHorizontalVerticalLines(t *testing.T) {
	cmds := Tokenize("M0 0 H10 V5")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, LineTo, LineTo})
	if cmds[1].X != 10 || cmds[1].Y != 0 {
		t.Errorf("H: got (%v,%v), want (10,0)", cmds[1].X, cmds[1].Y)
	}
	if cmds[2].X != 10 || cmds[2].Y != 5 {
		t.Errorf("V: got (%v,%v), want (10,5)", cmds[2].X, cmds[2].Y)
	}
}

func TestTokenizeSmoothCubicReflectsControl(t *testing.T) {
	cmds := Tokenize("M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, CubicTo, CubicTo})
	// Reflection of (10,10) about (10,0) is (10,-10).
	second := cmds[2]
	if second.C1X != 10 || second.C1Y != -10 {
		t.Errorf("reflected control got (%v,%v), want (10,-10)", second.C1X, second.C1Y)
	}
}

func TestTokenizeSmoothQuadReflectsControl(t *testing.T) {
	cmds := Tokenize("M0 0 Q5 10 10 0 T20 0")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, QuadTo, QuadTo})
	// Reflection of (5,10) about (10,0) is (15,-10).
	second := cmds[2]
	if second.CX != 15 || second.CY != -10 {
		t.Errorf("reflected control got (%v,%v), want (15,-10)", second.CX, second.CY)
	}
}

func TestTokenizeArcFlagsWithoutSeparators(t *testing.T) {
	// Flags may be packed with no whitespace between them and the next number.
	cmds := Tokenize("M0 0 A5 5 0 1110 0")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, ArcTo})
	a := cmds[1]
	if !a.LargeArc || !a.Sweep {
		t.Errorf("got LargeArc=%v Sweep=%v, want both true", a.LargeArc, a.Sweep)
	}
	if a.X != 10 || a.Y != 0 {
		t.Errorf("endpoint got (%v,%v), want (10,0)", a.X, a.Y)
	}
}

func TestTokenizeMalformedNumberReadsAsZero(t *testing.T) {
	// A trailing Q with no numbers still emits its command without
	// panicking. Missing numeric tails read as zero per the tokenizer's
	// local-recovery contract.
	cmds := Tokenize("M0 0 L10 10 Q")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, LineTo, QuadTo})
	if cmds[2].X != 0 || cmds[2].Y != 0 {
		t.Errorf("missing numbers should read as 0: got (%v,%v)", cmds[2].X, cmds[2].Y)
	}
}

func TestTokenizeUnknownCommandStopsCleanly(t *testing.T) {
	cmds := Tokenize("M0 0 L10 10 W5 5")
	cmdsEqualKinds(t, cmds, []Kind{MoveTo, LineTo})
}

func TestTokenizeEmptyString(t *testing.T) {
	cmds := Tokenize("")
	if len(cmds) != 0 {
		t.Errorf("got %d commands, want 0", len(cmds))
	}
}

func TestTokenizeScientificNotation(t *testing.T) {
	cmds := Tokenize("M1e1 2E-1")
	if math.Abs(cmds[0].X-10) > 1e-9 {
		t.Errorf("got X=%v, want 10", cmds[0].X)
	}
	if math.Abs(cmds[0].Y-0.2) > 1e-9 {
		t.Errorf("got Y=%v, want 0.2", cmds[0].Y)
	}
}
