package paint

import "testing"

func TestParseColorHexShorthand(t *testing.T) {
	got := ParseColor("#f00")
	if got != 0xFFFF0000 {
		t.Errorf("got %#08x, want 0xFFFF0000", got)
	}
}

func TestParseColorHex6(t *testing.T) {
	got := ParseColor("#336699")
	if got != 0xFF336699 {
		t.Errorf("got %#08x, want 0xFF336699", got)
	}
}

func TestParseColorHex8WithAlpha(t *testing.T) {
	got := ParseColor("#11223380")
	want := uint32(0x80112233)
	if got != want {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestParseColorRGBFunction(t *testing.T) {
	got := ParseColor("rgb(255, 0, 128)")
	want := uint32(0xFFFF0080)
	if got != want {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestParseColorRGBAFunction(t *testing.T) {
	got := ParseColor("rgba(0, 255, 0, 0.5)")
	a := got >> 24 & 0xFF
	if a < 126 || a > 128 {
		t.Errorf("alpha got %d, want ~127", a)
	}
	if got&0x00FFFFFF != 0x00FF00 {
		t.Errorf("rgb got %#06x, want 0x00FF00", got&0x00FFFFFF)
	}
}

func TestParseColorRGBPercent(t *testing.T) {
	got := ParseColor("rgb(100%, 0%, 0%)")
	if got != 0xFFFF0000 {
		t.Errorf("got %#08x, want 0xFFFF0000", got)
	}
}

func TestParseColorNamed(t *testing.T) {
	got := ParseColor("red")
	if got != 0xFFFF0000 {
		t.Errorf("got %#08x, want 0xFFFF0000", got)
	}
}

func TestParseColorNoneAndTransparent(t *testing.T) {
	if got := ParseColor("none"); got != 0 {
		t.Errorf("none: got %#08x, want 0", got)
	}
	if got := ParseColor("transparent"); got != 0 {
		t.Errorf("transparent: got %#08x, want 0", got)
	}
}

func TestParseColorHSLPrimaries(t *testing.T) {
	red := ParseColor("hsl(0, 100%, 50%)")
	if red != 0xFFFF0000 {
		t.Errorf("red: got %#08x, want 0xFFFF0000", red)
	}
	green := ParseColor("hsl(120, 100%, 50%)")
	if green != 0xFF00FF00 {
		t.Errorf("green: got %#08x, want 0xFF00FF00", green)
	}
	blue := ParseColor("hsl(240, 100%, 50%)")
	if blue != 0xFF0000FF {
		t.Errorf("blue: got %#08x, want 0xFF0000FF", blue)
	}
}

func TestParseColorHSLAGrayscaleIgnoresHue(t *testing.T) {
	got := ParseColor("hsla(90, 0%, 50%, 1)")
	want := uint32(0xFF808080)
	if got != want {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestParseColorUnrecognisedIsOpaqueBlack(t *testing.T) {
	got := ParseColor("not-a-colour")
	if got != 0xFF000000 {
		t.Errorf("got %#08x, want 0xFF000000", got)
	}
}

func TestParseColorIsCaseInsensitive(t *testing.T) {
	if ParseColor("RED") != ParseColor("red") {
		t.Error("colour parsing should be case-insensitive")
	}
	if ParseColor("#ABCDEF") != ParseColor("#abcdef") {
		t.Error("hex parsing should be case-insensitive")
	}
}

func TestBlendColorsEndpoints(t *testing.T) {
	c1 := uint32(0xFFFF0000)
	c2 := uint32(0xFF0000FF)
	if got := BlendColors(c1, c2, 0); got != c1 {
		t.Errorf("t=0: got %#08x, want %#08x", got, c1)
	}
	if got := BlendColors(c1, c2, 1); got != c2 {
		t.Errorf("t=1: got %#08x, want %#08x", got, c2)
	}
}

func TestBlendColorsMidpoint(t *testing.T) {
	got := BlendColors(0xFF000000, 0xFFFFFFFF, 0.5)
	r := got >> 16 & 0xFF
	if r < 126 || r > 129 {
		t.Errorf("midpoint red got %d, want ~127", r)
	}
}
