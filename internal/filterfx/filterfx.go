// Package filterfx evaluates the SVG filter-primitive graph: a named
// buffer map seeded with SourceGraphic/SourceAlpha, each primitive
// reading a named input and producing a named (or anonymous, chained)
// output (spec.md §4.9).
package filterfx

// Primitive is one filter-primitive node (feGaussianBlur, feOffset,
// feMerge). MergeInputs is only populated for feMerge.
type Primitive struct {
	Name         string // "feGaussianBlur", "feOffset", "feMerge"
	In           string // named input buffer, "" means "previous result"
	Result       string // named output, "" means anonymous/chained only
	StdDeviation [2]float64
	Dx, Dy       float64
	MergeInputs  []string
}

// Apply evaluates a filter's primitive chain against a fully rendered
// source buffer, returning the final buffer (spec.md §4.9's graph walk).
func Apply(source []uint32, width, height int, primitives []Primitive) []uint32 {
	results := map[string][]uint32{
		"SourceGraphic": source,
		"SourceAlpha":   sourceAlpha(source),
	}
	last := "SourceGraphic"

	for i, prim := range primitives {
		inputName := prim.In
		if inputName == "" {
			inputName = last
		}
		input, ok := results[inputName]
		if !ok {
			input = make([]uint32, width*height)
		}

		var output []uint32
		switch prim.Name {
		case "feGaussianBlur":
			output = GaussianBlur(input, width, height, prim.StdDeviation[0], prim.StdDeviation[1])
		case "feOffset":
			output = Offset(input, width, height, prim.Dx, prim.Dy)
		case "feMerge":
			output = Merge(width, height, prim.MergeInputs, results, source)
		default:
			output = input
		}

		if prim.Result != "" {
			results[prim.Result] = output
			last = prim.Result
		} else {
			temp := anonymousName(i, prim.Name)
			results[temp] = output
			last = temp
		}
	}

	if out, ok := results[last]; ok {
		return out
	}
	return source
}

func anonymousName(i int, name string) string {
	return "__anon_" + name + "_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

func sourceAlpha(src []uint32) []uint32 {
	out := make([]uint32, len(src))
	for i, c := range src {
		a := c >> 24 & 0xFF
		out[i] = a << 24
	}
	return out
}

// Offset shifts input by (dx,dy) pixels, rounded to the nearest integer,
// filling uncovered pixels with transparent black (spec.md §4.9 feOffset).
func Offset(input []uint32, width, height int, dx, dy float64) []uint32 {
	idx := roundInt(dx)
	idy := roundInt(dy)
	if idx == 0 && idy == 0 {
		out := make([]uint32, len(input))
		copy(out, input)
		return out
	}

	out := make([]uint32, width*height)
	for y := 0; y < height; y++ {
		srcY := y - idy
		if srcY < 0 || srcY >= height {
			continue
		}
		for x := 0; x < width; x++ {
			srcX := x - idx
			if srcX < 0 || srcX >= width {
				continue
			}
			out[y*width+x] = input[srcY*width+srcX]
		}
	}
	return out
}

func roundInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

// Merge composites the named feMergeNode inputs in order with source-over
// blending (spec.md §4.9 feMerge).
func Merge(width, height int, inputs []string, results map[string][]uint32, source []uint32) []uint32 {
	out := make([]uint32, width*height)
	for _, name := range inputs {
		var layer []uint32
		switch {
		case name == "SourceGraphic":
			layer = source
		default:
			if buf, ok := results[name]; ok {
				layer = buf
			}
		}
		if layer == nil {
			continue
		}
		blendLayer(out, layer)
	}
	return out
}

// blendLayer composites src over dst in place, one scanline-wide pass —
// matching the batched-scanline shape the reference implementation
// dispatches through its blend_scanline (spec.md §4.8/§4.9 SIMD
// tolerance note; no real SIMD intrinsics here, see internal/canvas).
func blendLayer(dst, src []uint32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = blendPixel(dst[i], src[i])
	}
}

func blendPixel(dst, src uint32) uint32 {
	srcA := float64(src>>24&0xFF) / 255
	if srcA <= 0 {
		return dst
	}
	srcR := float64(src >> 16 & 0xFF)
	srcG := float64(src >> 8 & 0xFF)
	srcB := float64(src & 0xFF)

	dstA := float64(dst>>24&0xFF) / 255
	dstR := float64(dst >> 16 & 0xFF)
	dstG := float64(dst >> 8 & 0xFF)
	dstB := float64(dst & 0xFF)

	outA := srcA + dstA*(1-srcA)
	safeA := outA
	if safeA < 0.001 {
		safeA = 0.001
	}
	outR := (srcR*srcA + dstR*dstA*(1-srcA)) / safeA
	outG := (srcG*srcA + dstG*dstA*(1-srcA)) / safeA
	outB := (srcB*srcA + dstB*dstA*(1-srcA)) / safeA

	a := clamp255(outA * 255)
	return a<<24 | clamp255(outR)<<16 | clamp255(outG)<<8 | clamp255(outB)
}

func clamp255(v float64) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}
