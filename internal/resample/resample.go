// Package resample bilinearly resizes a decoded raster (PNG or TGA) to
// the caller's requested output resolution (spec.md's Resampler
// component).
package resample

// Bilinear resizes src (srcW x srcH, row-major ARGB) to dstW x dstH using
// centre-aligned bilinear interpolation with edge-clamped sampling.
func Bilinear(src []uint32, srcW, srcH, dstW, dstH int) []uint32 {
	if srcW == dstW && srcH == dstH {
		out := make([]uint32, len(src))
		copy(out, src)
		return out
	}

	out := make([]uint32, dstW*dstH)
	for y := 0; y < dstH; y++ {
		gy := (float64(y)+0.5)/float64(dstH)*float64(srcH) - 0.5
		gyi := floorInt(gy)
		ty := gy - float64(gyi)

		for x := 0; x < dstW; x++ {
			gx := (float64(x)+0.5)/float64(dstW)*float64(srcW) - 0.5
			gxi := floorInt(gx)
			tx := gx - float64(gxi)

			c00 := pixelClamped(src, srcW, srcH, gxi, gyi)
			c10 := pixelClamped(src, srcW, srcH, gxi+1, gyi)
			c01 := pixelClamped(src, srcW, srcH, gxi, gyi+1)
			c11 := pixelClamped(src, srcW, srcH, gxi+1, gyi+1)

			top := lerpColor(c00, c10, tx)
			bot := lerpColor(c01, c11, tx)
			out[y*dstW+x] = lerpColor(top, bot, ty)
		}
	}
	return out
}

func pixelClamped(pixels []uint32, w, h, x, y int) uint32 {
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	return pixels[y*w+x]
}

func lerpColor(c1, c2 uint32, t float64) uint32 {
	a1, r1, g1, b1 := channels(c1)
	a2, r2, g2, b2 := channels(c2)
	a := uint32(a1 + (a2-a1)*t)
	r := uint32(r1 + (r2-r1)*t)
	g := uint32(g1 + (g2-g1)*t)
	b := uint32(b1 + (b2-b1)*t)
	return a<<24 | r<<16 | g<<8 | b
}

func channels(c uint32) (a, r, g, b float64) {
	return float64(c >> 24 & 0xFF), float64(c >> 16 & 0xFF), float64(c >> 8 & 0xFF), float64(c & 0xFF)
}

func floorInt(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}
