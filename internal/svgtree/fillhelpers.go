package svgtree

import (
	"seehuhn.de/go/geom/path"

	"github.com/nrasterio/imgraster/internal/canvas"
	"github.com/nrasterio/imgraster/internal/paint"
	"github.com/nrasterio/imgraster/internal/raster"
)

// fillPath rasterizes p with fillPaint using the non-zero winding rule and
// blends the result into dst, optionally multiplying per-pixel coverage by
// mask (clip-path support, spec.md §4.11). mask may be nil.
func fillPath(r *raster.Rasterizer, dst *canvas.Canvas, p *path.Data, fillPaint paint.Paint, opacity float64, mask []float32) {
	if fillPaint.IsNone() {
		return
	}
	scratch := newRowScratch(dst.Width)
	r.Fill(p, raster.NonZero, func(y, xMin int, coverage []float32) {
		bx, by, bw, bh := r.LastBBox()
		bb := paint.BBox{X: bx, Y: by, W: bw, H: bh}
		blendRow(dst, xMin, y, coverage, fillPaint, bb, opacity, mask, scratch)
	})
}

// strokePath rasterizes the stroked outline of p at width and blends it
// into dst.
func strokePath(r *raster.Rasterizer, dst *canvas.Canvas, p *path.Data, width float64, strokePaint paint.Paint, opacity float64, mask []float32) {
	if strokePaint.IsNone() || width <= 0 {
		return
	}
	scratch := newRowScratch(dst.Width)
	r.Stroke(p, width, func(y, xMin int, coverage []float32) {
		bx, by, bw, bh := r.LastBBox()
		bb := paint.BBox{X: bx, Y: by, W: bw, H: bh}
		blendRow(dst, xMin, y, coverage, strokePaint, bb, opacity, mask, scratch)
	})
}

// rowScratch holds the per-pixel colour/coverage buffers blendRow feeds to
// canvas.BlendRow, reused across every row of one fill/stroke so scan
// conversion doesn't allocate per emitted row.
type rowScratch struct {
	srcs []uint32
	covs []float32
}

func newRowScratch(width int) *rowScratch {
	return &rowScratch{srcs: make([]uint32, width), covs: make([]float32, width)}
}

func (s *rowScratch) ensure(n int) {
	if cap(s.srcs) < n {
		s.srcs = make([]uint32, n)
		s.covs = make([]float32, n)
		return
	}
	s.srcs = s.srcs[:n]
	s.covs = s.covs[:n]
}

// blendRow samples p once per covered pixel and hands the resulting colour/
// coverage run to canvas.BlendRow in one call, rather than blending pixel
// by pixel through Blend.
func blendRow(dst *canvas.Canvas, xMin, y int, coverage []float32, p paint.Paint, bb paint.BBox, opacity float64, mask []float32, scratch *rowScratch) {
	scratch.ensure(len(coverage))
	srcs, covs := scratch.srcs, scratch.covs
	for i, cov := range coverage {
		covs[i] = 0
		if cov <= 0 {
			continue
		}
		x := xMin + i
		c := float64(cov) * opacity
		if mask != nil {
			if x < 0 || x >= dst.Width || y < 0 || y >= dst.Height {
				continue
			}
			c *= float64(mask[y*dst.Width+x])
		}
		if c <= 0 {
			continue
		}
		srcs[i] = p.At(float64(x)+0.5, float64(y)+0.5, bb)
		covs[i] = float32(c)
	}
	dst.BlendRow(xMin, y, srcs, covs)
}
