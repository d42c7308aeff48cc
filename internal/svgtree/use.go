package svgtree

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/nrasterio/imgraster/internal/xform"
	"github.com/nrasterio/imgraster/internal/xmltree"
)

// drawUse resolves a <use>'s href/xlink:href target, composes the x/y
// translate and the element's own transform, and draws the target with
// style (the <use> element's own inheritableStyle, already merged over
// its ancestors) as the inherited base. A <use> without its own "fill"
// leaves the target's fill alone; a <use fill="red"> applies to a target
// with no fill of its own, the same inheritance rule walk.go's Draw
// applies to any other parent/child pair. Cycles (a use chain that loops
// back on itself) are broken via ctx.Visiting, matching the reference
// implementation's recursion guard (spec.md §4.2 edge case "Cyclic use
// reference").
func (ctx *Context) drawUse(el *xmltree.Element, ctm matrix.Matrix, mask []float32, style map[string]string) {
	href, ok := el.Attr("href")
	if !ok {
		href, ok = el.Attr("xlink:href")
	}
	if !ok || len(href) == 0 || href[0] != '#' {
		return
	}
	id := href[1:]
	if ctx.Visiting[id] {
		return
	}
	target, ok := ctx.Defs[id]
	if !ok {
		return
	}

	x := parseFloatAttr(el.AttrOr("x", "0"), 0)
	y := parseFloatAttr(el.AttrOr("y", "0"), 0)
	useCTM := ctm
	if x != 0 || y != 0 {
		useCTM = xform.Then(ctm, xform.Translate(x, y))
	}

	clone := cloneWithoutAttr(target, "id")

	ctx.Visiting[id] = true
	ctx.Draw(clone, useCTM, mask, style)
	delete(ctx.Visiting, id)
}
