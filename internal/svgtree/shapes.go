package svgtree

import (
	"strconv"
	"strings"
)

// rectPath synthesizes the "d" string for a <rect>, producing a rounded
// outline via one elliptical arc per corner when rx/ry are set (spec.md
// §4.10, grounded on the reference implementation's draw_rect).
func rectPath(x, y, w, h, rx, ry float64, hasRx, hasRy bool) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	if hasRx && !hasRy {
		ry = rx
	} else if !hasRx && hasRy {
		rx = ry
	}
	rx = min(rx, w/2)
	ry = min(ry, h/2)

	if rx <= 0 || ry <= 0 {
		var b strings.Builder
		b.WriteString("M ")
		writeNum(&b, x)
		b.WriteByte(' ')
		writeNum(&b, y)
		b.WriteString(" H ")
		writeNum(&b, x+w)
		b.WriteString(" V ")
		writeNum(&b, y+h)
		b.WriteString(" H ")
		writeNum(&b, x)
		b.WriteString(" Z")
		return b.String()
	}

	var b strings.Builder
	move(&b, "M", x+rx, y)
	move(&b, "L", x+w-rx, y)
	arcTo(&b, rx, ry, x+w, y+ry)
	move(&b, "L", x+w, y+h-ry)
	arcTo(&b, rx, ry, x+w-rx, y+h)
	move(&b, "L", x+rx, y+h)
	arcTo(&b, rx, ry, x, y+h-ry)
	move(&b, "L", x, y+ry)
	arcTo(&b, rx, ry, x+rx, y)
	b.WriteString(" Z")
	return b.String()
}

// ellipsePath synthesizes the "d" string for an <ellipse> (and, with
// rx==ry, a <circle>) as two half-arcs, matching draw_ellipse.
func ellipsePath(cx, cy, rx, ry float64) string {
	if rx <= 0 || ry <= 0 {
		return ""
	}
	var b strings.Builder
	move(&b, "M", cx-rx, cy)
	b.WriteString(" a ")
	writeNum(&b, rx)
	b.WriteByte(' ')
	writeNum(&b, ry)
	b.WriteString(" 0 1 0 ")
	writeNum(&b, rx*2)
	b.WriteString(" 0 a ")
	writeNum(&b, rx)
	b.WriteByte(' ')
	writeNum(&b, ry)
	b.WriteString(" 0 1 0 ")
	writeNum(&b, -rx*2)
	b.WriteString(" 0")
	return b.String()
}

func linePath(x1, y1, x2, y2 float64) string {
	var b strings.Builder
	move(&b, "M", x1, y1)
	move(&b, "L", x2, y2)
	return b.String()
}

// polyPoints parses a polygon/polyline "points" attribute into coordinate
// pairs, tolerant of comma or whitespace separators (matches get_points).
func polyPoints(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err == nil {
			nums = append(nums, v)
		}
	}
	// truncate to an even count; a trailing unpaired coordinate is dropped.
	if len(nums)%2 != 0 {
		nums = nums[:len(nums)-1]
	}
	return nums
}

func polygonPath(pts []float64, closed bool) string {
	if len(pts) < 4 {
		return ""
	}
	var b strings.Builder
	move(&b, "M", pts[0], pts[1])
	for i := 2; i+1 < len(pts); i += 2 {
		move(&b, "L", pts[i], pts[i+1])
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func move(b *strings.Builder, cmd string, x, y float64) {
	b.WriteByte(' ')
	b.WriteString(cmd)
	b.WriteByte(' ')
	writeNum(b, x)
	b.WriteByte(' ')
	writeNum(b, y)
}

func arcTo(b *strings.Builder, rx, ry, x, y float64) {
	b.WriteString(" A ")
	writeNum(b, rx)
	b.WriteByte(' ')
	writeNum(b, ry)
	b.WriteString(" 0 0 1 ")
	writeNum(b, x)
	b.WriteByte(' ')
	writeNum(b, y)
}

func writeNum(b *strings.Builder, v float64) {
	b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}
