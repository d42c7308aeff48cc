package svgpath

import "strings"

// scanner walks a path data string character by character, the way
// spec.md §4.3 describes: no regexp, no pre-split tokens.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *scanner) skipSeparators() {
	for !sc.eof() {
		c := sc.s[sc.pos]
		if c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			sc.pos++
			continue
		}
		break
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// readNumber accumulates digits, an optional leading sign, an optional
// decimal point, and an optional exponent whose sign may only appear
// immediately after 'e'/'E' (spec.md §4.3). Returns false if no number
// is present at the cursor (SvgParseWarning case: caller treats this as
// "read zero" and continues).
func (sc *scanner) readNumber() (float64, bool) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	n := len(sc.s)

	if i < n && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	sawDigitOrDot := false
	for i < n && isDigit(sc.s[i]) {
		i++
		sawDigitOrDot = true
	}
	if i < n && sc.s[i] == '.' {
		i++
		for i < n && isDigit(sc.s[i]) {
			i++
			sawDigitOrDot = true
		}
	}
	if !sawDigitOrDot {
		sc.pos = start
		return 0, false
	}
	if i < n && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < n && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		digitsStart := j
		for j < n && isDigit(sc.s[j]) {
			j++
		}
		if j > digitsStart {
			i = j
		}
	}

	text := sc.s[start:i]
	sc.pos = i
	v, err := parseFloat(text)
	if err != nil {
		return 0, false
	}
	return v, true
}

// readFlag reads a single SVG flag digit (0 or 1), used for arc
// large-arc/sweep parameters, which may appear without separators
// ("a5 5 0 0111 ...").
func (sc *scanner) readFlag() (bool, bool) {
	sc.skipSeparators()
	if sc.eof() {
		return false, false
	}
	c := sc.s[sc.pos]
	if c != '0' && c != '1' {
		return false, false
	}
	sc.pos++
	return c == '1', true
}

func isCommandLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Tokenize parses an SVG path data string into an absolute command
// sequence. Malformed numbers read as zero rather than aborting the
// whole path (spec.md §7 SvgParseWarning).
func Tokenize(d string) []Command {
	sc := &scanner{s: strings.TrimSpace(d)}
	var cmds []Command

	var cur, subpathStart point
	var lastCmd byte

	for {
		sc.skipSeparators()
		if sc.eof() {
			break
		}

		c := sc.peek()
		if isCommandLetter(c) {
			sc.pos++
			lastCmd = c
		} else if lastCmd == 0 {
			// Garbage before the first command: skip the byte.
			sc.pos++
			continue
		}
		// else: implicit repetition of lastCmd with new arguments.

		rel := lastCmd >= 'a' && lastCmd <= 'z'
		upper := toUpper(lastCmd)

		switch upper {
		case 'M':
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				x, y = cur.x+x, cur.y+y
			}
			cur = point{x, y}
			subpathStart = cur
			cmds = append(cmds, Command{Kind: MoveTo, X: x, Y: y})
			// Subsequent pairs without a new command letter become
			// implicit LineTo (spec.md §4.3).
			lastCmd = withRel('L', rel)

		case 'L':
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				x, y = cur.x+x, cur.y+y
			}
			cur = point{x, y}
			cmds = append(cmds, Command{Kind: LineTo, X: x, Y: y})

		case 'H':
			x, _ := sc.readNumber()
			if rel {
				x = cur.x + x
			}
			cur = point{x, cur.y}
			cmds = append(cmds, Command{Kind: LineTo, X: x, Y: cur.y})

		case 'V':
			y, _ := sc.readNumber()
			if rel {
				y = cur.y + y
			}
			cur = point{cur.x, y}
			cmds = append(cmds, Command{Kind: LineTo, X: cur.x, Y: y})

		case 'C':
			c1x, _ := sc.readNumber()
			c1y, _ := sc.readNumber()
			c2x, _ := sc.readNumber()
			c2y, _ := sc.readNumber()
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				c1x, c1y = cur.x+c1x, cur.y+c1y
				c2x, c2y = cur.x+c2x, cur.y+c2y
				x, y = cur.x+x, cur.y+y
			}
			cur = point{x, y}
			cmds = append(cmds, Command{Kind: CubicTo, C1X: c1x, C1Y: c1y, C2X: c2x, C2Y: c2y, X: x, Y: y})

		case 'S':
			c2x, _ := sc.readNumber()
			c2y, _ := sc.readNumber()
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				c2x, c2y = cur.x+c2x, cur.y+c2y
				x, y = cur.x+x, cur.y+y
			}
			c1x, c1y := reflectedControl(cmds, cur)
			cur = point{x, y}
			cmds = append(cmds, Command{Kind: CubicTo, C1X: c1x, C1Y: c1y, C2X: c2x, C2Y: c2y, X: x, Y: y})

		case 'Q':
			cx, _ := sc.readNumber()
			cy, _ := sc.readNumber()
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				cx, cy = cur.x+cx, cur.y+cy
				x, y = cur.x+x, cur.y+y
			}
			cur = point{x, y}
			cmds = append(cmds, Command{Kind: QuadTo, CX: cx, CY: cy, X: x, Y: y})

		case 'T':
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				x, y = cur.x+x, cur.y+y
			}
			cx, cy := reflectedQuadControl(cmds, cur)
			cur = point{x, y}
			cmds = append(cmds, Command{Kind: QuadTo, CX: cx, CY: cy, X: x, Y: y})

		case 'A':
			rx, _ := sc.readNumber()
			ry, _ := sc.readNumber()
			xrot, _ := sc.readNumber()
			large, _ := sc.readFlag()
			sweep, _ := sc.readFlag()
			x, _ := sc.readNumber()
			y, _ := sc.readNumber()
			if rel {
				x, y = cur.x+x, cur.y+y
			}
			cur = point{x, y}
			cmds = append(cmds, Command{Kind: ArcTo, RX: rx, RY: ry, XRot: xrot, LargeArc: large, Sweep: sweep, X: x, Y: y})

		case 'Z':
			cur = subpathStart
			cmds = append(cmds, Command{Kind: Close})

		default:
			// Unknown command letter: stop, per the tokenizer's contract
			// of recovering locally rather than producing garbage.
			return cmds
		}
	}

	return cmds
}

type point struct{ x, y float64 }

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func withRel(upper byte, rel bool) byte {
	if rel {
		return upper - 'A' + 'a'
	}
	return upper
}

// reflectedControl computes the implicit first control point for a
// smooth cubic ('S'/'s'): the reflection of the previous command's
// second control point about the current point, or the current point
// itself if the previous command was not a cubic.
func reflectedControl(cmds []Command, cur point) (float64, float64) {
	if len(cmds) == 0 {
		return cur.x, cur.y
	}
	prev := cmds[len(cmds)-1]
	if prev.Kind != CubicTo {
		return cur.x, cur.y
	}
	return 2*cur.x - prev.C2X, 2*cur.y - prev.C2Y
}

// reflectedQuadControl is the 'T' analogue of reflectedControl.
func reflectedQuadControl(cmds []Command, cur point) (float64, float64) {
	if len(cmds) == 0 {
		return cur.x, cur.y
	}
	prev := cmds[len(cmds)-1]
	if prev.Kind != QuadTo {
		return cur.x, cur.y
	}
	return 2*cur.x - prev.CX, 2*cur.y - prev.CY
}
