// Package position maps a pointer tap on the field diagram to a cell of a
// fixed grid laid over it.
package position

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultColumns = 12
	DefaultRows    = 6
)

var ErrMalformedPoint = errors.New("malformed position")

// Grid is a cols x rows partition of the diagram. Cells are numbered from 1,
// left to right then top to bottom.
type Grid struct {
	Columns int
	Rows    int
}

func DefaultGrid() Grid { return Grid{Columns: DefaultColumns, Rows: DefaultRows} }

// Size is the rendered size of the diagram when a point was captured.
type Size struct {
	Width  float64
	Height float64
}

// Point is a captured tap together with the diagram size it was captured on.
type Point struct {
	X, Y float64
	Size Size
}

// Cell returns the 1-based cell index for p. Column and row are clamped to
// the grid so a tap on the top or left edge lands in the first cell rather
// than column 0.
func (g Grid) Cell(p Point) (int, error) {
	if g.Columns <= 0 || g.Rows <= 0 {
		return 0, fmt.Errorf("%w: grid %dx%d", ErrMalformedPoint, g.Columns, g.Rows)
	}
	cw := p.Size.Width / float64(g.Columns)
	ch := p.Size.Height / float64(g.Rows)
	if !finitePositive(cw) || !finitePositive(ch) {
		return 0, fmt.Errorf("%w: diagram size %vx%v", ErrMalformedPoint, p.Size.Width, p.Size.Height)
	}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return 0, fmt.Errorf("%w: point %v,%v", ErrMalformedPoint, p.X, p.Y)
	}

	// Clamp before converting: a huge quotient does not fit in an int.
	col := int(clampFloat(math.Ceil(p.X/cw), 1, float64(g.Columns)))
	row := int(clampFloat(math.Ceil(p.Y/ch), 1, float64(g.Rows)))
	return col + (row-1)*g.Columns, nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// CellToken is Cell as it appears in a record: the decimal index, or "" when
// the point cannot be mapped.
func (g Grid) CellToken(raw string, def Size) string {
	p, err := Parse(raw, def)
	if err != nil {
		return ""
	}
	cell, err := g.Cell(p)
	if err != nil {
		return ""
	}
	return strconv.Itoa(cell)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// String renders p in the canonical "x,y@WxH" form Parse reads back.
func (p Point) String() string {
	return fmt.Sprintf("%s,%s@%sx%s", ftoa(p.X), ftoa(p.Y), ftoa(p.Size.Width), ftoa(p.Size.Height))
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

var prosePoint = regexp.MustCompile(`^\(\s*([^,()]+)\s*,\s*([^,()]+)\s*\)\s*on\s*([0-9.]+)\s*[x×X]\s*([0-9.]+)$`)

// Parse reads a stored point. Accepted forms:
//
//	x,y@WxH
//	["x,y"]@WxH     (the hidden-input form, plus the diagram size)
//	(x,y) on WxH
//	x,y  or  ["x,y"] (sized with def)
func Parse(raw string, def Size) (Point, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Point{}, fmt.Errorf("%w: empty", ErrMalformedPoint)
	}

	if m := prosePoint.FindStringSubmatch(raw); m != nil {
		return build(m[1], m[2], m[3], m[4])
	}

	coords, size := raw, ""
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		coords, size = raw[:i], raw[i+1:]
	}

	coords = strings.TrimSpace(coords)
	if strings.HasPrefix(coords, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(coords), &arr); err != nil {
			return Point{}, fmt.Errorf("%w: %v", ErrMalformedPoint, err)
		}
		if len(arr) == 0 {
			return Point{}, fmt.Errorf("%w: no coordinates", ErrMalformedPoint)
		}
		coords = arr[0]
	}

	x, y, ok := strings.Cut(coords, ",")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrMalformedPoint, raw)
	}

	if size == "" {
		p, err := build(x, y, "0", "0")
		p.Size = def
		return p, err
	}
	w, h, ok := cutSize(size)
	if !ok {
		return Point{}, fmt.Errorf("%w: size %q", ErrMalformedPoint, size)
	}
	return build(x, y, w, h)
}

func cutSize(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{"x", "×", "X"} {
		if w, h, ok := strings.Cut(s, sep); ok {
			return w, h, true
		}
	}
	return "", "", false
}

func build(xs, ys, ws, hs string) (Point, error) {
	var vals [4]float64
	for i, s := range []string{xs, ys, ws, hs} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Point{}, fmt.Errorf("%w: %v", ErrMalformedPoint, err)
		}
		vals[i] = v
	}
	return Point{X: vals[0], Y: vals[1], Size: Size{Width: vals[2], Height: vals[3]}}, nil
}
