package position

import (
	"errors"
	"math"
	"testing"
)

var diagram = Size{Width: 1200, Height: 600}

func TestCell(t *testing.T) {
	g := DefaultGrid()
	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"origin clamps to first cell", 0, 0, 1},
		{"bottom right", 1199, 599, 72},
		{"far corner", 1200, 600, 72},
		{"first cell interior", 100, 50, 1},
		{"on first vertical line", 100, 10, 1},
		{"just past first vertical line", 100.5, 10, 2},
		{"second row", 10, 100.01, 13},
		{"left edge second row", 0, 150, 13},
		{"outside is clamped", 5000, -20, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Cell(Point{X: tt.x, Y: tt.y, Size: diagram})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Cell(%v,%v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCellRejectsBadSize(t *testing.T) {
	sizes := []Size{
		{},
		{Width: 5e-324, Height: 5e-324},
		{Width: math.Inf(1), Height: 600},
		{Width: 1200, Height: math.NaN()},
	}
	for _, size := range sizes {
		_, err := DefaultGrid().Cell(Point{X: 1, Y: 1, Size: size})
		if !errors.Is(err, ErrMalformedPoint) {
			t.Errorf("size %v: expected ErrMalformedPoint, got %v", size, err)
		}
	}
}

func TestCellClampsHugeCoordinates(t *testing.T) {
	g := DefaultGrid()
	tests := []struct {
		p    Point
		want int
	}{
		{Point{X: 1e300, Y: 1e300, Size: diagram}, 72},
		{Point{X: -1e300, Y: -1e300, Size: diagram}, 1},
		{Point{X: 1e300, Y: 1, Size: diagram}, 12},
		{Point{X: 1, Y: 1e20, Size: Size{Width: 1200, Height: 1e-200}}, 61},
	}
	for _, tt := range tests {
		got, err := g.Cell(tt.p)
		if err != nil {
			t.Errorf("Cell(%v): %v", tt.p, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Cell(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Point
	}{
		{"100,50@1200x600", Point{X: 100, Y: 50, Size: diagram}},
		{`["100,50"]@1200x600`, Point{X: 100, Y: 50, Size: diagram}},
		{"(100,50) on 1200×600", Point{X: 100, Y: 50, Size: diagram}},
		{"(100, 50) on 1200x600", Point{X: 100, Y: 50, Size: diagram}},
		{`["300,200"]`, Point{X: 300, Y: 200, Size: Size{Width: 640, Height: 320}}},
		{"12.5,7", Point{X: 12.5, Y: 7, Size: Size{Width: 640, Height: 320}}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.raw, Size{Width: 640, Height: 320})
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"", "[]", "[", "abc", "1,2@wide", "x,y@1x1", `["1"]`} {
		if _, err := Parse(raw, diagram); !errors.Is(err, ErrMalformedPoint) {
			t.Errorf("Parse(%q): expected ErrMalformedPoint, got %v", raw, err)
		}
	}
}

func TestCellToken(t *testing.T) {
	g := DefaultGrid()
	if got := g.CellToken("(100,50) on 1200×600", Size{}); got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}
	if got := g.CellToken("garbage", diagram); got != "" {
		t.Fatalf("expected empty token for malformed input, got %q", got)
	}
	if got := g.CellToken("10,10", Size{}); got != "" {
		t.Fatalf("expected empty token without a diagram size, got %q", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	p := Point{X: 10.5, Y: 20, Size: diagram}
	got, err := Parse(p.String(), Size{})
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatalf("round trip: got %+v, want %+v", got, p)
	}
}
