// Package record encodes a form snapshot into the compact "code=value"
// string carried by the QR code, and decodes such strings back into rows.
package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sw33tLie/scoutqr/pkg/position"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/transform"
)

const DefaultDelimiter = ";"

// DefaultDiagram is the diagram size assumed for points stored without one.
var DefaultDiagram = position.Size{Width: 1200, Height: 600}

// Snapshot is the raw value of every form input, keyed by source id.
type Snapshot map[string]string

// SnapshotFromAny converts decoded JSON or YAML, where checkboxes arrive as
// booleans and counters as numbers, into a Snapshot. null becomes "".
func SnapshotFromAny(raw map[string]interface{}) Snapshot {
	s := make(Snapshot, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			s[k] = ""
		case string:
			s[k] = v
		case bool:
			s[k] = strconv.FormatBool(v)
		case float64:
			s[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			s[k] = fmt.Sprint(v)
		}
	}
	return s
}

// Encoder turns snapshots into records. It holds no state besides its
// configuration and is safe for concurrent use.
type Encoder struct {
	reg       *schema.Registry
	delimiter string
	grid      position.Grid
	diagram   position.Size
}

type Option func(*Encoder)

func WithDelimiter(d string) Option {
	return func(e *Encoder) {
		if d != "" {
			e.delimiter = d
		}
	}
}

func WithGrid(g position.Grid) Option {
	return func(e *Encoder) { e.grid = g }
}

// WithDiagram sets the diagram size used when a stored point has none.
func WithDiagram(s position.Size) Option {
	return func(e *Encoder) { e.diagram = s }
}

func NewEncoder(reg *schema.Registry, opts ...Option) *Encoder {
	e := &Encoder{
		reg:       reg,
		delimiter: DefaultDelimiter,
		grid:      position.DefaultGrid(),
		diagram:   DefaultDiagram,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Encoder) Delimiter() string { return e.delimiter }

func (e *Encoder) Registry() *schema.Registry { return e.reg }

// Encode produces one token per schema field, in schema order. Missing
// inputs encode as empty values.
func (e *Encoder) Encode(s Snapshot) string {
	fields := e.reg.Fields()
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, f.Code+"="+e.value(f, s[f.Source]))
	}
	return strings.Join(pairs, e.delimiter)
}

func (e *Encoder) value(f schema.Field, raw string) string {
	switch f.Kind {
	case schema.KindPosition:
		return e.grid.CellToken(raw, e.diagram)
	case schema.KindCheckbox:
		name := f.Transform
		if name == "" {
			name = transform.Boolean
		}
		return transform.Apply(name, raw)
	}
	return transform.Apply(f.Transform, raw)
}

// Columns is the header row for a spreadsheet of decoded records.
func Columns(reg *schema.Registry, sep string) string {
	return strings.Join(reg.Codes(), sep)
}
