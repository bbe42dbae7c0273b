// Package form keeps the live state of one scouting form between encodes.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sw33tLie/scoutqr/pkg/position"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/stopwatch"
	"github.com/sw33tLie/scoutqr/pkg/transform"
)

// Retained across Reset so a scout can move to the next match quickly.
var retained = map[string]bool{
	schema.ScouterInitials: true,
	schema.RobotNumber:     true,
	schema.MatchType:       true,
	schema.TeamNumber:      true,
}

type Form struct {
	reg    *schema.Registry
	values map[string]string
	point  *position.Point
}

// New returns a form with every field at its reset value.
func New(reg *schema.Registry) *Form {
	f := &Form{reg: reg, values: make(map[string]string, reg.Len())}
	for _, fd := range reg.Fields() {
		f.values[fd.Source] = blank(fd)
	}
	return f
}

func blank(fd schema.Field) string {
	if fd.Source == schema.TimeToScoreCoral {
		return stopwatch.Seconds(0)
	}
	switch fd.Kind {
	case schema.KindCheckbox:
		return transform.FormatBool(false)
	case schema.KindNumber:
		return "0"
	case schema.KindSelect:
		if len(fd.Options) > 0 {
			return fd.Options[0]
		}
	}
	return ""
}

func (f *Form) field(source string) (schema.Field, error) {
	fd, ok := f.reg.BySource(source)
	if !ok {
		return schema.Field{}, fmt.Errorf("unknown field %q", source)
	}
	return fd, nil
}

// Set stores a raw value. Position fields must go through Capture.
func (f *Form) Set(source, value string) error {
	fd, err := f.field(source)
	if err != nil {
		return err
	}
	if fd.Kind == schema.KindPosition {
		p, err := position.Parse(value, record.DefaultDiagram)
		if err != nil {
			return err
		}
		f.Capture(p)
		return nil
	}
	f.values[source] = value
	return nil
}

func (f *Form) SetChecked(source string, checked bool) error {
	if _, err := f.field(source); err != nil {
		return err
	}
	f.values[source] = transform.FormatBool(checked)
	return nil
}

func (f *Form) Get(source string) string { return f.values[source] }

// Increment adds one to a counter. A non-numeric value counts as 0.
func (f *Form) Increment(source string) (int, error) {
	return f.step(source, 1)
}

// Decrement subtracts one, never going below 0.
func (f *Form) Decrement(source string) (int, error) {
	return f.step(source, -1)
}

func (f *Form) step(source string, delta int) (int, error) {
	if _, err := f.field(source); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(f.values[source]))
	if err != nil {
		n = 0
	}
	if n+delta >= 0 {
		n += delta
	}
	f.values[source] = strconv.Itoa(n)
	return n, nil
}

// Capture replaces the starting position with p.
func (f *Form) Capture(p position.Point) {
	f.point = &p
}

// UndoPosition clears the starting position.
func (f *Form) UndoPosition() {
	f.point = nil
}

func (f *Form) Position() (position.Point, bool) {
	if f.point == nil {
		return position.Point{}, false
	}
	return *f.point, true
}

// Snapshot copies the current values for encoding.
func (f *Form) Snapshot() record.Snapshot {
	s := make(record.Snapshot, len(f.values)+1)
	for k, v := range f.values {
		s[k] = v
	}
	for _, fd := range f.reg.Fields() {
		if fd.Kind != schema.KindPosition {
			continue
		}
		if f.point != nil {
			s[fd.Source] = f.point.String()
		} else {
			s[fd.Source] = ""
		}
	}
	return s
}

// Ready reports whether every required field is filled in.
func (f *Form) Ready() bool {
	return record.Validate(f.reg, f.Snapshot()) == nil
}

// Reset prepares the form for the next match: the match number goes up by
// one, the scout, robot, match type and team are kept, everything else
// returns to its blank value and the position is cleared.
func (f *Form) Reset() {
	for _, fd := range f.reg.Fields() {
		switch {
		case fd.Source == schema.MatchNumber:
			if n, err := strconv.Atoi(strings.TrimSpace(f.values[fd.Source])); err == nil {
				f.values[fd.Source] = strconv.Itoa(n + 1)
			}
		case retained[fd.Source]:
		default:
			f.values[fd.Source] = blank(fd)
		}
	}
	f.point = nil
}
