package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sw33tLie/scoutqr/pkg/schema"
)

var ErrDelimiterInValue = errors.New("value contains the record delimiter")

// MissingFieldsError lists the required inputs that were empty.
type MissingFieldsError struct {
	Fields []schema.Field
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Sources(), ", "))
}

func (e *MissingFieldsError) Sources() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Source
	}
	return out
}

// Validate checks the required fields of reg against s. It returns a
// *MissingFieldsError naming every empty one, or nil.
func Validate(reg *schema.Registry, s Snapshot) error {
	var missing []schema.Field
	for _, f := range reg.Required() {
		if strings.TrimSpace(s[f.Source]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// DelimiterError lists the fields whose encoded value contains the record
// delimiter. Such a record cannot be split back into the right fields.
type DelimiterError struct {
	Delimiter string
	Fields    []schema.Field
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("fields must not contain %q: %s", e.Delimiter, strings.Join(e.Sources(), ", "))
}

func (e *DelimiterError) Unwrap() error { return ErrDelimiterInValue }

func (e *DelimiterError) Sources() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Source
	}
	return out
}

// Validate checks that s can be encoded and decoded again: every required
// field is filled (*MissingFieldsError) and no encoded value contains the
// delimiter (*DelimiterError).
func (e *Encoder) Validate(s Snapshot) error {
	if err := Validate(e.reg, s); err != nil {
		return err
	}
	var bad []schema.Field
	for _, f := range e.reg.Fields() {
		if strings.Contains(e.value(f, s[f.Source]), e.delimiter) {
			bad = append(bad, f)
		}
	}
	if len(bad) > 0 {
		return &DelimiterError{Delimiter: e.delimiter, Fields: bad}
	}
	return nil
}
