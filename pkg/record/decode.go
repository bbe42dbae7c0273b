package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/transform"
)

var ErrMalformedRecord = errors.New("malformed record")

// Row is a decoded record in schema order.
type Row struct {
	Codes  []string
	Values []string
}

func (r Row) Get(code string) (string, bool) {
	for i, c := range r.Codes {
		if c == code {
			return r.Values[i], true
		}
	}
	return "", false
}

func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.Codes))
	for i, c := range r.Codes {
		out[c] = r.Values[i]
	}
	return out
}

type Decoder struct {
	reg       *schema.Registry
	delimiter string
}

func NewDecoder(reg *schema.Registry, delimiter string) *Decoder {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Decoder{reg: reg, delimiter: delimiter}
}

// Decode splits s back into one value per schema field. Fields are located
// by "<delimiter><next code>=" in order, so a free-text value that contains
// the delimiter still decodes.
func (d *Decoder) Decode(s string) (Row, error) {
	s = strings.TrimRight(s, "\r\n")
	codes := d.reg.Codes()
	row := Row{Codes: codes, Values: make([]string, len(codes))}
	if len(codes) == 0 {
		return row, nil
	}

	first := codes[0] + "="
	if !strings.HasPrefix(s, first) {
		return Row{}, fmt.Errorf("%w: expected record to start with %q", ErrMalformedRecord, first)
	}
	pos := len(first)
	for i := range codes {
		if i == len(codes)-1 {
			row.Values[i] = s[pos:]
			break
		}
		marker := d.delimiter + codes[i+1] + "="
		idx := strings.Index(s[pos:], marker)
		if idx < 0 {
			return Row{}, fmt.Errorf("%w: field %q not found after %q", ErrMalformedRecord, codes[i+1], codes[i])
		}
		row.Values[i] = s[pos : pos+idx]
		pos += idx + len(marker)
	}
	return row, nil
}

// Expand replaces short tokens with their form labels, for display.
func (d *Decoder) Expand(r Row) Row {
	out := Row{Codes: r.Codes, Values: make([]string, len(r.Values))}
	for i, c := range r.Codes {
		v := r.Values[i]
		if f, ok := d.reg.ByCode(c); ok {
			name := f.Transform
			if name == "" && f.Kind == schema.KindCheckbox {
				name = transform.Boolean
			}
			v = transform.Expand(name, v)
		}
		out.Values[i] = v
	}
	return out
}
