// Package schema holds the ordered list of form fields and the short codes
// they are serialized under.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tells the encoder how to read a field's raw value.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
	KindPosition Kind = "position"
)

var (
	ErrEmptyField      = errors.New("field has an empty code or source id")
	ErrDuplicateCode   = errors.New("duplicate field code")
	ErrDuplicateSource = errors.New("duplicate field source id")
	ErrUnknownKind     = errors.New("unknown field kind")
)

// Field describes one form input and the short code it is encoded as.
type Field struct {
	Code      string   `yaml:"code"`
	Source    string   `yaml:"source"`
	Kind      Kind     `yaml:"kind"`
	Transform string   `yaml:"transform,omitempty"`
	Required  bool     `yaml:"required,omitempty"`
	Options   []string `yaml:"options,omitempty"`
}

// Registry is an immutable, validated field list. The encoded field order is
// the registry order.
type Registry struct {
	fields   []Field
	byCode   map[string]int
	bySource map[string]int
}

// New validates fields and returns a frozen registry. Duplicate codes or
// source ids are rejected.
func New(fields []Field) (*Registry, error) {
	r := &Registry{
		fields:   make([]Field, 0, len(fields)),
		byCode:   make(map[string]int, len(fields)),
		bySource: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		f.Code = strings.TrimSpace(f.Code)
		f.Source = strings.TrimSpace(f.Source)
		if f.Code == "" || f.Source == "" {
			return nil, fmt.Errorf("field %d: %w", i, ErrEmptyField)
		}
		if f.Kind == "" {
			f.Kind = KindText
		}
		switch f.Kind {
		case KindText, KindNumber, KindCheckbox, KindSelect, KindPosition:
		default:
			return nil, fmt.Errorf("field %q: %w %q", f.Code, ErrUnknownKind, f.Kind)
		}
		if _, ok := r.byCode[f.Code]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicateCode, f.Code)
		}
		if _, ok := r.bySource[f.Source]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicateSource, f.Source)
		}
		if len(f.Options) > 0 {
			f.Options = append([]string(nil), f.Options...)
		}
		r.byCode[f.Code] = len(r.fields)
		r.bySource[f.Source] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r, nil
}

// MustNew is New for static schemas; it panics on a bad field list.
func MustNew(fields []Field) *Registry {
	r, err := New(fields)
	if err != nil {
		panic(err)
	}
	return r
}

type schemaFile struct {
	Fields []Field `yaml:"fields"`
}

// Load reads a YAML schema file of the form:
//
//	fields:
//	  - {code: si, source: scouterInitials, required: true}
//	  - {code: ns, source: noShow, kind: checkbox}
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if len(sf.Fields) == 0 {
		return nil, fmt.Errorf("schema %s has no fields", path)
	}
	return New(sf.Fields)
}

// Fields returns a copy of the ordered field list.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r *Registry) Len() int { return len(r.fields) }

// Codes returns the short codes in encoded order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Code
	}
	return out
}

func (r *Registry) ByCode(code string) (Field, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

func (r *Registry) BySource(source string) (Field, bool) {
	i, ok := r.bySource[source]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// Required returns the fields that must be filled before encoding.
func (r *Registry) Required() []Field {
	var out []Field
	for _, f := range r.fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// WriteYAML renders the registry in the format Load reads.
func (r *Registry) WriteYAML() ([]byte, error) {
	return yaml.Marshal(schemaFile{Fields: r.fields})
}
