package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSchema(t *testing.T) {
	r := Default()
	if r.Len() != 36 {
		t.Fatalf("expected 36 fields, got %d", r.Len())
	}
	codes := r.Codes()
	if codes[0] != "si" || codes[len(codes)-1] != "cm" {
		t.Fatalf("unexpected order: first=%s last=%s", codes[0], codes[len(codes)-1])
	}

	var required []string
	for _, f := range r.Required() {
		required = append(required, f.Source)
	}
	want := []string{ScouterInitials, RobotNumber, StartingPosition, Comments}
	if len(required) != len(want) {
		t.Fatalf("required fields: want %v, got %v", want, required)
	}
	for i := range want {
		if required[i] != want[i] {
			t.Fatalf("required fields: want %v, got %v", want, required)
		}
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   error
	}{
		{
			name:   "duplicate code",
			fields: []Field{{Code: "a", Source: "x"}, {Code: "a", Source: "y"}},
			want:   ErrDuplicateCode,
		},
		{
			name:   "duplicate source",
			fields: []Field{{Code: "a", Source: "x"}, {Code: "b", Source: "x"}},
			want:   ErrDuplicateSource,
		},
		{
			name:   "empty code",
			fields: []Field{{Code: " ", Source: "x"}},
			want:   ErrEmptyField,
		},
		{
			name:   "bad kind",
			fields: []Field{{Code: "a", Source: "x", Kind: "slider"}},
			want:   ErrUnknownKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFieldsIsACopy(t *testing.T) {
	r := MustNew([]Field{{Code: "a", Source: "x"}})
	fs := r.Fields()
	fs[0].Code = "changed"
	if f, _ := r.ByCode("a"); f.Code != "a" {
		t.Fatalf("registry mutated through Fields(): %+v", f)
	}
	if f, ok := r.BySource("x"); !ok || f.Kind != KindText {
		t.Fatalf("expected default text kind, got %+v", f)
	}
}

func TestLoadRoundTripsDefault(t *testing.T) {
	data, err := Default().WriteYAML()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != Default().Len() {
		t.Fatalf("expected %d fields, got %d", Default().Len(), r.Len())
	}
	f, ok := r.ByCode("rb")
	if !ok || f.Transform != "robot" || !f.Required || len(f.Options) != 6 {
		t.Fatalf("rb field not preserved: %+v", f)
	}
}

func TestLoadRejectsDuplicateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	body := "fields:\n  - {code: si, source: a}\n  - {code: si, source: b}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}
