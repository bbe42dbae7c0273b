package transform

import (
	"testing"

	"github.com/sw33tLie/scoutqr/pkg/schema"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{Robot, "Red 2", "r2"},
		{Robot, "blue 3", "b3"},
		{Robot, "BLUE 1", "b1"},
		{Robot, "Green 1", "Green 1"},
		{PickupLocation, "Human Player", "hp"},
		{PickupLocation, "GROUND", "g"},
		{PickupLocation, "none", "n"},
		{PickupLocation, "Both", "b"},
		{PickupLocation, "Unknown", "Unknown"},
		{CagePosition, "Shallow", "s"},
		{CagePosition, "deep", "d"},
		{MatchType, "qm", "q"},
		{MatchType, "qf", "p"},
		{MatchType, "f", "f"},
		{MatchType, "QM", "QM"},
		{EndPosition, "Not Parked", "np"},
		{EndPosition, "Deep Climb", "dc"},
		{EndPosition, "deep climb", "deep climb"},
		{CardStatus, "Yellow Card", "yc"},
		{CardStatus, "Red Card", "rc"},
		{Boolean, "true", "t"},
		{Boolean, "", "f"},
		{Boolean, "maybe", "maybe"},
		{"", "anything", "anything"},
		{"nope", "anything", "anything"},
	}
	for _, tt := range tests {
		if got := Apply(tt.name, tt.in); got != tt.want {
			t.Errorf("Apply(%q, %q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	inputs := map[string][]string{
		Robot:          {"Red 1", "Blue 3", "r1", "b2"},
		PickupLocation: {"None", "Ground", "Human Player", "Both"},
		CagePosition:   {"Shallow", "Deep"},
		MatchType:      {"qm", "qf", "f"},
		EndPosition:    {"Not Parked", "Parked", "Shallow Climb", "Deep Climb", "Failed Climb"},
		CardStatus:     {"No Card", "Yellow Card", "Red Card"},
		Boolean:        {"true", "false"},
	}
	for name, values := range inputs {
		for _, v := range values {
			once := Apply(name, v)
			if twice := Apply(name, once); twice != once {
				t.Errorf("%s: Apply(Apply(%q)) = %q, want %q", name, v, twice, once)
			}
		}
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{Robot, "r2", "Red 2"},
		{Robot, "b1", "Blue 1"},
		{PickupLocation, "hp", "Human Player"},
		{MatchType, "p", "qf"},
		{EndPosition, "sc", "Shallow Climb"},
		{Boolean, "t", "true"},
		{CardStatus, "zz", "zz"},
	}
	for _, tt := range tests {
		if got := Expand(tt.name, tt.in); got != tt.want {
			t.Errorf("Expand(%q, %q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestDefaultSchemaTransformsAreKnown(t *testing.T) {
	for _, f := range schema.Default().Fields() {
		if f.Transform != "" && !Known(f.Transform) {
			t.Errorf("field %s uses unregistered transform %q", f.Code, f.Transform)
		}
	}
}
