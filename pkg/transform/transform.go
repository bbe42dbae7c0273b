// Package transform maps form labels to the short tokens used in encoded
// records. Unknown input always passes through unchanged.
package transform

import (
	"strings"
)

const (
	Robot          = "robot"
	PickupLocation = "pickupLocation"
	CagePosition   = "cagePosition"
	MatchType      = "matchType"
	EndPosition    = "endPosition"
	CardStatus     = "cardStatus"
	Boolean        = "boolean"
)

// table is a label -> token mapping. foldCase tables match labels
// case-insensitively.
type table struct {
	pairs    [][2]string
	foldCase bool

	forward map[string]string
	reverse map[string]string
}

var tables = map[string]*table{
	PickupLocation: {
		pairs:    [][2]string{{"none", "n"}, {"ground", "g"}, {"human player", "hp"}, {"both", "b"}},
		foldCase: true,
	},
	CagePosition: {
		pairs:    [][2]string{{"shallow", "s"}, {"deep", "d"}},
		foldCase: true,
	},
	MatchType: {
		pairs: [][2]string{{"qm", "q"}, {"qf", "p"}, {"f", "f"}},
	},
	EndPosition: {
		pairs: [][2]string{
			{"Not Parked", "np"},
			{"Parked", "p"},
			{"Shallow Climb", "sc"},
			{"Deep Climb", "dc"},
			{"Failed Climb", "fc"},
		},
	},
	CardStatus: {
		pairs: [][2]string{{"No Card", "nc"}, {"Yellow Card", "yc"}, {"Red Card", "rc"}},
	},
}

func init() {
	for _, t := range tables {
		t.forward = make(map[string]string, len(t.pairs))
		t.reverse = make(map[string]string, len(t.pairs))
		for _, p := range t.pairs {
			t.forward[t.key(p[0])] = p[1]
			t.reverse[p[1]] = p[0]
		}
	}
}

func (t *table) key(s string) string {
	if t.foldCase {
		return strings.ToLower(s)
	}
	return s
}

// Known reports whether name is a registered transform.
func Known(name string) bool {
	if name == Robot || name == Boolean {
		return true
	}
	_, ok := tables[name]
	return ok
}

// Apply runs the named transform over value. An empty or unknown name, or a
// value the transform does not recognize, returns value as is.
func Apply(name, value string) string {
	switch name {
	case "":
		return value
	case Robot:
		return robot(value)
	case Boolean:
		if b, ok := ParseBool(value); ok {
			return FormatBool(b)
		}
		return value
	}
	t, ok := tables[name]
	if !ok {
		return value
	}
	if out, ok := t.forward[t.key(value)]; ok {
		return out
	}
	return value
}

// Expand is the inverse of Apply for display purposes. Tokens that do not
// belong to the transform are returned unchanged.
func Expand(name, token string) string {
	switch name {
	case Robot:
		if len(token) < 2 {
			return token
		}
		switch token[0] {
		case 'r':
			return "Red " + token[1:]
		case 'b':
			return "Blue " + token[1:]
		}
		return token
	case Boolean:
		switch token {
		case "t":
			return "true"
		case "f":
			return "false"
		}
		return token
	}
	t, ok := tables[name]
	if !ok {
		return token
	}
	if label, ok := t.reverse[token]; ok {
		if t.foldCase {
			return titleCase(label)
		}
		return label
	}
	return token
}

func robot(value string) string {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "red "):
		return "r" + value[len("red "):]
	case strings.HasPrefix(lower, "blue "):
		return "b" + value[len("blue "):]
	}
	return value
}

// ParseBool accepts the checkbox states a form or a hand-written snapshot
// may carry.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "on", "yes", "checked":
		return true, true
	case "f", "false", "0", "off", "no", "unchecked", "":
		return false, true
	}
	return false, false
}

func FormatBool(b bool) string {
	if b {
		return "t"
	}
	return "f"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
