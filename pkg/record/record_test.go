package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/scoutqr/pkg/schema"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		"scouterInitials":  "AB",
		"robotNumber":      "Red 2",
		"matchType":        "qm",
		"matchNumber":      "5",
		"startingPosition": "(100,50) on 1200×600",
		"noShow":           "false",
		"comments":         "ok",
	}
}

func TestEncodeEndToEnd(t *testing.T) {
	enc := NewEncoder(schema.Default())
	out := enc.Encode(sampleSnapshot())

	tokens := strings.Split(out, ";")
	for _, want := range []string{"si=AB", "rb=r2", "mt=q", "mn=5", "sp=1", "ns=f", "cm=ok"} {
		assert.Contains(t, tokens, want)
	}
	assert.Contains(t, tokens, "tn=")
	assert.Contains(t, tokens, "ma=f", "unset checkboxes encode as unchecked")
	assert.False(t, strings.HasSuffix(out, ";"))
}

func TestEncodeTokenCount(t *testing.T) {
	reg := schema.Default()
	for _, delim := range []string{";", "|"} {
		enc := NewEncoder(reg, WithDelimiter(delim))
		for _, s := range []Snapshot{{}, sampleSnapshot()} {
			out := enc.Encode(s)
			require.Equal(t, reg.Len()-1, strings.Count(out, delim), "delimiter %q", delim)
			tokens := strings.Split(out, delim)
			require.Len(t, tokens, reg.Len())
			for i, code := range reg.Codes() {
				assert.True(t, strings.HasPrefix(tokens[i], code+"="), "token %d = %q", i, tokens[i])
			}
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	enc := NewEncoder(schema.Default())
	s := sampleSnapshot()
	first := enc.Encode(s)
	enc.Encode(Snapshot{"comments": "something else"})
	assert.Equal(t, first, enc.Encode(s))
	assert.Equal(t, "Red 2", s["robotNumber"], "snapshot must not be modified")
}

func TestEncodePassesThroughUnknownLabels(t *testing.T) {
	enc := NewEncoder(schema.Default())
	s := sampleSnapshot()
	s["pickupLocation"] = "Unknown"
	s["robotNumber"] = "r1"
	out := enc.Encode(s)
	assert.Contains(t, out, ";pl=Unknown;")
	assert.Contains(t, out, ";rb=r1;")
}

func TestEncodeMalformedPosition(t *testing.T) {
	enc := NewEncoder(schema.Default())
	s := sampleSnapshot()
	s["startingPosition"] = "[not json"
	assert.Contains(t, enc.Encode(s), ";sp=;")
}

func TestEncodeUsesDefaultDiagram(t *testing.T) {
	reg := schema.MustNew([]schema.Field{{Code: "sp", Source: "pos", Kind: schema.KindPosition}})
	enc := NewEncoder(reg)
	assert.Equal(t, "sp=72", enc.Encode(Snapshot{"pos": `["1199,599"]`}))
}

func TestValidate(t *testing.T) {
	reg := schema.Default()
	require.NoError(t, Validate(reg, sampleSnapshot()))

	s := sampleSnapshot()
	s["comments"] = "   "
	delete(s, "startingPosition")
	err := Validate(reg, s)

	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"startingPosition", "comments"}, missing.Sources())
	assert.Contains(t, err.Error(), "startingPosition")
}

func TestEncoderValidateRejectsDelimiterInValues(t *testing.T) {
	reg := schema.Default()
	for _, delim := range []string{";", "|"} {
		enc := NewEncoder(reg, WithDelimiter(delim))

		s := sampleSnapshot()
		s["scouterInitials"] = "A" + delim + "mn=9"
		s["comments"] = "fast" + delim + " good driver"
		err := enc.Validate(s)

		var bad *DelimiterError
		require.True(t, errors.As(err, &bad), "delimiter %q: %v", delim, err)
		assert.ErrorIs(t, err, ErrDelimiterInValue)
		assert.Equal(t, []string{"scouterInitials", "comments"}, bad.Sources())
	}

	// Missing fields are reported first.
	enc := NewEncoder(reg)
	s := sampleSnapshot()
	s["comments"] = ""
	s["pickupLocation"] = "a;b"
	var missing *MissingFieldsError
	assert.True(t, errors.As(enc.Validate(s), &missing))
}

func TestValidatedRecordsKeepTokenCountAndRoundTrip(t *testing.T) {
	reg := schema.Default()
	for _, delim := range []string{";", "|"} {
		enc := NewEncoder(reg, WithDelimiter(delim))
		dec := NewDecoder(reg, delim)

		s := sampleSnapshot()
		s["comments"] = "mn=9, fast (good driver)"
		s["teamNumber"] = "177"
		require.NoError(t, enc.Validate(s))

		out := enc.Encode(s)
		require.Equal(t, reg.Len()-1, strings.Count(out, delim), "delimiter %q", delim)

		row, err := dec.Decode(out)
		require.NoError(t, err)
		m := row.Map()
		assert.Equal(t, "AB", m["si"])
		assert.Equal(t, "5", m["mn"])
		assert.Equal(t, "177", m["tn"])
		assert.Equal(t, "mn=9, fast (good driver)", m["cm"])
	}
}

func TestSnapshotFromAny(t *testing.T) {
	got := SnapshotFromAny(map[string]interface{}{
		"scouterInitials": "AB",
		"matchNumber":     float64(5),
		"coralL1Auto":     3,
		"noShow":          false,
		"movedAuto":       true,
		"comments":        nil,
		"ratio":           2.5,
	})
	assert.Equal(t, Snapshot{
		"scouterInitials": "AB",
		"matchNumber":     "5",
		"coralL1Auto":     "3",
		"noShow":          "false",
		"movedAuto":       "true",
		"comments":        "",
		"ratio":           "2.5",
	}, got)
	assert.Empty(t, SnapshotFromAny(nil))
}

func TestDecodeRoundTrip(t *testing.T) {
	reg := schema.Default()
	enc := NewEncoder(reg)
	dec := NewDecoder(reg, ";")

	s := sampleSnapshot()
	s["comments"] = "fast; good driver"
	s["endPosition"] = "Deep Climb"

	row, err := dec.Decode(enc.Encode(s))
	require.NoError(t, err)
	require.Len(t, row.Values, reg.Len())

	m := row.Map()
	assert.Equal(t, "AB", m["si"])
	assert.Equal(t, "r2", m["rb"])
	assert.Equal(t, "1", m["sp"])
	assert.Equal(t, "dc", m["ep"])
	assert.Equal(t, "fast; good driver", m["cm"])

	v, ok := row.Get("tn")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestDecodeMalformed(t *testing.T) {
	dec := NewDecoder(schema.Default(), ";")
	for _, in := range []string{"", "mn=5;si=AB", "si=AB;mn=5"} {
		_, err := dec.Decode(in)
		assert.ErrorIs(t, err, ErrMalformedRecord, "input %q", in)
	}
}

func TestDecodeExpand(t *testing.T) {
	reg := schema.Default()
	dec := NewDecoder(reg, ";")
	row, err := dec.Decode(NewEncoder(reg).Encode(sampleSnapshot()))
	require.NoError(t, err)

	m := dec.Expand(row).Map()
	assert.Equal(t, "Red 2", m["rb"])
	assert.Equal(t, "qm", m["mt"])
	assert.Equal(t, "false", m["ns"])
}

func TestColumns(t *testing.T) {
	cols := Columns(schema.Default(), ",")
	assert.True(t, strings.HasPrefix(cols, "si,mn,mt,rb,tn,sp,ns,cp,"))
	assert.True(t, strings.HasSuffix(cols, ",ep,def,ofs,dfs,cs,cm"))
}
