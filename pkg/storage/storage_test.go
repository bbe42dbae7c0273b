package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/scoutqr/pkg/tba"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "scoutqr.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveRecordIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rec := Record{Raw: "si=AB;mn=5", Event: "2025ctwat", MatchKey: "2025ctwat_qm5", Team: "177", Scouter: "AB"}
	added, err := db.SaveRecord(ctx, rec)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = db.SaveRecord(ctx, rec)
	require.NoError(t, err)
	assert.False(t, added, "same payload twice is stored once")

	removed, err := db.DeleteRecord(ctx, "si=AB;mn=5")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = db.DeleteRecord(ctx, "si=AB;mn=5")
	require.NoError(t, err)
	assert.False(t, removed)
	added, err = db.SaveRecord(ctx, rec)
	require.NoError(t, err)
	assert.True(t, added, "a removed payload can be collected again")

	_, err = db.SaveRecord(ctx, Record{Raw: "  "})
	assert.ErrorIs(t, err, ErrEmptyRecord)

	recs, err := db.ListRecords(ctx, ListOptions{Event: "2025ctwat"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "177", recs[0].Team)
	assert.NotEmpty(t, recs[0].ID)
	assert.WithinDuration(t, time.Now(), recs[0].ScannedAt, time.Minute)
}

func TestListRecordsFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, r := range []Record{
		{Raw: "a", Event: "e1", MatchKey: "e1_qm1", Team: "1", ScannedAt: base},
		{Raw: "b", Event: "e1", MatchKey: "e1_qm2", Team: "2", ScannedAt: base.Add(time.Hour)},
		{Raw: "c", Event: "e2", MatchKey: "e2_qm1", Team: "1", ScannedAt: base.Add(2 * time.Hour)},
	} {
		_, err := db.SaveRecord(ctx, r)
		require.NoError(t, err, "record %d", i)
	}

	recs, err := db.ListRecords(ctx, ListOptions{Team: "1"})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = db.ListRecords(ctx, ListOptions{Since: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].Raw)

	recs, err = db.ListRecords(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	n, err := db.CountRecords(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = db.CountRecords(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, EventStats{Event: "e1", RecordCount: 2, MatchCount: 2, TeamCount: 2}, stats[0])
}

func TestScheduleRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	teams, matches, err := db.LoadSchedule(ctx, "2025ctwat")
	require.NoError(t, err)
	assert.Empty(t, teams)
	assert.Empty(t, matches)

	require.NoError(t, db.SaveSchedule(ctx, "2025ctwat",
		[]tba.Team{{Key: "frc177", Number: 177, Nickname: "Bobcat Robotics"}, {Key: "frc1", Number: 1}},
		[]tba.Match{{Key: "2025ctwat_qm1", CompLevel: "qm", MatchNumber: 1, Red: []string{"frc1", "frc2", "frc3"}, Blue: []string{"frc4", "frc5", "frc6"}}},
	))

	teams, matches, err = db.LoadSchedule(ctx, "2025ctwat")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, 1, teams[0].Number)
	assert.Equal(t, "Bobcat Robotics", teams[1].Nickname)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"frc4", "frc5", "frc6"}, matches[0].Blue)

	// An empty roster leaves the stored roster alone.
	require.NoError(t, db.SaveSchedule(ctx, "2025ctwat", nil, []tba.Match{{Key: "2025ctwat_qm2", CompLevel: "qm", MatchNumber: 2}}))
	teams, matches, err = db.LoadSchedule(ctx, "2025ctwat")
	require.NoError(t, err)
	assert.Len(t, teams, 2)
	require.Len(t, matches, 1)
	assert.Equal(t, "2025ctwat_qm2", matches[0].Key)
	assert.Nil(t, matches[0].Red)
}

func TestSplitScans(t *testing.T) {
	got := SplitScans("\ufeffsi=AB;mn=1\r\n\n  si=CD;mn=2  \n")
	assert.Equal(t, []string{"si=AB;mn=1", "si=CD;mn=2"}, got)
}
