// Package collect turns scanned QR payloads into stored records.
package collect

import (
	"context"
	"fmt"

	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/storage"
	"github.com/sw33tLie/scoutqr/pkg/tba"
	"github.com/sw33tLie/scoutqr/pkg/transform"
)

type Collector struct {
	db    *storage.DB
	dec   *record.Decoder
	event string
}

func New(db *storage.DB, dec *record.Decoder, event string) *Collector {
	return &Collector{db: db, dec: dec, event: event}
}

// Parse decodes raw and fills in the columns a record is indexed by.
func (c *Collector) Parse(raw string) (storage.Record, record.Row, error) {
	raw = storage.NormalizeRaw(raw)
	row, err := c.dec.Decode(raw)
	if err != nil {
		return storage.Record{}, record.Row{}, err
	}
	m := row.Map()
	mt := transform.Expand(transform.MatchType, m["mt"])
	return storage.Record{
		Raw:      raw,
		Event:    c.event,
		MatchKey: tba.MatchKey(c.event, mt, m["mn"]),
		Team:     m["tn"],
		Scouter:  m["si"],
	}, row, nil
}

// Add parses and stores one payload. added is false for a payload that was
// already collected.
func (c *Collector) Add(ctx context.Context, raw string) (storage.Record, bool, error) {
	rec, _, err := c.Parse(raw)
	if err != nil {
		return storage.Record{}, false, err
	}
	added, err := c.Save(ctx, rec)
	return rec, added, err
}

// Save stores a record returned by Parse.
func (c *Collector) Save(ctx context.Context, rec storage.Record) (bool, error) {
	added, err := c.db.SaveRecord(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("save record: %w", err)
	}
	return added, nil
}
