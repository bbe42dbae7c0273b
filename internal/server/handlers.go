package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/qr"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Debugf("write response: %v", err)
	}
}

type EncodeResponse struct {
	Record  string   `json:"record,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// handleEncode takes a form snapshot keyed by field source. Values may be
// strings, booleans or numbers. An empty team
// number is auto-filled from the schedule when a session is configured.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap := record.SnapshotFromAny(raw)

	if s.Session != nil && snap[schema.TeamNumber] == "" {
		if team, ok := s.Session.ResolveTeam(r.Context(), snap[schema.MatchType], snap[schema.MatchNumber], snap[schema.RobotNumber]); ok {
			snap[schema.TeamNumber] = team
		}
	}

	if err := s.Encoder.Validate(snap); err != nil {
		var missing *record.MissingFieldsError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusUnprocessableEntity, EncodeResponse{Missing: missing.Sources(), Error: err.Error()})
			return
		}
		var bad *record.DelimiterError
		if errors.As(err, &bad) {
			writeJSON(w, http.StatusUnprocessableEntity, EncodeResponse{Invalid: bad.Sources(), Error: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, EncodeResponse{Record: s.Encoder.Encode(snap)})
}

type DecodeRequest struct {
	Record string `json:"record"`
}

type DecodedField struct {
	Code   string `json:"code"`
	Source string `json:"source"`
	Value  string `json:"value"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	row, err := s.Decoder.Decode(storage.NormalizeRaw(req.Record))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("expand") == "true" {
		row = s.Decoder.Expand(row)
	}

	reg := s.Encoder.Registry()
	out := make([]DecodedField, len(row.Codes))
	for i, code := range row.Codes {
		out[i] = DecodedField{Code: code, Value: row.Values[i]}
		if f, ok := reg.ByCode(code); ok {
			out[i].Source = f.Source
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := q.Get("data")
	if data == "" {
		http.Error(w, qr.ErrEmpty.Error(), http.StatusBadRequest)
		return
	}
	size := s.QRSize
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < qr.MinSize {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
		size = n
	}

	png, err := qr.PNG(data, size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	sep := r.URL.Query().Get("sep")
	if sep == "" {
		sep = "\t"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(record.Columns(s.Encoder.Registry(), sep) + "\n"))
}

type TeamResponse struct {
	Team  string `json:"team"`
	Found bool   `json:"found"`
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	if s.Session == nil {
		http.Error(w, "no event schedule configured", http.StatusServiceUnavailable)
		return
	}
	q := r.URL.Query()
	team, ok := s.Session.ResolveTeam(r.Context(), q.Get("match_type"), q.Get("match_number"), q.Get("robot"))
	writeJSON(w, http.StatusOK, TeamResponse{Team: team, Found: ok})
}

type AddRecordRequest struct {
	Record string `json:"record"`
}

type AddRecordResponse struct {
	Added  bool           `json:"added"`
	Record storage.Record `json:"record"`
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}
	var req AddRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, added, err := s.collector().Add(r.Context(), req.Record)
	if err != nil {
		if errors.Is(err, record.ErrMalformedRecord) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, AddRecordResponse{Added: added, Record: rec})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}
	q := r.URL.Query()
	opts := storage.ListOptions{
		Event: q.Get("event"),
		Team:  q.Get("team"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		opts.Limit = n
	}

	recs, err := s.DB.ListRecords(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = []storage.EventStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}
