package tba

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sw33tLie/scoutqr/pkg/whttp"
)

const matchesBody = `[
  {"key":"2025ctwat_qm1","comp_level":"qm","match_number":1,
   "alliances":{"red":{"team_keys":["frc1","frc2","frc3"]},"blue":{"team_keys":["frc4","frc5","frc6"]}}},
  {"key":"2025ctwat_qm2","comp_level":"qm","match_number":2,
   "alliances":{"red":{"team_keys":["frc7","frc8","frc9"]},"blue":{"team_keys":["frc10","frc11","frc12"]}}}
]`

const teamsBody = `[{"key":"frc1","team_number":1,"nickname":"The Juggernauts"},{"key":"frc177","team_number":177,"nickname":"Bobcat Robotics"}]`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(AUTH_HEADER) != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/event/2025ctwat/matches/simple":
			w.Write([]byte(matchesBody))
		case "/event/2025ctwat/teams/simple":
			w.Write([]byte(teamsBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, key, url string) *Client {
	t.Helper()
	hc, err := whttp.NewClient("", 0, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(key, url, hc)
}

func TestMatches(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(t, "secret", srv.URL)

	matches, err := c.Matches(context.Background(), "2025ctwat")
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	m := matches[1]
	if m.Key != "2025ctwat_qm2" || m.MatchNumber != 2 || m.CompLevel != "qm" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if len(m.Red) != 3 || m.Red[0] != "frc7" || m.Blue[2] != "frc12" {
		t.Fatalf("unexpected alliances: red=%v blue=%v", m.Red, m.Blue)
	}
}

func TestTeams(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(t, "secret", srv.URL)

	teams, err := c.Teams(context.Background(), "2025ctwat")
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if len(teams) != 2 || teams[1].Number != 177 || teams[1].Nickname != "Bobcat Robotics" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)

	if _, err := testClient(t, "", srv.URL).Matches(context.Background(), "2025ctwat"); !errors.Is(err, ErrNoAuthKey) {
		t.Fatalf("expected ErrNoAuthKey, got %v", err)
	}
	if _, err := testClient(t, "wrong", srv.URL).Matches(context.Background(), "2025ctwat"); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus for 401, got %v", err)
	}
	if _, err := testClient(t, "secret", srv.URL).Teams(context.Background(), "nope"); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus for 404, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := MatchKey("2025ctwat", "qm", "5"); got != "2025ctwat_qm5" {
		t.Fatalf("MatchKey = %q", got)
	}
	if got := StripPrefix("frc1234"); got != "1234" {
		t.Fatalf("StripPrefix = %q", got)
	}
	if got := StripPrefix("1234"); got != "1234" {
		t.Fatalf("StripPrefix without prefix = %q", got)
	}
}
