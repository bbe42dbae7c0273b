// Package tba reads event rosters and match schedules from The Blue
// Alliance v3 API.
package tba

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sw33tLie/scoutqr/pkg/whttp"
	"github.com/tidwall/gjson"
)

const (
	TBA_API_ENDPOINT = "https://www.thebluealliance.com/api/v3"
	AUTH_HEADER      = "X-TBA-Auth-Key"
	TEAM_KEY_PREFIX  = "frc"
)

var (
	ErrNoAuthKey = errors.New("no TBA auth key configured")
	ErrBadStatus = errors.New("unexpected TBA response status")
)

type Team struct {
	Key      string
	Number   int
	Nickname string
}

// Match is one scheduled match. Red and Blue hold team keys in driver
// station order.
type Match struct {
	Key         string
	CompLevel   string
	MatchNumber int
	Red         []string
	Blue        []string
}

type Client struct {
	authKey string
	baseURL string
	http    *retryablehttp.Client
}

// NewClient builds a client. An empty baseURL means the public API; a nil
// httpClient gets the whttp default.
func NewClient(authKey, baseURL string, httpClient *retryablehttp.Client) *Client {
	if baseURL == "" {
		baseURL = TBA_API_ENDPOINT
	}
	return &Client{
		authKey: authKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	if c.authKey == "" {
		return "", ErrNoAuthKey
	}
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method:  http.MethodGet,
		URL:     c.baseURL + path,
		Headers: []whttp.WHTTPHeader{{Name: AUTH_HEADER, Value: c.authKey}},
	}, c.http)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: GET %s returned %d", ErrBadStatus, path, res.StatusCode)
	}
	if !gjson.Valid(res.BodyString) {
		return "", fmt.Errorf("GET %s: response is not valid JSON", path)
	}
	return res.BodyString, nil
}

// Teams fetches the event roster.
func (c *Client) Teams(ctx context.Context, eventCode string) ([]Team, error) {
	body, err := c.get(ctx, "/event/"+eventCode+"/teams/simple")
	if err != nil {
		return nil, err
	}

	var teams []Team
	gjson.Parse(body).ForEach(func(_, value gjson.Result) bool {
		teams = append(teams, Team{
			Key:      value.Get("key").String(),
			Number:   int(value.Get("team_number").Int()),
			Nickname: value.Get("nickname").String(),
		})
		return true
	})
	return teams, nil
}

// Matches fetches the event schedule.
func (c *Client) Matches(ctx context.Context, eventCode string) ([]Match, error) {
	body, err := c.get(ctx, "/event/"+eventCode+"/matches/simple")
	if err != nil {
		return nil, err
	}

	var matches []Match
	gjson.Parse(body).ForEach(func(_, value gjson.Result) bool {
		m := Match{
			Key:         value.Get("key").String(),
			CompLevel:   value.Get("comp_level").String(),
			MatchNumber: int(value.Get("match_number").Int()),
		}
		for _, k := range value.Get("alliances.red.team_keys").Array() {
			m.Red = append(m.Red, k.String())
		}
		for _, k := range value.Get("alliances.blue.team_keys").Array() {
			m.Blue = append(m.Blue, k.String())
		}
		if m.Key != "" {
			matches = append(matches, m)
		}
		return true
	})
	return matches, nil
}

// MatchKey builds the schedule key for a match, e.g. "2025ctwat_qm5".
func MatchKey(eventCode, matchType, matchNumber string) string {
	return eventCode + "_" + matchType + matchNumber
}

// StripPrefix turns a team key such as "frc1234" into "1234".
func StripPrefix(teamKey string) string {
	return strings.TrimPrefix(teamKey, TEAM_KEY_PREFIX)
}
