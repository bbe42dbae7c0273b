package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sw33tLie/scoutqr/pkg/tba"
	"github.com/sw33tLie/scoutqr/pkg/transform"
)

var (
	ErrNotLoaded      = errors.New("schedule not loaded")
	ErrNoMatch        = errors.New("match not in schedule")
	ErrBadRobot       = errors.New("robot is not an alliance slot")
	ErrSlotOutOfRange = errors.New("alliance slot out of range")
)

// Cache is the roster and schedule of one event. It is owned by a Session
// loop, or used directly by single-goroutine callers.
type Cache struct {
	teams         []tba.Team
	matches       map[string]tba.Match
	teamsLoaded   bool
	matchesLoaded bool
	updatedAt     time.Time
}

func NewCache() *Cache {
	return &Cache{matches: map[string]tba.Match{}}
}

func (c *Cache) SetTeams(teams []tba.Team) {
	c.teams = append([]tba.Team(nil), teams...)
	c.teamsLoaded = true
	c.updatedAt = time.Now().UTC()
}

// SetMatches replaces the schedule. A later call always wins.
func (c *Cache) SetMatches(matches []tba.Match) {
	c.matches = make(map[string]tba.Match, len(matches))
	for _, m := range matches {
		c.matches[m.Key] = m
	}
	c.matchesLoaded = true
	c.updatedAt = time.Now().UTC()
}

func (c *Cache) Loaded() bool { return c.matchesLoaded }

func (c *Cache) Teams() []tba.Team { return append([]tba.Team(nil), c.teams...) }

func (c *Cache) Matches() []tba.Match {
	out := make([]tba.Match, 0, len(c.matches))
	for _, m := range c.matches {
		out = append(out, m)
	}
	return out
}

func (c *Cache) Match(key string) (tba.Match, bool) {
	m, ok := c.matches[key]
	return m, ok
}

func (c *Cache) UpdatedAt() time.Time { return c.updatedAt }

// Clone returns an independent copy.
func (c *Cache) Clone() *Cache {
	out := NewCache()
	out.teams = c.Teams()
	for k, v := range c.matches {
		out.matches[k] = v
	}
	out.teamsLoaded = c.teamsLoaded
	out.matchesLoaded = c.matchesLoaded
	out.updatedAt = c.updatedAt
	return out
}

// ResolveTeam looks up the team number sitting in the robot's station for
// the given match. robot is a form label ("Red 2") or short token ("r2").
func (c *Cache) ResolveTeam(eventCode, matchType, matchNumber, robot string) (string, error) {
	if !c.matchesLoaded {
		return "", ErrNotLoaded
	}
	key := tba.MatchKey(eventCode, matchType, matchNumber)
	m, ok := c.matches[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, key)
	}

	slot := transform.Apply(transform.Robot, robot)
	if len(slot) < 2 {
		return "", fmt.Errorf("%w: %q", ErrBadRobot, robot)
	}
	idx, err := strconv.Atoi(slot[1:])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadRobot, robot)
	}
	idx--

	var alliance []string
	switch slot[0] {
	case 'r':
		alliance = m.Red
	case 'b':
		alliance = m.Blue
	default:
		return "", fmt.Errorf("%w: %q", ErrBadRobot, robot)
	}
	if idx < 0 || idx >= len(alliance) {
		return "", fmt.Errorf("%w: %s slot %d", ErrSlotOutOfRange, key, idx+1)
	}
	return tba.StripPrefix(alliance[idx]), nil
}
