// Package schedule keeps the event roster and match schedule for one
// scouting session and resolves auto-fill team numbers from it.
//
// A Session has a single loop goroutine (Run) that owns its Cache. Fetches
// run in the background and post their results to the loop; every read also
// goes through the loop, so the cache never needs a lock.
package schedule

import (
	"context"
	"errors"
	"sync"

	"github.com/sw33tLie/scoutqr/pkg/tba"
)

var ErrClosed = errors.New("schedule session is not running")

// Fetcher is the remote lookup the session loads from. *tba.Client
// satisfies it.
type Fetcher interface {
	Teams(ctx context.Context, eventCode string) ([]tba.Team, error)
	Matches(ctx context.Context, eventCode string) ([]tba.Match, error)
}

// Logger abstracts logging so callers can pass logrus or anything else with
// the same methods.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Update kinds.
const (
	UpdateTeams   = "teams"
	UpdateMatches = "matches"
)

type resultKind string

const (
	kindTeams   resultKind = UpdateTeams
	kindMatches resultKind = UpdateMatches
)

type fetchResult struct {
	kind    resultKind
	teams   []tba.Team
	matches []tba.Match
	err     error
}

// Update is sent to the notify channel after the loop applies a fetch
// result.
type Update struct {
	Kind  string
	Count int
	Err   error
}

type call struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

type Session struct {
	event   string
	fetcher Fetcher
	log     Logger
	notify  chan<- Update
	onLoad  []func(*Cache)

	cache   *Cache
	results chan fetchResult
	calls   chan call
	stopped chan struct{}
	wg      sync.WaitGroup
}

type Option func(*Session)

func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotify receives an Update per applied result. Sends never block; a
// full channel drops the update.
func WithNotify(ch chan<- Update) Option {
	return func(s *Session) { s.notify = ch }
}

// WithOnLoad registers a hook run by the loop each time a new schedule is
// applied. Hooks run on the loop goroutine and must not call back into the
// Session.
func WithOnLoad(fn func(*Cache)) Option {
	return func(s *Session) { s.onLoad = append(s.onLoad, fn) }
}

// WithCache starts the session from a previously saved cache.
func WithCache(c *Cache) Option {
	return func(s *Session) {
		if c != nil {
			s.cache = c.Clone()
		}
	}
}

func NewSession(eventCode string, fetcher Fetcher, opts ...Option) *Session {
	s := &Session{
		event:   eventCode,
		fetcher: fetcher,
		log:     nopLogger{},
		cache:   NewCache(),
		results: make(chan fetchResult),
		calls:   make(chan call),
		stopped: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Event() string { return s.event }

// Run is the session loop. It returns when ctx is done, after in-flight
// fetches have exited.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)
	defer s.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-s.results:
			s.apply(r)
		case c := <-s.calls:
			c.fn(ctx)
			close(c.done)
		}
	}
}

func (s *Session) apply(r fetchResult) {
	u := Update{Kind: string(r.kind), Err: r.err}
	if r.err != nil {
		s.log.Warnf("Failed to load %s for %s: %v", r.kind, s.event, r.err)
		s.send(u)
		return
	}
	switch r.kind {
	case kindTeams:
		s.cache.SetTeams(r.teams)
		u.Count = len(r.teams)
		s.log.Infof("Teams loaded for %s: %d", s.event, u.Count)
	case kindMatches:
		s.cache.SetMatches(r.matches)
		u.Count = len(r.matches)
		s.log.Infof("Schedule loaded for %s: %d matches", s.event, u.Count)
		for _, fn := range s.onLoad {
			fn(s.cache)
		}
	}
	s.send(u)
}

func (s *Session) send(u Update) {
	if s.notify == nil {
		return
	}
	select {
	case s.notify <- u:
	default:
	}
}

// startFetch must run on the loop goroutine.
func (s *Session) startFetch(ctx context.Context, teams bool) {
	if teams {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			t, err := s.fetcher.Teams(ctx, s.event)
			s.post(ctx, fetchResult{kind: kindTeams, teams: t, err: err})
		}()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		m, err := s.fetcher.Matches(ctx, s.event)
		s.post(ctx, fetchResult{kind: kindMatches, matches: m, err: err})
	}()
}

func (s *Session) post(ctx context.Context, r fetchResult) {
	select {
	case s.results <- r:
	case <-ctx.Done():
	}
}

// do runs fn on the loop goroutine and waits for it.
func (s *Session) do(ctx context.Context, fn func(loopCtx context.Context)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case s.calls <- c:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh starts loading the roster and schedule in the background and
// returns without waiting for them.
func (s *Session) Refresh(ctx context.Context) error {
	return s.do(ctx, func(loopCtx context.Context) {
		s.startFetch(loopCtx, true)
	})
}

// ResolveTeam returns the team number for the robot's station in the given
// match. It never fails: when the schedule is not loaded yet it starts a
// reload and returns empty, and a missing match or slot is logged and
// returns empty.
func (s *Session) ResolveTeam(ctx context.Context, matchType, matchNumber, robot string) (string, bool) {
	if matchType == "" || matchNumber == "" || robot == "" {
		return "", false
	}
	var team string
	err := s.do(ctx, func(loopCtx context.Context) {
		t, err := s.cache.ResolveTeam(s.event, matchType, matchNumber, robot)
		switch {
		case errors.Is(err, ErrNotLoaded):
			s.log.Infof("Schedule not loaded yet. Attempting to reload...")
			s.startFetch(loopCtx, false)
		case err != nil:
			s.log.Infof("No team for %s %s%s: %v", robot, matchType, matchNumber, err)
		default:
			team = t
			s.log.Debugf("Auto-filled team number: %s", t)
		}
	})
	if err != nil {
		s.log.Debugf("ResolveTeam: %v", err)
		return "", false
	}
	return team, team != ""
}

// Snapshot returns a copy of the current cache.
func (s *Session) Snapshot(ctx context.Context) (*Cache, error) {
	var out *Cache
	err := s.do(ctx, func(context.Context) {
		out = s.cache.Clone()
	})
	if err != nil {
		// fn may still be running on the loop; out is not ours to read.
		return nil, err
	}
	return out, nil
}
