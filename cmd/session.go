package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/schedule"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

// scheduleSession is a running schedule.Session seeded from, and saving
// back to, the local database.
type scheduleSession struct {
	*schedule.Session
	updates chan schedule.Update
	stop    func()
}

func startSession(ctx context.Context, cmd *cobra.Command, event string, db *storage.DB) (*scheduleSession, error) {
	client, err := newTBAClient(cmd)
	if err != nil {
		return nil, err
	}

	cache := schedule.NewCache()
	if db != nil {
		teams, matches, err := db.LoadSchedule(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("load saved schedule: %w", err)
		}
		if len(teams) > 0 {
			cache.SetTeams(teams)
		}
		if len(matches) > 0 {
			cache.SetMatches(matches)
			utils.Log.Debugf("Using saved schedule for %s: %d matches", event, len(matches))
		}
	}

	updates := make(chan schedule.Update, 8)
	opts := []schedule.Option{
		schedule.WithLogger(utils.Log),
		schedule.WithNotify(updates),
		schedule.WithCache(cache),
	}
	if db != nil {
		opts = append(opts, schedule.WithOnLoad(func(c *schedule.Cache) {
			if err := db.SaveSchedule(ctx, event, c.Teams(), c.Matches()); err != nil {
				utils.Log.Warnf("Could not save schedule: %v", err)
			}
		}))
	}

	sess := schedule.NewSession(event, client, opts...)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(runCtx)
	}()

	return &scheduleSession{
		Session: sess,
		updates: updates,
		stop: func() {
			cancel()
			<-done
		},
	}, nil
}

// wait blocks until an update arrived for every kind, or until timeout. The
// first failed update is returned as an error.
func (s *scheduleSession) wait(ctx context.Context, timeout time.Duration, kinds ...string) error {
	pending := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		pending[k] = true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for len(pending) > 0 {
		select {
		case u := <-s.updates:
			if !pending[u.Kind] {
				continue
			}
			if u.Err != nil {
				return fmt.Errorf("fetch %s: %w", u.Kind, u.Err)
			}
			delete(pending, u.Kind)
		case <-timer.C:
			return fmt.Errorf("timed out after %s waiting for the schedule", timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
