package utils

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	homedir "github.com/mitchellh/go-homedir"
)

// busyPoll is how often a waiting collector retries a held lock.
const busyPoll = 250 * time.Millisecond

// WriteLock serializes scoutqr processes that write collected scans into the
// same database, e.g. two laptops' collect runs against a shared file. The
// lock lives next to the database as <db>.lock.
type WriteLock struct {
	fl   *flock.Flock
	file string
}

func NewWriteLock(dbPath string) (*WriteLock, error) {
	abs, err := ResolveDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	file := abs + ".lock"
	return &WriteLock{fl: flock.New(file), file: file}, nil
}

// Acquire takes the lock, polling while another collector holds it until
// ctx is done.
func (l *WriteLock) Acquire(ctx context.Context) error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.file, err)
	}
	if ok {
		return nil
	}

	Log.Warnf("Another scoutqr collector is writing to %s, waiting...", l.file)
	ok, err = l.fl.TryLockContext(ctx, busyPoll)
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.file, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: still held", l.file)
	}
	return nil
}

func (l *WriteLock) Release() error {
	if !l.fl.Locked() {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.file, err)
	}
	return nil
}

// ResolveDBPath returns the absolute database path. An empty path is the
// default ~/.config/scoutqr/scoutqr.sqlite.
func ResolveDBPath(dbPath string) (string, error) {
	if dbPath != "" {
		return filepath.Abs(dbPath)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "scoutqr", "scoutqr.sqlite"), nil
}
