// Package lockpkg provides a leased per-key mutual exclusion lock over a shared
// Redis instance so that multiple processes can serialize access to one resource.
package lockpkg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrWaitTimeout indicates that the lock could not be acquired within the
	// configured wait. Safe to retry.
	ErrWaitTimeout = errors.New("lock acquisition timed out")
	// ErrNotHeld indicates a release with a token that does not own the lock,
	// typically because the lease already expired.
	ErrNotHeld = errors.New("lock not held")
)

const (
	keyPrefix     = "lock:"
	retryInterval = 20 * time.Millisecond
)

// releaseScript deletes the lock key only if it still stores the caller's token.
// Get and delete must be a single step so an expired holder cannot remove a
// lock that has since been granted to someone else.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker acquires and releases leased locks keyed by name.
type Locker struct {
	client *redis.Client
	lease  time.Duration
	wait   time.Duration
}

// New returns a Locker whose locks auto-expire after lease and whose
// acquisitions give up after wait.
func New(client *redis.Client, lease, wait time.Duration) *Locker {
	return &Locker{
		client: client,
		lease:  lease,
		wait:   wait,
	}
}

// Acquire obtains the lock for the given name and returns the token required
// to release it. It polls until the lock is free, the wait is exhausted
// (ErrWaitTimeout) or ctx is done. Every acquisition gets a fresh token.
func (l *Locker) Acquire(ctx context.Context, name string) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, keyPrefix+name, token, l.lease).Result()
		if err != nil {
			return "", err
		}

		if ok {
			return token, nil
		}

		if time.Now().After(deadline) {
			return "", ErrWaitTimeout
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// Release frees the lock for the given name. The token must be the one
// returned by the matching Acquire; otherwise the lock is left untouched and
// ErrNotHeld is returned.
func (l *Locker) Release(ctx context.Context, name, token string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{keyPrefix + name}, token).Int()
	if err != nil {
		return err
	}

	if deleted == 0 {
		return ErrNotHeld
	}

	return nil
}
