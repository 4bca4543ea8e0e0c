// Package lock provides a mutual-exclusion lease keyed by name.
//
// The upload service takes one lease per browser profile so that two
// uploads never drive the same account at once. [Memory] serves a single
// process; [Redis] extends the guarantee to every replica sharing a Redis
// server.
//
// A lease expires after its TTL even if it is never released, so a crashed
// process cannot block uploads forever. Release only deletes the key if it
// still holds the token of this lease.
//
//	release, err := locker.Acquire(ctx, "upload", 10*time.Minute)
//	if errors.Is(err, lock.ErrLocked) {
//		// another upload is running
//	}
//	defer release(context.WithoutCancel(ctx))
package lock
