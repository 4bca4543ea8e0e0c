// Package redis opens the go-redis client used for the cross-process upload
// lock.
//
// [Open] validates the URL (redis:// or rediss://), applies pool settings
// and pings the server, retrying with a linear backoff while Redis starts.
// [Healthcheck] and [Shutdown] return closures for the readiness check and
// the server's shutdown hooks.
//
//	client, err := redis.Open(ctx, cfg.URL, redis.WithRetry(5, time.Second))
//	if err != nil {
//		return err
//	}
//	checks["redis"] = redis.Healthcheck(client)
//	internal.ShutdownHook(redis.Shutdown(client))
package redis
