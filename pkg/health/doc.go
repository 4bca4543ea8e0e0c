// Package health serves liveness and readiness checks.
//
// [LivenessHandler] always answers 200 while the process runs.
// [ReadinessHandler] runs every registered [CheckFunc] concurrently under a
// shared timeout and answers 503 if any of them fails:
//
//	checks := health.Checks{
//		"redis":   redis.Healthcheck(client),
//		"db":      db.Healthcheck(pool),
//		"browser": browser.Healthcheck(browserCfg),
//	}
//	r.Get("/health/ready", health.ReadinessHandler(checks, health.WithLogger(log)))
//
// Both handlers answer with a JSON [Response] listing each check's status
// and, for failures, its error. Responses are never cached.
package health
