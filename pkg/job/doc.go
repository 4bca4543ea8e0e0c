// Package job runs background tasks on River, a Postgres-backed queue.
//
// Tasks are plain structs matched structurally: a Name and a Handle that
// takes a JSON-decodable payload. Periodic tasks add a cron Schedule and
// take no payload.
//
//	manager, err := job.NewManager(pool,
//	    job.WithLogger(log),
//	    job.WithTask[uploads.PublishPayload](uploads.NewPublishTask(svc)),
//	    job.WithScheduledTask(uploads.NewPurgeTask(svc, retention)),
//	)
//
//	id, err := manager.Enqueue(ctx, "publish_video", payload, job.MaxAttempts(1))
//
// All tasks share one River job kind; the task name stored in the job
// arguments picks the handler at run time. EnqueueTx inserts inside a pgx
// transaction so a job and the rows it refers to commit together.
//
// Migrate applies River's schema migrations. Healthcheck and Shutdown
// return closures for the health endpoints and the server's shutdown hooks.
package job
