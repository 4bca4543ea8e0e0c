// Package uploads publishes videos end to end: it validates the request,
// serializes access to the account, decrypts the session cookies, fetches
// the video, drives a browser through the upload page and records the
// outcome.
//
// Service.Upload does all of that inline. Service.Enqueue stores the
// request and hands it to the job queue, where PublishTask runs it with a
// single attempt. PurgeTask removes old history and stale temp files on a
// daily schedule.
//
// History is kept in Postgres when a database is configured
// (PostgresHistory, schema in Migrations) and dropped otherwise
// (NopHistory).
package uploads
