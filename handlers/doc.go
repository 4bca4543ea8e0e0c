// Package handlers declares the HTTP routes of the clipdrop server.
//
//	GET  /              liveness banner text
//	POST /upload        publish a video, inline or through the job queue
//	GET  /uploads/{id}  history record of an upload
//
// Failures are returned as internal.HTTPError values and rendered by the
// app's error handler.
package handlers
