// Package storage fetches source videos into local temporary files.
//
// A [Fetcher] accepts http(s):// URLs and, when an S3 client is configured,
// s3://bucket/key URLs. The body is streamed into a uniquely named file
// under the temp directory with a size cap. The first bytes are sniffed and
// anything that is not a video container (an HTML error page, JSON, an
// image) is rejected before the rest is downloaded.
//
//	f, err := fetcher.Fetch(ctx, "https://cdn.example.com/clip.mp4")
//	if err != nil {
//		return err
//	}
//	defer f.Remove()
//	// f.Path is ready to hand to the browser's file input.
//
// The file system is an [afero.Fs]; tests use an in-memory one. [Fetcher.Sweep]
// removes temp files left behind by crashed processes.
//
// S3 access goes through the AWS SDK v2 with static credentials and an
// optional custom endpoint for S3-compatible services (MinIO, R2).
//
// # Errors
//
//   - [ErrInvalidURL] - malformed URL or unsupported scheme
//   - [ErrDownloadFailed] - network error or non-200 response
//   - [ErrDownloadTooLarge] - body exceeds the size cap
//   - [ErrEmptyFile] - zero-length body
//   - [ErrInvalidMIME] - content is not a video
//   - [ErrNotFound], [ErrAccessDenied] - S3 object errors
package storage
