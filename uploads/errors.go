package uploads

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
)

var (
	ErrMissingVideoURL  = errors.New("missing video_url")
	ErrInvalidVideoURL  = errors.New("video_url must be an http(s) or s3 URL")
	ErrUploadInProgress = errors.New("another upload is in progress")
	ErrNoCookies        = errors.New("cookie bundle contains no cookies")
	ErrQueueDisabled    = errors.New("background uploads are not configured")
	ErrDuplicateUpload  = errors.New("the same upload was queued recently")
	ErrNotFound         = errors.New("upload not found")
)

// Stage names the part of an upload that failed.
type Stage string

const (
	StageValidate Stage = "validate"
	StageLock     Stage = "lock"
	StageCookies  Stage = "cookies"
	StageDownload Stage = "download"
	StageBrowser  Stage = "browser"
	StagePublish  Stage = "publish"
	StageHistory  Stage = "history"
)

// Error is returned for every failed upload.
type Error struct {
	Err   error
	Stage Stage
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Stage: stage, Err: err}
}

// StageOf returns the stage recorded in err, or "".
func StageOf(err error) Stage {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Stage
	}
	return ""
}

// KindOf classifies err for API responses and history records. Cookie
// failures report the decryptor's kind; everything else reports a
// "<stage>_failed" kind, or "" for nil.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	if k := cookievault.KindOf(err); k != "" {
		return string(k)
	}
	switch {
	case errors.Is(err, ErrUploadInProgress):
		return "busy"
	case errors.Is(err, ErrDuplicateUpload):
		return "duplicate"
	case errors.Is(err, ErrNoCookies):
		return "no_cookies"
	case errors.Is(err, ErrMissingVideoURL), errors.Is(err, ErrInvalidVideoURL):
		return "invalid_request"
	}
	if stage := StageOf(err); stage != "" {
		return string(stage) + "_failed"
	}
	return "internal"
}
