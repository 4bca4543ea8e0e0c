package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/clipdrop/internal"
	"github.com/dmitrymomot/clipdrop/uploads"
)

// Uploader is the part of uploads.Service the handlers use.
type Uploader interface {
	Upload(ctx context.Context, req uploads.Request) (uploads.Result, error)
	Enqueue(ctx context.Context, req uploads.Request) (uploads.Result, error)
	Get(ctx context.Context, id uuid.UUID) (uploads.Record, error)
	QueueEnabled() bool
}

var _ Uploader = (*uploads.Service)(nil)

// uploadRequest is the POST /upload body.
type uploadRequest struct {
	VideoURL string `json:"video_url"`
	Caption  string `json:"caption"`
	Async    bool   `json:"async"`
}

// UploadResponse is the success body of POST /upload.
type UploadResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message,omitempty"`
	UploadID uuid.UUID `json:"upload_id"`
}

// Uploads serves the upload endpoints.
type Uploads struct {
	svc Uploader
}

func NewUploads(svc Uploader) *Uploads {
	return &Uploads{svc: svc}
}

func (h *Uploads) Routes(r internal.Router) {
	r.POST("/upload", h.upload)
	r.GET("/uploads/{id}", h.show)
}

// upload publishes inline unless the body or ?async=true asks for the
// queue. The inline path keeps running when the client goes away; the
// browser timeout bounds it instead.
func (h *Uploads) upload(c internal.Context) error {
	var body uploadRequest
	if err := c.BindJSON(&body); err != nil && !errors.Is(err, internal.ErrEmptyBody) {
		return internal.ErrBadRequest("Invalid JSON body",
			internal.WithKind("invalid_request"),
			internal.WithError(err),
		)
	}
	req := uploads.Request{VideoURL: body.VideoURL, Caption: body.Caption}

	if body.Async || internal.Query[bool](c, "async") {
		res, err := h.svc.Enqueue(c, req)
		if err != nil {
			return uploadError(err)
		}
		return c.JSON(http.StatusAccepted, UploadResponse{Status: "queued", UploadID: res.ID})
	}

	res, err := h.svc.Upload(context.WithoutCancel(c), req)
	if err != nil {
		return uploadError(err)
	}
	c.LogInfo("upload finished", "upload_id", res.ID.String(), "duration", res.Duration)
	return c.JSON(http.StatusOK, UploadResponse{
		Status:   "success",
		Message:  "Video uploaded to TikTok",
		UploadID: res.ID,
	})
}

func (h *Uploads) show(c internal.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return internal.ErrNotFound("Upload not found", internal.WithKind("not_found"))
	}
	rec, err := h.svc.Get(c, id)
	switch {
	case errors.Is(err, uploads.ErrNotFound):
		return internal.ErrNotFound("Upload not found", internal.WithKind("not_found"))
	case err != nil:
		return internal.ErrInternal("Failed to load upload", internal.WithKind("internal"), internal.WithError(err))
	}
	return c.JSON(http.StatusOK, rec)
}

// uploadError maps service errors to responses. Messages from the service
// never carry cookie values or the password.
func uploadError(err error) *internal.HTTPError {
	kind := uploads.KindOf(err)
	switch {
	case errors.Is(err, uploads.ErrMissingVideoURL):
		return internal.ErrBadRequest("Missing video_url", internal.WithKind(kind), internal.WithError(err))
	case errors.Is(err, uploads.ErrInvalidVideoURL):
		return internal.ErrBadRequest("Invalid video_url", internal.WithKind(kind), internal.WithError(err))
	case errors.Is(err, uploads.ErrQueueDisabled):
		return internal.ErrBadRequest("Background uploads are not enabled", internal.WithKind("queue_disabled"), internal.WithError(err))
	case errors.Is(err, uploads.ErrUploadInProgress):
		return internal.ErrConflict("Another upload is in progress", internal.WithKind(kind), internal.WithError(err))
	case errors.Is(err, uploads.ErrDuplicateUpload):
		return internal.ErrConflict("This video was queued recently", internal.WithKind(kind), internal.WithError(err))
	}
	return internal.ErrInternal(err.Error(), internal.WithKind(kind), internal.WithError(err))
}
