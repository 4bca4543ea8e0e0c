package handlers

import (
	"net/http"

	"github.com/dmitrymomot/clipdrop/internal"
)

// BannerText is the body of GET /.
const BannerText = "TikTok uploader is live. POST to /upload to upload videos."

// Banner answers GET / with a one-line status text.
type Banner struct{}

func NewBanner() *Banner { return &Banner{} }

func (h *Banner) Routes(r internal.Router) {
	r.GET("/", h.show)
}

func (h *Banner) show(c internal.Context) error {
	return c.String(http.StatusOK, BannerText)
}
