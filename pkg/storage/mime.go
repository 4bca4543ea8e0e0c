package storage

import (
	"net/http"
	"strings"
)

const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512
)

// videoExtensions maps accepted video MIME types to file extensions.
var videoExtensions = map[string]string{
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"video/ogg":        ".ogv",
	"video/quicktime":  ".mov",
	"video/x-msvideo":  ".avi",
	"video/avi":        ".avi",
	"video/x-matroska": ".mkv",
	"video/mpeg":       ".mpeg",
}

func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

func isVideoMIME(mimeType string) bool {
	return strings.HasPrefix(normalizeMIME(mimeType), "video/")
}

// resolveMIME decides the content type of a download from its first bytes
// and the type the server declared. Sniffed video types win. Content the
// sniffer cannot classify is accepted when the server calls it a video or
// octet-stream, since several containers (mov, mkv) have no signature in
// the standard sniffer.
func resolveMIME(head []byte, declared string) (string, bool) {
	sniffed := normalizeMIME(http.DetectContentType(head))
	if isVideoMIME(sniffed) {
		return sniffed, true
	}
	if sniffed != MIMEOctetStream && sniffed != "application/ogg" {
		return sniffed, false
	}
	declared = normalizeMIME(declared)
	switch {
	case isVideoMIME(declared):
		return declared, true
	case declared == "", declared == MIMEOctetStream, declared == "binary/octet-stream":
		return MIMEOctetStream, true
	}
	return declared, false
}

// extFromMIME returns the file extension for mimeType, or ".bin".
func extFromMIME(mimeType string) string {
	if ext, ok := videoExtensions[normalizeMIME(mimeType)]; ok {
		return ext
	}
	return ".bin"
}
