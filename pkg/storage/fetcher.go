package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// TempPrefix starts the name of every file the fetcher creates.
const TempPrefix = "clipdrop-"

// objectOpener is the part of S3Source the fetcher uses.
type objectOpener interface {
	open(ctx context.Context, bucket, key string) (*object, error)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFS sets the file system. Default: afero.NewOsFs().
func WithFS(fs afero.Fs) Option {
	return func(f *Fetcher) {
		if fs != nil {
			f.fs = fs
		}
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithS3 enables s3:// sources.
func WithS3(src *S3Source) Option {
	return func(f *Fetcher) {
		if src != nil {
			f.s3 = src
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// Fetcher downloads source videos into temporary files.
type Fetcher struct {
	fs     afero.Fs
	client *http.Client
	s3     objectOpener
	logger *slog.Logger
	cfg    Config
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg Config, opts ...Option) *Fetcher {
	cfg.applyDefaults()
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	f := &Fetcher{
		fs:     afero.NewOsFs(),
		client: &http.Client{Timeout: cfg.Timeout},
		logger: slog.New(slog.DiscardHandler),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TempFile is a downloaded video on the fetcher's file system.
type TempFile struct {
	fs          afero.Fs
	Path        string
	ContentType string
	Size        int64
}

// Remove deletes the file. Removing a file twice is not an error.
func (t *TempFile) Remove() error {
	if t == nil {
		return nil
	}
	if err := t.fs.Remove(t.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Fetch downloads source into a new temp file.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*TempFile, error) {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	var obj *object
	switch u.Scheme {
	case "http", "https":
		obj, err = f.openHTTP(ctx, u.String())
	case "s3":
		obj, err = f.openS3(ctx, u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	defer obj.body.Close()

	if obj.contentLength > f.cfg.MaxSize {
		return nil, ErrDownloadTooLarge
	}

	tmp, err := f.store(obj)
	if err != nil {
		return nil, err
	}
	f.logger.DebugContext(ctx, "video fetched",
		slog.String("path", tmp.Path),
		slog.Int64("size", tmp.Size),
		slog.String("content_type", tmp.ContentType),
	)
	return tmp, nil
}

func (f *Fetcher) openHTTP(ctx context.Context, rawURL string) (*object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}
	return &object{
		body:          resp.Body,
		contentType:   resp.Header.Get("Content-Type"),
		contentLength: resp.ContentLength,
	}, nil
}

func (f *Fetcher) openS3(ctx context.Context, u *url.URL) (*object, error) {
	if f.s3 == nil {
		return nil, fmt.Errorf("%w: s3 sources are not configured", ErrInvalidURL)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil, fmt.Errorf("%w: missing object key", ErrInvalidURL)
	}
	return f.s3.open(ctx, u.Host, key)
}

// store sniffs the head of obj, then streams it into a temp file.
func (f *Fetcher) store(obj *object) (*TempFile, error) {
	head := make([]byte, mimeDetectionBytes)
	n, err := io.ReadFull(obj.body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrEmptyFile
	}

	contentType, ok := resolveMIME(head, obj.contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMIME, contentType)
	}

	if err := f.fs.MkdirAll(f.cfg.TempDir, 0o700); err != nil {
		return nil, err
	}
	file, err := afero.TempFile(f.fs, f.cfg.TempDir, TempPrefix+"*"+extFromMIME(contentType))
	if err != nil {
		return nil, err
	}
	tmp := &TempFile{fs: f.fs, Path: file.Name(), ContentType: contentType}

	body := io.MultiReader(bytes.NewReader(head), obj.body)
	written, err := io.Copy(file, io.LimitReader(body, f.cfg.MaxSize+1))
	closeErr := file.Close()
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	case written > f.cfg.MaxSize:
		err = ErrDownloadTooLarge
	case closeErr != nil:
		err = closeErr
	}
	if err != nil {
		_ = tmp.Remove()
		return nil, err
	}

	tmp.Size = written
	return tmp, nil
}

// Sweep removes fetcher temp files older than olderThan and returns how
// many were removed.
func (f *Fetcher) Sweep(olderThan time.Duration) (int, error) {
	entries, err := afero.ReadDir(f.fs, f.cfg.TempDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	var removed int
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), TempPrefix) || e.ModTime().After(cutoff) {
			continue
		}
		if err := f.fs.Remove(filepath.Join(f.cfg.TempDir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
