package publisher

import (
	"context"
	"strings"
	"time"
)

// Selector addresses an element on the page.
type Selector string

const xpathPrefix = "xpath="

// IsXPath reports whether the selector is an XPath expression.
func (s Selector) IsXPath() bool {
	return strings.HasPrefix(string(s), xpathPrefix) || strings.HasPrefix(string(s), "//")
}

// Query returns the selector without its "xpath=" prefix.
func (s Selector) Query() string {
	return strings.TrimPrefix(string(s), xpathPrefix)
}

// Page is the subset of browser operations a publish needs.
// Every method blocks until done or ctx ends.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, sel Selector) error
	SetInputFiles(ctx context.Context, sel Selector, files ...string) error
	Fill(ctx context.Context, sel Selector, text string) error
	Click(ctx context.Context, sel Selector) error
	Sleep(ctx context.Context, d time.Duration) error
}
