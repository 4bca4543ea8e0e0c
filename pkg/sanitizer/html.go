// Package sanitizer cleans user-supplied text before it reaches the upload page.
package sanitizer

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// textOnly strips every tag. Policies are safe for concurrent use once built.
var textOnly = sync.OnceValue(bluemonday.StrictPolicy)

// StripHTML removes all markup from s and decodes HTML entities, leaving
// the text a user would see.
func StripHTML(s string) string {
	return html.UnescapeString(textOnly().Sanitize(s))
}
