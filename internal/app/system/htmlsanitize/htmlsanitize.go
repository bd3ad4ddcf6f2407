// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied free text before
// it is stored. Announcement titles and bodies, house mottos, and match
// descriptions come from the SPA and are rendered back to other clients,
// so anything that isn't plain text is removed.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML, leaving only text content.
func Strip(s string) string {
	return strict.Sanitize(s)
}
