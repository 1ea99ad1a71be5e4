// Package links extracts URLs from message text.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

var urlRegex = regexp.MustCompile(`https?://[^\s<>"{}|\\^\x60\[\]]+`)

// ExtractFirstURL returns the first URL-like token found in text, normalized,
// or an empty string when none is present. Links are later compared by exact
// string equality, so normalization is limited to trimming trailing
// punctuation and lowercasing the host.
func ExtractFirstURL(text string) string {
	match := urlRegex.FindString(text)
	if match == "" {
		return ""
	}

	rawURL := strings.TrimRight(match, ".,;:!?)")

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Host = strings.ToLower(u.Host)

	return u.String()
}
