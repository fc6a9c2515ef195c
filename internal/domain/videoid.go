package domain

import (
	"fmt"
	"regexp"
)

// videoIDPattern matches an 11-character id after "v=" or any "/".
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`)

// ExtractVideoID returns the first video id found in a watch, short or embed URL.
// The id is only checked against the character class, not against the platform.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return m[1], nil
}
