// Package hashtag maps user-facing hashtags to MQTT topics.
//
// A hashtag like "#iot" becomes the normalised tag "iot", published and
// subscribed under the topic "twitter/iot". Normalisation is pure and
// idempotent; an input that normalises to the empty string is invalid and
// must be rejected by the caller.
package hashtag

import (
	"regexp"
	"strings"
)

// Prefix is prepended to every normalised tag to form the wire topic.
const Prefix = "twitter/"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^A-Za-z0-9_\-]`)
)

// Normalize converts free-form hashtag text to a normalised tag:
//   - leading/trailing whitespace is trimmed
//   - one leading '#' is stripped
//   - each run of whitespace collapses to a single underscore
//   - every character outside [A-Za-z0-9_-] is removed
//
// The result may be empty, which callers must treat as an invalid tag.
func Normalize(raw string) string {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimPrefix(tag, "#")
	tag = whitespaceRun.ReplaceAllString(tag, "_")
	return disallowed.ReplaceAllString(tag, "")
}

// Valid reports whether raw normalises to a usable tag.
func Valid(raw string) bool {
	return Normalize(raw) != ""
}

// Topic returns the MQTT topic for a normalised tag.
//
// Example: Topic("iot") == "twitter/iot"
func Topic(tag string) string {
	return Prefix + tag
}

// Tag extracts the tag from a Tagcast topic. The second return value is
// false when the topic does not carry the expected prefix.
func Tag(topic string) (string, bool) {
	tag, ok := strings.CutPrefix(topic, Prefix)
	if !ok || tag == "" {
		return "", false
	}
	return tag, true
}
