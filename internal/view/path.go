package view

import (
	"fmt"
	"net/url"
	"strings"
)

// NoStreamsTitle is the title shown when no channel is visible.
const NoStreamsTitle = "No Streams"

// ParsePath extracts channel names from an address path such as
// "/foo/bar". Empty segments are dropped and percent-escapes decoded;
// segments that fail to decode are kept as written.
func ParsePath(p string) []string {
	names := []string{}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if decoded, err := url.PathUnescape(seg); err == nil {
			seg = decoded
		}
		names = append(names, seg)
	}
	return names
}

// IsChannelPath reports whether every segment of p could be a channel
// name. Segments with a "." look like file requests (robots.txt,
// apple-touch-icon.png) and never name a channel.
func IsChannelPath(p string) bool {
	for _, name := range ParsePath(p) {
		if strings.Contains(name, ".") {
			return false
		}
	}
	return true
}

// FormatPath is the inverse of ParsePath. An empty list maps to "/".
func FormatPath(names []string) string {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = url.PathEscape(n)
	}
	return "/" + strings.Join(escaped, "/")
}

// Title returns the window title for names: the names joined by "/", or
// NoStreamsTitle when there are none.
func Title(names []string) string {
	if len(names) == 0 {
		return NoStreamsTitle
	}
	return strings.Join(names, "/")
}

// EmbedFunc returns the embeddable player URL for a channel.
type EmbedFunc func(channel string) string

// TwitchEmbed returns an EmbedFunc for the Twitch player. parent is the
// host the page is served from, which the player requires.
func TwitchEmbed(parent string) EmbedFunc {
	return func(channel string) string {
		return fmt.Sprintf("https://player.twitch.tv/?channel=%s&parent=%s&muted=true&autoplay=true",
			url.QueryEscape(channel), url.QueryEscape(parent))
	}
}
