package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// allowedHosts are the hostname substrings accepted as download sources.
// This is advisory client-facing filtering; the upstream API remains the
// actual trust boundary.
var allowedHosts = []string{
	"youtube.com",
	"youtu.be",
	"tiktok.com",
	"facebook.com",
}

// IsValidSource reports whether candidate parses as a URL whose hostname
// contains one of the supported platforms. Anything unparsable or without
// a hostname is rejected.
func IsValidSource(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, allowed := range allowedHosts {
		if strings.Contains(host, allowed) {
			return true
		}
	}
	return false
}

// DetectPlatform classifies a source URL by hostname. Returns "unknown"
// for anything outside the supported platforms.
func DetectPlatform(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return "unknown"
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return "youtube"
	case strings.Contains(host, "tiktok.com"):
		return "tiktok"
	case strings.Contains(host, "facebook.com"):
		return "facebook"
	default:
		return "unknown"
	}
}

// ThumbnailURL derives a preview image URL for a source URL. Only YouTube
// exposes predictable thumbnail locations; other platforms return "".
func ThumbnailURL(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	var videoID string
	switch {
	case strings.Contains(host, "youtu.be"):
		videoID = strings.TrimPrefix(u.Path, "/")
		if idx := strings.Index(videoID, "/"); idx != -1 {
			videoID = videoID[:idx]
		}
	case strings.Contains(host, "youtube.com"):
		videoID = u.Query().Get("v")
	}

	if videoID == "" {
		return ""
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename strips characters that are unsafe in a download
// filename, collapsing runs of whitespace. Falls back to "download" if
// nothing survives.
func SanitizeFilename(name string) string {
	var result strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			// drop
		default:
			result.WriteRune(r)
		}
	}

	cleaned := multiSpace.ReplaceAllString(result.String(), " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > 100 {
		cleaned = strings.TrimRight(cleaned[:100], " ")
	}
	if cleaned == "" {
		return "download"
	}
	return cleaned
}
