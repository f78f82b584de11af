package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

// youtubePattern matches watch URLs and youtu.be short links, capturing the video id
var youtubePattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// YouTubeVideoID returns the video id captured from a YouTube URL
func YouTubeVideoID(rawURL string) (string, bool) {
	m := youtubePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsYouTubeURL reports whether the URL has the shape of a YouTube video link
func IsYouTubeURL(rawURL string) bool {
	return youtubePattern.MatchString(rawURL)
}

// IsWebURL reports whether s parses as an absolute http(s) URL with a host
func IsWebURL(s string) bool {
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}

// DocumentPrefix marks a batch line as a path to a document upload
const DocumentPrefix = "@"

// ClassifyLine infers the input mode of a free-form batch line.
// YouTube links win over generic URLs; "@path" names a document; anything else is a claim.
func ClassifyLine(line string) model.InputMode {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return model.ModeUnknown
	case strings.HasPrefix(line, DocumentPrefix) && len(line) > len(DocumentPrefix):
		return model.ModeDocumentUpload
	case IsYouTubeURL(line) && IsWebURL(line):
		return model.ModeYouTubeVideo
	case IsWebURL(line):
		return model.ModeWebsiteURL
	default:
		return model.ModeTextClaim
	}
}
