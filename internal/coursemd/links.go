package coursemd

import (
	"net/url"
	"regexp"
	"strings"
)

// LinkKind classifies a standalone link.
type LinkKind int

const (
	LinkGeneric LinkKind = iota
	LinkVideo
	LinkCourse
	LinkTutorial
)

// String returns the card label of the kind.
func (k LinkKind) String() string {
	switch k {
	case LinkVideo:
		return "VIDEO"
	case LinkCourse:
		return "COURSE"
	case LinkTutorial:
		return "TUTORIAL"
	default:
		return "LINK"
	}
}

// StandaloneLink is a line holding nothing but a URL or an image embed.
type StandaloneLink struct {
	URL   string
	Kind  LinkKind
	Embed bool
}

var (
	bareURL       = regexp.MustCompile(`^https?://\S+$`)
	embedImage    = regexp.MustCompile(`^!\[[^\]]*\]\((https?://[^)\s]+)\)$`)
	courseURL     = regexp.MustCompile(`^https?://(?:www\.)?planb\.academy/(?:[A-Za-z]{2}(?:-[A-Za-z]+)?/)?courses/([A-Za-z0-9_-]+)`)
	tutorialURL   = regexp.MustCompile(`^https?://(?:www\.)?planb\.academy/(?:[A-Za-z]{2}(?:-[A-Za-z]+)?/)?tutorials/([^?#]+)`)
	youtubeEmbed  = regexp.MustCompile(`/(?:embed|shorts|v|live)/([A-Za-z0-9_-]{6,})`)
	vimeoVideoID  = regexp.MustCompile(`/(?:video/)?(\d+)`)
	trailingSlash = regexp.MustCompile(`/+$`)
)

var videoHosts = map[string]string{
	"youtube.com":          "YouTube",
	"m.youtube.com":        "YouTube",
	"youtu.be":             "YouTube",
	"youtube-nocookie.com": "YouTube",
	"vimeo.com":            "Vimeo",
	"player.vimeo.com":     "Vimeo",
}

// ParseStandaloneLink recognizes a line that is only a bare URL or only an
// image embed pointing at a video platform.
func ParseStandaloneLink(line string) (StandaloneLink, bool) {
	s := strings.TrimSpace(line)
	if m := embedImage.FindStringSubmatch(s); m != nil {
		if !IsVideoURL(m[1]) {
			return StandaloneLink{}, false
		}
		return StandaloneLink{URL: m[1], Kind: LinkVideo, Embed: true}, true
	}
	if bareURL.MatchString(s) {
		return StandaloneLink{URL: s, Kind: ClassifyURL(s)}, true
	}
	return StandaloneLink{}, false
}

// ClassifyURL returns the kind of an absolute URL.
func ClassifyURL(raw string) LinkKind {
	switch {
	case courseURL.MatchString(raw):
		return LinkCourse
	case tutorialURL.MatchString(raw):
		return LinkTutorial
	case IsVideoURL(raw):
		return LinkVideo
	default:
		return LinkGeneric
	}
}

// IsVideoURL reports whether raw points at a known video platform.
func IsVideoURL(raw string) bool {
	_, ok := videoPlatform(raw)
	return ok
}

func videoPlatform(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	name, ok := videoHosts[host]
	return name, ok
}

// CourseCode returns the course code of a course URL, or "".
func CourseCode(raw string) string {
	if m := courseURL.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// TutorialPath returns the path below /tutorials/ of a tutorial URL, or "".
func TutorialPath(raw string) string {
	if m := tutorialURL.FindStringSubmatch(raw); m != nil {
		return trailingSlash.ReplaceAllString(m[1], "")
	}
	return ""
}

// VideoID extracts the platform name and video id of a video URL.
// Both are empty when raw is not a recognized video link.
func VideoID(raw string) (platform, id string) {
	platform, ok := videoPlatform(raw)
	if !ok {
		return "", ""
	}
	u, _ := url.Parse(raw)
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case platform == "YouTube":
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else if m := youtubeEmbed.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		}
	case platform == "Vimeo":
		if m := vimeoVideoID.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		}
	}
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	return platform, id
}

// ExtractTutorialURLs returns the distinct standalone tutorial URLs of
// content in first-seen order. Fenced code is ignored.
func ExtractTutorialURLs(content string) []string {
	return extractURLs(content, LinkTutorial)
}

// ExtractCourseURLs returns the distinct standalone course URLs of content
// in first-seen order. Fenced code is ignored.
func ExtractCourseURLs(content string) []string {
	return extractURLs(content, LinkCourse)
}

func extractURLs(content string, kind LinkKind) []string {
	var (
		out  = []string{}
		seen = map[string]bool{}
		ft   FenceTracker
	)
	for _, line := range strings.Split(normalizeLineEndings(content), "\n") {
		if ft.Step(line) {
			continue
		}
		link, ok := ParseStandaloneLink(line)
		if !ok || link.Kind != kind || seen[link.URL] {
			continue
		}
		seen[link.URL] = true
		out = append(out, link.URL)
	}
	return out
}
