package pipeline

import (
	"bytes"
	"html/template"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
)

// QRServerEndpoint is the public QR code service used by DefaultQRCodeURL.
const QRServerEndpoint = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="

// maxDisplayURL bounds the printed URL under each card.
const maxDisplayURL = 60

var (
	trailingUUID = regexp.MustCompile(`-?[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	cardTemplate = template.Must(template.New("card").Parse(`<div class="resource-card resource-card--{{.Class}}">
{{if .Image}}<img class="resource-card__thumb" src="{{.Image}}" alt="" />{{end}}
<div class="resource-card__body">
<span class="resource-card__type">{{.Label}}</span>{{if .Badge}} <span class="resource-card__badge">{{.Badge}}</span>{{end}}
<p class="resource-card__title">{{.Title}}</p>
{{if .Description}}<p class="resource-card__desc">{{.Description}}</p>{{end}}
<a class="resource-card__link" href="{{.URL}}">{{.DisplayURL}}</a>
</div>
<img class="resource-card__qr" src="{{.QR}}" alt="QR code" />
</div>`))
)

// DefaultQRCodeURL builds a QR server request URL for payload.
func DefaultQRCodeURL(payload string) string {
	return QRServerEndpoint + url.QueryEscape(payload)
}

// resourceCard is the view model of one card.
type resourceCard struct {
	Class       string
	Label       string
	Badge       string
	Title       string
	Description string
	URL         template.URL
	DisplayURL  string
	Image       template.URL
	QR          template.URL
}

// buildCard resolves display data for a link, from metadata when the maps
// hold an entry for the exact URL and from the URL itself otherwise.
func (r *Renderer) buildCard(link coursemd.StandaloneLink, opts RenderOptions) resourceCard {
	card := resourceCard{
		Class:      strings.ToLower(link.Kind.String()),
		Label:      link.Kind.String(),
		URL:        SafeURL(link.URL),
		DisplayURL: displayURL(link.URL),
		QR:         SafeURL(r.qrURL(link.URL)),
	}

	switch link.Kind {
	case coursemd.LinkCourse:
		code := coursemd.CourseCode(link.URL)
		card.Title = strings.ToUpper(code)
		if meta, ok := opts.Courses[link.URL]; ok {
			if meta.Code != "" {
				code = meta.Code
			}
			if meta.Name != "" {
				card.Title = meta.Name
			}
			card.Badge = strings.ToUpper(code)
			card.Description = meta.Goal
			card.Image = SafeURL(meta.ThumbnailURL)
		}
	case coursemd.LinkTutorial:
		card.Title = prettifySegment(path.Base(coursemd.TutorialPath(link.URL)))
		if meta, ok := opts.Tutorials[link.URL]; ok {
			if meta.Name != "" {
				card.Title = meta.Name
			}
			card.Description = meta.Description
			card.Image = SafeURL(meta.LogoURL)
		}
	case coursemd.LinkVideo:
		platform, id := coursemd.VideoID(link.URL)
		card.Title = strings.TrimSpace(platform + " video " + id)
		if platform == "YouTube" && id != "" {
			card.Image = SafeURL("https://img.youtube.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg")
		}
	default:
		card.Title = genericTitle(link.URL)
	}
	return card
}

// render executes the card template. Blank lines are dropped so the block
// stays a single raw HTML block.
func (c resourceCard) render() (string, error) {
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, c); err != nil {
		return "", err
	}
	lines := strings.Split(buf.String(), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// genericTitle derives "host › Last Segment" from a URL.
func genericTitle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	seg := path.Base(strings.TrimSuffix(u.Path, "/"))
	if seg == "." || seg == "/" || seg == "" {
		return host
	}
	return host + " › " + prettifySegment(seg)
}

// prettifySegment turns a URL slug into a title: a trailing UUID is removed,
// dashes and underscores become spaces, and words are capitalized.
func prettifySegment(seg string) string {
	if s, err := url.PathUnescape(seg); err == nil {
		seg = s
	}
	seg = trailingUUID.ReplaceAllString(seg, "")
	words := strings.FieldsFunc(seg, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " ")
}

// displayURL strips the scheme and shortens long URLs.
func displayURL(raw string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if utf8.RuneCountInString(s) <= maxDisplayURL {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDisplayURL-1]) + "…"
}

// SafeURL marks URLs with an allowed scheme as trusted for templates.
// Anything else is dropped.
func SafeURL(raw string) template.URL {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "https://"),
		strings.HasPrefix(raw, "http://"),
		strings.HasPrefix(raw, "file://"),
		strings.HasPrefix(raw, "data:image/"):
		return template.URL(raw) // #nosec G203 -- scheme allow-listed above
	default:
		return ""
	}
}
