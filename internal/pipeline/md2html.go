package pipeline

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
)

// HighlightStyle is the chroma style used for code blocks.
const HighlightStyle = "github"

// ImageURLFunc builds the absolute URL of a relative image reference.
type ImageURLFunc func(courseCode, ref, lang string) string

// QRCodeURLFunc builds the URL of a QR code image encoding payload.
type QRCodeURLFunc func(payload string) string

// RenderOptions carries the per-document inputs of a render.
// Nil metadata maps are valid and yield generic cards.
type RenderOptions struct {
	CourseCode string
	Lang       string
	Mode       coursemd.Mode
	Tutorials  map[string]coursemd.TutorialMeta
	Courses    map[string]coursemd.CourseMeta
}

// Renderer converts cleaned markdown to presentation HTML.
// A Renderer holds no per-document state and is safe for concurrent use.
type Renderer struct {
	md       goldmark.Markdown
	imageURL ImageURLFunc
	qrURL    QRCodeURLFunc
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImageURL sets the image URL builder. Without it, relative references
// are left unchanged.
func WithImageURL(fn ImageURLFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.imageURL = fn
		}
	}
}

// WithQRCodeURL sets the QR code URL builder used by resource cards.
func WithQRCodeURL(fn QRCodeURLFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.qrURL = fn
		}
	}
}

// NewRenderer creates a Renderer with GFM, footnotes, typographic
// substitutions and class-based syntax highlighting. Raw HTML passes
// through, which resource cards rely on.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,         // Tables, strikethrough, linkify, task lists
				extension.Footnote,    // [^1] footnotes
				extension.Typographer, // Smart quotes, dashes, ellipses
				highlighting.NewHighlighting(
					highlighting.WithStyle(HighlightStyle),
					highlighting.WithFormatOptions(
						chromahtml.WithClasses(true),
					),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
				html.WithXHTML(),
			),
		),
		imageURL: func(_, ref, _ string) string { return ref },
		qrURL:    DefaultQRCodeURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts markdown to an HTML fragment.
func (r *Renderer) Render(markdown string, opts RenderOptions) string {
	src := normalizeLineEndings(markdown)
	if opts.Mode == coursemd.ModeFull {
		src = r.enrichLinks(src, opts)
	}
	src = RewriteImageRefs(src, func(ref string) string {
		return r.imageURL(opts.CourseCode, ref, opts.Lang)
	})

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	out := buf.String()

	if post, err := PostProcess(out); err == nil {
		out = post
	}
	return out
}

// HighlightCSS returns the stylesheet for the classes emitted by code
// highlighting. Empty when the style cannot be written.
func HighlightCSS() string {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(HighlightStyle)); err != nil {
		return ""
	}
	return b.String()
}
