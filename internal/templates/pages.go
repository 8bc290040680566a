// Package templates builds the pages of a generated document (cover, table
// of contents, course body, final page, quiz, answer key, footer) from an
// assets.TemplateSet, and assembles them into one HTML document.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/PlanB-Network/content-to-pdf/internal/assets"
	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
	"github.com/PlanB-Network/content-to-pdf/internal/i18n"
	"github.com/PlanB-Network/content-to-pdf/internal/pipeline"
	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// Fixed links of the final page.
const (
	DiscordURL    = "https://discord.gg/vqfba7NTKk"
	SourceTreeURL = "https://github.com/PlanB-Network/bitcoin-educational-content/tree/dev/courses/"
	License       = "CC BY-SA 4.0"
)

var (
	ErrTemplateParse  = errors.New("template parse failed")
	ErrTemplateRender = errors.New("template rendering failed")
)

// Translator resolves interface labels.
type Translator interface {
	T(key string) string
}

// RenderFunc converts one chapter of cleaned markdown to HTML.
type RenderFunc func(markdown string) string

// Pages renders the pages of one template set.
type Pages struct {
	cover    *template.Template
	toc      *template.Template
	body     *template.Template
	final    *template.Template
	quiz     *template.Template
	answers  *template.Template
	footer   *template.Template
	document *template.Template
	qrURL    pipeline.QRCodeURLFunc
}

// Option configures Pages.
type Option func(*Pages)

// WithQRCodeURL replaces the QR image builder of the final page.
func WithQRCodeURL(fn pipeline.QRCodeURLFunc) Option {
	return func(p *Pages) {
		if fn != nil {
			p.qrURL = fn
		}
	}
}

// New parses every template of set.
func New(set *assets.TemplateSet, opts ...Option) (*Pages, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrTemplateParse)
	}
	p := &Pages{qrURL: pipeline.DefaultQRCodeURL}
	for _, t := range []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"cover", set.Cover, &p.cover},
		{"toc", set.TOC, &p.toc},
		{"body", set.Body, &p.body},
		{"final", set.Final, &p.final},
		{"quiz", set.Quiz, &p.quiz},
		{"answers", set.Answers, &p.answers},
		{"footer", set.Footer, &p.footer},
		{"document", set.Document, &p.document},
	} {
		tmpl, err := template.New(t.name).Parse(t.src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrTemplateParse, set.Name, t.name, err)
		}
		*t.dst = tmpl
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewDefault parses the embedded default template set.
func NewDefault(opts ...Option) (*Pages, error) {
	set, err := assets.LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		return nil, err
	}
	return New(set, opts...)
}

// orDefaults answers from the built-in labels when tr is nil.
func orDefaults(tr Translator) Translator {
	if tr == nil {
		return i18n.New(nil, nil)
	}
	return tr
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateRender, tmpl.Name(), err)
	}
	return buf.String(), nil
}

// ---------------------------------------------------------------------------
// Cover
// ---------------------------------------------------------------------------

// Cover describes the first page.
type Cover struct {
	CourseCode    string
	Lang          string
	Name          string
	Goal          string
	Objectives    []string
	Date          string
	IsQuiz        bool
	QuestionCount int
	PresenterName string
	PresenterLogo string
}

type coverView struct {
	Tr            Translator
	Title         string
	Code          string
	LangName      string
	Date          string
	Goal          string
	Objectives    []string
	IsQuiz        bool
	QuestionCount int
	PresenterName string
	PresenterLogo template.URL
}

// Cover renders the cover page. Objectives are not shown on quiz covers.
func (p *Pages) Cover(c Cover, tr Translator) (string, error) {
	tr = orDefaults(tr)
	return execute(p.cover, coverView{
		Tr:            tr,
		Title:         c.Name,
		Code:          FormatCourseCode(c.CourseCode),
		LangName:      LanguageName(c.Lang),
		Date:          c.Date,
		Goal:          c.Goal,
		Objectives:    c.Objectives,
		IsQuiz:        c.IsQuiz,
		QuestionCount: c.QuestionCount,
		PresenterName: strings.TrimSpace(c.PresenterName),
		PresenterLogo: pipeline.SafeURL(c.PresenterLogo),
	})
}

// ---------------------------------------------------------------------------
// Table of contents and body
// ---------------------------------------------------------------------------

type chapterView struct {
	Anchor    string
	Number    string
	Title     string
	PartTitle string
	HTML      template.HTML
}

type partView struct {
	Number   int
	Title    string
	Chapters []chapterView
}

type partsView struct {
	Tr    Translator
	Parts []partView
}

// ChapterAnchor is the link target of chapter ci of part pi, both
// zero-based.
func ChapterAnchor(pi, ci int) string {
	return "chapter-" + strconv.Itoa(pi) + "-" + strconv.Itoa(ci)
}

func chapterNumber(pi, ci int) string {
	return strconv.Itoa(pi+1) + "." + strconv.Itoa(ci+1)
}

// TOC renders the table of contents. Part titles are uppercased; chapters
// are numbered "part.chapter" from 1.
func (p *Pages) TOC(parts []coursemd.Part, tr Translator) (string, error) {
	tr = orDefaults(tr)
	view := partsView{Tr: tr, Parts: make([]partView, len(parts))}
	for pi, part := range parts {
		pv := partView{Number: pi + 1, Title: strings.ToUpper(part.Title)}
		for ci, ch := range part.Chapters {
			pv.Chapters = append(pv.Chapters, chapterView{
				Anchor: ChapterAnchor(pi, ci),
				Number: chapterNumber(pi, ci),
				Title:  ch.Title,
			})
		}
		view.Parts[pi] = pv
	}
	return execute(p.toc, view)
}

// Body renders every part header, chapter header and chapter content.
// render converts chapter markdown; its output is trusted HTML.
func (p *Pages) Body(parts []coursemd.Part, tr Translator, render RenderFunc) (string, error) {
	tr = orDefaults(tr)
	view := partsView{Tr: tr, Parts: make([]partView, len(parts))}
	for pi, part := range parts {
		pv := partView{Number: pi + 1, Title: part.Title}
		for ci, ch := range part.Chapters {
			pv.Chapters = append(pv.Chapters, chapterView{
				Anchor:    ChapterAnchor(pi, ci),
				Number:    chapterNumber(pi, ci),
				Title:     ch.Title,
				PartTitle: part.Title,
				HTML:      template.HTML(render(ch.Content)), // #nosec G203 -- renderer output
			})
		}
		view.Parts[pi] = pv
	}
	return execute(p.body, view)
}

// ---------------------------------------------------------------------------
// Final page
// ---------------------------------------------------------------------------

// Final describes the closing page of a course.
type Final struct {
	CourseCode      string
	CourseID        string
	CourseName      string
	ReviewChapterID string
	Lang            string
	Teachers        []string
	Contributors    []string
	Proofreaders    []string
}

type creditView struct {
	Label string
	Value string
	Link  template.URL
}

type finalView struct {
	Tr         Translator
	CourseName string
	ReviewURL  template.URL
	ReviewQR   template.URL
	Credits    []creditView
	DiscordURL template.URL
	DiscordQR  template.URL
}

// ReviewURL is the platform page where a course is reviewed: its review
// chapter when it has one, the course page otherwise.
func ReviewURL(lang, courseID, reviewChapterID string) string {
	return source.CourseURL(lang, courseID, reviewChapterID)
}

// Final renders the closing page: review QR, credits, contribution block.
// Credit rows without names are omitted; license and source always show.
func (p *Pages) Final(f Final, tr Translator) (string, error) {
	tr = orDefaults(tr)
	review := ReviewURL(f.Lang, f.CourseID, f.ReviewChapterID)
	sourceURL := SourceTreeURL + url.PathEscape(f.CourseCode)

	var credits []creditView
	for _, row := range []struct {
		key   string
		names []string
	}{
		{"courses.final.teacher", f.Teachers},
		{"courses.final.contributors", f.Contributors},
		{"courses.final.proofreaders", f.Proofreaders},
	} {
		if len(row.names) > 0 {
			credits = append(credits, creditView{Label: tr.T(row.key), Value: strings.Join(row.names, ", ")})
		}
	}
	credits = append(credits,
		creditView{Label: tr.T("courses.final.license"), Value: License},
		creditView{Label: tr.T("courses.final.source"), Value: sourceURL, Link: pipeline.SafeURL(sourceURL)},
	)

	return execute(p.final, finalView{
		Tr:         tr,
		CourseName: f.CourseName,
		ReviewURL:  pipeline.SafeURL(review),
		ReviewQR:   pipeline.SafeURL(p.qrURL(review)),
		Credits:    credits,
		DiscordURL: pipeline.SafeURL(DiscordURL),
		DiscordQR:  pipeline.SafeURL(p.qrURL(DiscordURL)),
	})
}

// ---------------------------------------------------------------------------
// Quiz
// ---------------------------------------------------------------------------

type quizView struct {
	Tr        Translator
	Code      string
	Questions []quiz.Shuffled
}

// Quiz renders the question sheet.
func (p *Pages) Quiz(courseCode string, questions []quiz.Shuffled, tr Translator) (string, error) {
	tr = orDefaults(tr)
	return execute(p.quiz, quizView{Tr: tr, Code: strings.ToUpper(courseCode), Questions: questions})
}

// Answers renders the answer key with explanations.
func (p *Pages) Answers(questions []quiz.Shuffled, tr Translator) (string, error) {
	tr = orDefaults(tr)
	return execute(p.answers, quizView{Tr: tr, Questions: questions})
}

// ---------------------------------------------------------------------------
// Footer and document
// ---------------------------------------------------------------------------

// Footer describes the running page footer.
type Footer struct {
	CourseCode string
	Title      string
	Version    string
	Logo       string
}

type footerView struct {
	Code    string
	Title   string
	Version string
	Logo    template.URL
}

// Footer renders the browser footer template. The pageNumber and
// totalPages spans are filled in by the browser at print time.
func (p *Pages) Footer(f Footer) (string, error) {
	version := ""
	if f.Version != "" {
		version = "Version: " + f.Version
	}
	return execute(p.footer, footerView{
		Code:    FormatCourseCode(f.CourseCode),
		Title:   f.Title,
		Version: version,
		Logo:    pipeline.SafeURL(f.Logo),
	})
}

type documentView struct {
	Lang  string
	Title string
	Pages template.HTML
}

// Document wraps rendered pages in the HTML shell.
func (p *Pages) Document(lang, title string, pages ...string) (string, error) {
	return execute(p.document, documentView{
		Lang:  lang,
		Title: title,
		Pages: template.HTML(strings.Join(pages, "\n")), // #nosec G203 -- pages rendered by this package
	})
}
