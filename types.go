package contenttopdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
	"github.com/PlanB-Network/content-to-pdf/internal/templates"
)

// DocType selects what Generate builds.
type DocType string

// Document type constants.
const (
	TypeCourse       DocType = "course"
	TypeCourseFull   DocType = "course-full"
	TypeQuiz         DocType = "quiz"
	TypeTeacherGuide DocType = "teacher-guide"
)

// DocTypes lists the accepted document types.
var DocTypes = []DocType{TypeCourse, TypeCourseFull, TypeQuiz, TypeTeacherGuide}

// ParseDocType validates s as a document type. Case-insensitive.
func ParseDocType(s string) (DocType, error) {
	t := DocType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DocTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: type %q (must be course, course-full, quiz or teacher-guide)", ErrInvalidRequest, s)
}

// Request describes one document to generate.
type Request struct {
	Code string
	Lang string
	Type DocType

	// Count limits a quiz to a random subset. Zero or a value at least the
	// number of questions keeps all of them.
	Count int
	// Answers appends the answer key to a quiz.
	Answers bool

	// Presenter shown on the cover. The logo also replaces the default
	// footer logo.
	PresenterName string
	PresenterLogo string
}

// Validate checks required fields and bounds.
func (r Request) Validate() error {
	if r.Code == "" || r.Lang == "" || r.Type == "" {
		return fmt.Errorf("%w: missing required fields: code, lang, type", ErrInvalidRequest)
	}
	if _, err := ParseDocType(string(r.Type)); err != nil {
		return err
	}
	if r.Count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidRequest, r.Count)
	}
	if err := source.Validate(r.Code, r.Lang); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// OutputName returns the PDF file name for the request, such as
// "btc101_en.pdf" or "btc101_fr_quiz_answers.pdf".
func (r Request) OutputName() string {
	base := strings.ToLower(r.Code) + "_" + r.Lang
	switch r.Type {
	case TypeCourseFull:
		base += "_full"
	case TypeQuiz:
		base += "_quiz"
		if r.Answers {
			base += "_answers"
		}
	case TypeTeacherGuide:
		base += "_teacher_guide"
	}
	return base + ".pdf"
}

// Result is a generated document.
type Result struct {
	HTML   string `json:"html"`
	Title  string `json:"title"`
	Footer string `json:"-"` // Browser footer template
}

// Option configures a Generator.
type Option func(*Generator)

// WithPages sets the page builders. Defaults to the embedded templates.
func WithPages(p *templates.Pages) Option {
	return func(g *Generator) {
		if p != nil {
			g.pages = p
		}
	}
}

// WithStyle sets the stylesheet injected into every document.
func WithStyle(css string) Option {
	return func(g *Generator) {
		g.css = css
	}
}

// WithShuffler sets the quiz shuffler, mostly to seed it in tests.
func WithShuffler(s *quiz.Shuffler) Option {
	return func(g *Generator) {
		if s != nil {
			g.shuffler = s
		}
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithFooterLogo sets the logo shown in the page footer when the request
// has no presenter logo. Must be loadable by the browser footer, which in
// practice means a data URI.
func WithFooterLogo(uri string) Option {
	return func(g *Generator) {
		g.footerLogo = uri
	}
}

// WithClock sets the clock used for cover dates.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("contenttopdf: WithClock requires a non-nil clock")
	}
	return func(g *Generator) {
		g.now = now
	}
}
