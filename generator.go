package contenttopdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PlanB-Network/content-to-pdf/internal/assets"
	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
	"github.com/PlanB-Network/content-to-pdf/internal/i18n"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/pipeline"
	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
	"github.com/PlanB-Network/content-to-pdf/internal/templates"
)

// dateLayout formats cover dates.
const dateLayout = "2006-01-02"

// lineEndings folds CRLF and lone CR before frontmatter is split.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Generator builds course, quiz and teacher guide documents from a source.
// A Generator is safe for concurrent use.
type Generator struct {
	src        source.Source
	pages      *templates.Pages
	renderer   *pipeline.Renderer
	injector   pipeline.CSSInjector
	shuffler   *quiz.Shuffler
	log        *logger.Logger
	css        string
	footerLogo string
	now        func() time.Time
}

// NewGenerator creates a Generator reading from src.
// Without options it uses the embedded templates and course stylesheet.
func NewGenerator(src source.Source, opts ...Option) (*Generator, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidRequest)
	}

	g := &Generator{
		src:      src,
		injector: &pipeline.CSSInjection{},
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.pages == nil {
		pages, err := templates.NewDefault()
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		g.pages = pages
	}
	if g.css == "" {
		css, err := assets.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return nil, fmt.Errorf("loading style: %w", err)
		}
		g.css = css
	}
	if g.shuffler == nil {
		g.shuffler = quiz.NewShuffler(nil)
	}
	g.renderer = pipeline.NewRenderer(pipeline.WithImageURL(src.ImageURL))

	return g, nil
}

// document is an assembled page list before wrapping.
type document struct {
	title       string // <title> of the HTML document
	footerTitle string
	pages       []string
}

// Generate builds the document described by req.
// The context is used for cancellation of source fetches.
func (g *Generator) Generate(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("generation panicked", "code", req.Code, "lang", req.Lang, "type", string(req.Type), "panic", fmt.Sprint(r))
			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Type, _ = ParseDocType(string(req.Type))

	log := g.log.With("code", req.Code, "lang", req.Lang, "type", string(req.Type))
	log.Info("generating document")
	start := time.Now()

	var doc *document
	switch req.Type {
	case TypeCourse, TypeCourseFull:
		doc, err = g.course(ctx, req, log)
	case TypeQuiz:
		doc, err = g.quiz(ctx, req, log)
	case TypeTeacherGuide:
		doc, err = g.teacherGuide(ctx, req, log)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err = g.assemble(ctx, req, doc)
	if err != nil {
		return nil, err
	}
	log.Info("document generated", "title", res.Title, "bytes", len(res.HTML), "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// assemble wraps the pages, injects the stylesheet and builds the footer.
func (g *Generator) assemble(ctx context.Context, req Request, doc *document) (*Result, error) {
	html, err := g.pages.Document(req.Lang, doc.title, doc.pages...)
	if err != nil {
		return nil, err
	}
	html = g.injector.InjectCSS(ctx, html, g.css+"\n"+pipeline.HighlightCSS())

	logo := g.footerLogo
	if req.PresenterLogo != "" {
		logo = req.PresenterLogo
	}
	footer, err := g.pages.Footer(templates.Footer{
		CourseCode: req.Code,
		Title:      doc.footerTitle,
		Version:    g.src.Version(ctx, req.Code, req.Lang),
		Logo:       logo,
	})
	if err != nil {
		return nil, err
	}

	return &Result{HTML: html, Title: doc.title, Footer: footer}, nil
}

// translator loads the platform locale of lang and English. A missing or
// broken locale falls back to English, then to built-in labels.
func (g *Generator) translator(ctx context.Context, lang string, log *logger.Logger) *i18n.Translator {
	locale, err := g.src.Locale(ctx, lang)
	if err != nil {
		log.Warn("locale unavailable", "locale", lang, "error", err)
		locale = nil
	}
	if lang == "en" {
		return i18n.New(locale, locale)
	}
	english, err := g.src.Locale(ctx, "en")
	if err != nil {
		log.Warn("locale unavailable", "locale", "en", "error", err)
		english = nil
	}
	return i18n.New(locale, english)
}

func (g *Generator) cover(req Request, c templates.Cover, tr templates.Translator) (string, error) {
	c.CourseCode = req.Code
	c.Lang = req.Lang
	c.Date = g.now().Format(dateLayout)
	c.PresenterName = req.PresenterName
	c.PresenterLogo = req.PresenterLogo
	return g.pages.Cover(c, tr)
}

func (g *Generator) renderFunc(req Request, opts pipeline.RenderOptions) templates.RenderFunc {
	opts.CourseCode = req.Code
	opts.Lang = req.Lang
	return func(markdown string) string {
		return g.renderer.Render(markdown, opts)
	}
}

// ---------------------------------------------------------------------------
// Course
// ---------------------------------------------------------------------------

func (g *Generator) course(ctx context.Context, req Request, log *logger.Logger) (*document, error) {
	var (
		raw string
		yml *source.CourseYAML
		tr  *i18n.Translator
	)

	log.Info("fetching course content")
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		raw, err = g.src.CourseMarkdown(ectx, req.Code, req.Lang)
		return err
	})
	eg.Go(func() (err error) {
		yml, err = g.src.CourseYAML(ectx, req.Code)
		return err
	})
	eg.Go(func() error {
		tr = g.translator(ectx, req.Lang, log)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	mode := coursemd.ModeDefault
	if req.Type == TypeCourseFull {
		mode = coursemd.ModeFull
	}

	log.Info("parsing markdown structure", "mode", mode.String())
	parsed := coursemd.Parse(raw, mode)
	log.Debug("course parsed", "parts", len(parsed.Parts), "chapters", parsed.ChapterCount(), "review", parsed.ReviewChapterID)

	var (
		teachers []string
		opts     = pipeline.RenderOptions{Mode: mode}
		meta     errgroup.Group
	)
	meta.Go(func() error {
		names, err := g.src.ProfessorNames(ctx, yml.ProfessorsID)
		if err != nil {
			log.Warn("professor names unavailable", "error", err)
			return nil
		}
		teachers = names
		return nil
	})
	if mode == coursemd.ModeFull {
		content := parsed.AllContent()
		meta.Go(func() error {
			opts.Tutorials = g.src.TutorialsMeta(ctx, coursemd.ExtractTutorialURLs(content), req.Lang)
			return nil
		})
		meta.Go(func() error {
			opts.Courses = g.src.CoursesMeta(ctx, coursemd.ExtractCourseURLs(content), req.Lang)
			return nil
		})
	}
	_ = meta.Wait()
	log.Debug("metadata resolved", "teachers", len(teachers), "tutorials", len(opts.Tutorials), "courses", len(opts.Courses))

	name := parsed.Frontmatter.Name
	if name == "" {
		name = strings.ToUpper(req.Code)
	}

	log.Info("generating cover page")
	cover, err := g.cover(req, templates.Cover{
		Name:       name,
		Goal:       parsed.Frontmatter.Goal,
		Objectives: parsed.Frontmatter.Objectives,
	}, tr)
	if err != nil {
		return nil, err
	}

	log.Info("generating table of contents")
	toc, err := g.pages.TOC(parsed.Parts, tr)
	if err != nil {
		return nil, err
	}

	log.Info("rendering course content")
	body, err := g.pages.Body(parsed.Parts, tr, g.renderFunc(req, opts))
	if err != nil {
		return nil, err
	}

	log.Info("generating final page")
	final, err := g.pages.Final(templates.Final{
		CourseCode:      req.Code,
		CourseID:        yml.ID,
		CourseName:      name,
		ReviewChapterID: parsed.ReviewChapterID,
		Lang:            req.Lang,
		Teachers:        teachers,
		Contributors:    yml.ContributorNames,
		Proofreaders:    yml.Proofreaders(req.Lang),
	}, tr)
	if err != nil {
		return nil, err
	}

	title := name
	if req.Type == TypeCourseFull {
		title = name + " — Full"
	}
	return &document{title: title, footerTitle: name, pages: []string{cover, toc, body, final}}, nil
}

// ---------------------------------------------------------------------------
// Quiz
// ---------------------------------------------------------------------------

func (g *Generator) quiz(ctx context.Context, req Request, log *logger.Logger) (*document, error) {
	var (
		questions []quiz.Question
		raw       string
		tr        *i18n.Translator
	)

	log.Info("loading quiz questions")
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		questions, err = g.src.QuizQuestions(ectx, req.Code, req.Lang)
		return err
	})
	eg.Go(func() (err error) {
		_, err = g.src.CourseYAML(ectx, req.Code)
		return err
	})
	eg.Go(func() error {
		md, err := g.src.CourseMarkdown(ectx, req.Code, req.Lang)
		if err != nil {
			log.Debug("course markdown unavailable for quiz cover", "error", err)
			return nil
		}
		raw = md
		return nil
	})
	eg.Go(func() error {
		tr = g.translator(ectx, req.Lang, log)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w for %s in %s", ErrNoQuestions, req.Code, req.Lang)
	}
	log.Info("questions found", "count", len(questions))

	selected := g.shuffler.Subset(questions, req.Count)
	shuffled := g.shuffler.Shuffle(selected)

	name, goal := quizCoverText(raw, req.Code)

	log.Info("generating cover page")
	cover, err := g.cover(req, templates.Cover{
		Name:          name,
		Goal:          goal,
		IsQuiz:        true,
		QuestionCount: len(selected),
	}, tr)
	if err != nil {
		return nil, err
	}

	log.Info("shuffling and generating quiz")
	sheet, err := g.pages.Quiz(req.Code, shuffled, tr)
	if err != nil {
		return nil, err
	}
	pages := []string{cover, sheet}

	if req.Answers {
		log.Info("generating answer key")
		key, err := g.pages.Answers(shuffled, tr)
		if err != nil {
			return nil, err
		}
		pages = append(pages, key)
	}

	return &document{title: name + " - Quiz", footerTitle: name, pages: pages}, nil
}

// quizCoverText reads name and goal from the frontmatter of a course file,
// falling back to the upper-cased code as name. The course file may be
// missing or carry broken frontmatter.
func quizCoverText(raw, code string) (name, goal string) {
	data, _ := coursemd.ExtractFrontmatter(lineEndings.Replace(raw))
	fm := coursemd.DecodeFrontmatter(data)

	name = strings.ToUpper(code)
	if s := strings.TrimSpace(fm.Name); s != "" {
		name = s
	}
	return name, strings.TrimSpace(fm.Goal)
}

// ---------------------------------------------------------------------------
// Teacher guide
// ---------------------------------------------------------------------------

func (g *Generator) teacherGuide(ctx context.Context, req Request, log *logger.Logger) (*document, error) {
	log.Info("loading teacher guide")
	guide, err := g.src.TeacherGuide(ctx, req.Code, req.Lang)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("teacher guide not available for %s (%s): %w", req.Code, req.Lang, err)
		}
		return nil, err
	}

	var (
		courseRaw string
		tr        *i18n.Translator
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		_, err = g.src.CourseYAML(ectx, req.Code)
		return err
	})
	eg.Go(func() error {
		md, err := g.src.CourseMarkdown(ectx, req.Code, req.Lang)
		if err != nil {
			log.Warn("course markdown unavailable for guide cover", "error", err)
			return nil
		}
		courseRaw = md
		return nil
	})
	eg.Go(func() error {
		tr = g.translator(ectx, req.Lang, log)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Info("parsing markdown structure")
	parsed := coursemd.ParseTeacherGuide(guide)
	course := coursemd.Parse(courseRaw, coursemd.ModeDefault)

	name := parsed.Frontmatter.Name
	if name == "" {
		name = course.Frontmatter.Name
	}
	if name == "" {
		name = strings.ToUpper(req.Code)
	}
	goal := course.Frontmatter.Goal
	if goal == "" {
		goal = parsed.Frontmatter.Goal
	}
	objectives := course.Frontmatter.Objectives
	if len(objectives) == 0 {
		objectives = parsed.Frontmatter.Objectives
	}

	log.Info("generating cover page")
	cover, err := g.cover(req, templates.Cover{
		Name:       name,
		Goal:       goal,
		Objectives: objectives,
	}, tr)
	if err != nil {
		return nil, err
	}

	log.Info("generating table of contents")
	toc, err := g.pages.TOC(parsed.Parts, tr)
	if err != nil {
		return nil, err
	}

	log.Info("rendering guide content")
	body, err := g.pages.Body(parsed.Parts, tr, g.renderFunc(req, pipeline.RenderOptions{Mode: coursemd.ModeDefault}))
	if err != nil {
		return nil, err
	}

	title := parsed.Frontmatter.Name
	if title == "" {
		title = strings.ToUpper(req.Code) + " — Teacher Guide"
	}
	return &document{title: title, footerTitle: title, pages: []string{cover, toc, body}}, nil
}
