package coursemd

import (
	"fmt"
	"regexp"
	"strings"
)

// Titles of wrap-up sections that never reach the rendered course.
var skipTitles = map[string]bool{
	"final section":     true,
	"reviews & ratings": true,
	"final exam":        true,
	"conclusion":        true,
}

var (
	taggedPart    = regexp.MustCompile(`(?m)^# (.+)\n+<partId>([^<]+)</partId>`)
	taggedChapter = regexp.MustCompile(`(?m)^## (.+)\n+<chapterId>([^<]+)</chapterId>`)
	plainPart     = regexp.MustCompile(`(?m)^# (.+)$`)
	plainChapter  = regexp.MustCompile(`(?m)^## (.+)$`)

	reviewDirective = regexp.MustCompile(`<isCourseReview>\s*true\s*</isCourseReview>`)
	examDirective   = regexp.MustCompile(`<isCourseExam>([^<]*)</isCourseExam>`)
	conclDirective  = regexp.MustCompile(`<isCourseConclusion>([^<]*)</isCourseConclusion>`)
)

const (
	levelPart    = 1
	levelChapter = 2
)

// marker is one heading boundary found by the tokenizer.
// start and end delimit the heading match; the body follows end.
type marker struct {
	level int
	title string
	id    string
	start int
	end   int
}

// headingMatcher is the strategy distinguishing the two dialects.
type headingMatcher struct {
	part    *regexp.Regexp
	chapter *regexp.Regexp
	// tagged matchers capture the id as the second group.
	tagged bool
}

var (
	taggedHeadings = headingMatcher{part: taggedPart, chapter: taggedChapter, tagged: true}
	plainHeadings  = headingMatcher{part: plainPart, chapter: plainChapter}
)

// tokenize returns the heading markers of s in source order.
// Headings inside fenced code blocks are ignored.
func tokenize(s string, hm headingMatcher) []marker {
	fenced := fencedLineStarts(s)
	parts := findMarkers(s, hm.part, levelPart, hm.tagged, fenced)
	chapters := findMarkers(s, hm.chapter, levelChapter, hm.tagged, fenced)
	return mergeMarkers(parts, chapters)
}

func findMarkers(s string, re *regexp.Regexp, level int, tagged bool, fenced map[int]bool) []marker {
	var out []marker
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if fenced[loc[0]] {
			continue
		}
		m := marker{
			level: level,
			title: strings.TrimSpace(s[loc[2]:loc[3]]),
			start: loc[0],
			end:   loc[1],
		}
		if tagged {
			m.id = strings.TrimSpace(s[loc[4]:loc[5]])
		}
		out = append(out, m)
	}
	return out
}

// mergeMarkers merges two offset-ordered lists into one.
func mergeMarkers(a, b []marker) []marker {
	out := make([]marker, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].start <= b[j].start {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// section is a marker with its body resolved.
type section struct {
	marker
	body string
}

// outline groups markers into parts and their chapters.
// Chapters appearing before the first part are discarded.
type outline struct {
	part     section
	chapters []section
}

func buildOutline(s string, markers []marker) []outline {
	var (
		out  []outline
		open *outline
	)
	for i, m := range markers {
		next := len(s)
		if i+1 < len(markers) {
			next = markers[i+1].start
		}
		sec := section{marker: m, body: strings.TrimSpace(s[m.end:next])}

		switch m.level {
		case levelPart:
			out = append(out, outline{part: sec})
			open = &out[len(out)-1]
		case levelChapter:
			if open == nil {
				continue
			}
			open.chapters = append(open.chapters, sec)
		}
	}
	return out
}

// Parse parses a tagged course document.
//
// Parts and chapters keep source order. Wrap-up sections and chapters
// carrying a review, exam or conclusion directive are dropped, as are parts
// left without chapters. In ModeFull, chapters whose cleaned content is
// empty are dropped too.
func Parse(raw string, mode Mode) *Document {
	data, body := ExtractFrontmatter(normalizeLineEndings(raw))
	intro, main := SplitIntro(body)

	doc := &Document{
		Frontmatter:     DecodeFrontmatter(data),
		Intro:           Clean(intro, mode),
		Parts:           []Part{},
		ReviewChapterID: FindReviewChapterID(main),
	}

	for _, o := range buildOutline(main, tokenize(main, taggedHeadings)) {
		if isSkipTitle(o.part.title) {
			continue
		}
		part := Part{Title: o.part.title, PartID: o.part.id}
		for _, sec := range o.chapters {
			if isSkipTitle(sec.title) || hasExclusionDirective(sec.body) {
				continue
			}
			content := Clean(sec.body, mode)
			if mode == ModeFull && content == "" {
				continue
			}
			part.Chapters = append(part.Chapters, Chapter{
				Title:     sec.title,
				ChapterID: sec.id,
				Content:   content,
			})
		}
		if len(part.Chapters) > 0 {
			doc.Parts = append(doc.Parts, part)
		}
	}
	return doc
}

// ParseTeacherGuide parses a teacher guide written with plain headings.
//
// Ids are synthesized as tg-part-<p> and tg-<p>-<c> (zero-based, in
// emission order). No filtering applies and parts without chapters are kept.
// Text between a part heading and its first chapter is not retained.
func ParseTeacherGuide(raw string) *Document {
	data, body := ExtractFrontmatter(normalizeLineEndings(raw))
	intro, main := SplitIntro(body)

	doc := &Document{
		Frontmatter: DecodeFrontmatter(data),
		Intro:       Clean(intro, ModeDefault),
		Parts:       []Part{},
	}

	for p, o := range buildOutline(main, tokenize(main, plainHeadings)) {
		part := Part{
			Title:    o.part.title,
			PartID:   fmt.Sprintf("tg-part-%d", p),
			Chapters: []Chapter{},
		}
		for c, sec := range o.chapters {
			part.Chapters = append(part.Chapters, Chapter{
				Title:     sec.title,
				ChapterID: fmt.Sprintf("tg-%d-%d", p, c),
				Content:   Clean(sec.body, ModeDefault),
			})
		}
		doc.Parts = append(doc.Parts, part)
	}
	return doc
}

func isSkipTitle(title string) bool {
	return skipTitles[strings.ToLower(strings.TrimSpace(title))]
}

// hasExclusionDirective reports whether a raw chapter span marks the chapter
// as the course review, exam or conclusion. Exam and conclusion tags count
// unless their value is "false".
func hasExclusionDirective(span string) bool {
	if reviewDirective.MatchString(span) {
		return true
	}
	for _, re := range []*regexp.Regexp{examDirective, conclDirective} {
		for _, m := range re.FindAllStringSubmatch(span, -1) {
			if !strings.EqualFold(strings.TrimSpace(m[1]), "false") {
				return true
			}
		}
	}
	return false
}

