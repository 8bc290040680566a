package coursemd

import "strings"

// Frontmatter holds the course metadata declared at the top of a document.
type Frontmatter struct {
	Name       string
	Goal       string
	Objectives []string
}

// Chapter is a single content unit. Content is cleaned markdown, not HTML.
type Chapter struct {
	Title     string
	ChapterID string
	Content   string
}

// Part groups chapters under a top-level heading.
type Part struct {
	Title    string
	PartID   string
	Chapters []Chapter
}

// Document is the parsed form of one course or teacher guide.
// ReviewChapterID is empty when the document declares no review chapter.
type Document struct {
	Frontmatter     Frontmatter
	Intro           string
	Parts           []Part
	ReviewChapterID string
}

// HasReview reports whether a review chapter id was found.
func (d *Document) HasReview() bool {
	return d.ReviewChapterID != ""
}

// ChapterCount returns the number of chapters across all parts.
func (d *Document) ChapterCount() int {
	n := 0
	for _, p := range d.Parts {
		n += len(p.Chapters)
	}
	return n
}

// AllContent joins the intro and every chapter body, in document order.
// Used to collect the links a document references before rendering.
func (d *Document) AllContent() string {
	var b strings.Builder
	b.WriteString(d.Intro)
	for _, p := range d.Parts {
		for _, ch := range p.Chapters {
			b.WriteString("\n\n")
			b.WriteString(ch.Content)
		}
	}
	return b.String()
}
