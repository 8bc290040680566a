package coursemd

// Notes:
// - tokenize/buildOutline are tested directly because the skip rules are
//   easier to reason about once span slicing is known to be correct
// - Parse is exercised end to end with small dialect documents

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

const sampleCourse = "---\nname: Test\ngoal: Learn\nobjectives:\n  - A\n---\nintro text\n+++\n# Part One\n\n<partId>p1</partId>\n## Chapter One\n\n<chapterId>c1</chapterId>\nBody text."

// ---------------------------------------------------------------------------
// TestParse_EndToEnd - Reference document
// ---------------------------------------------------------------------------

func TestParse_EndToEnd(t *testing.T) {
	t.Parallel()

	doc := Parse(sampleCourse, ModeDefault)

	want := &Document{
		Frontmatter: Frontmatter{Name: "Test", Goal: "Learn", Objectives: []string{"A"}},
		Intro:       "intro text",
		Parts: []Part{{
			Title:  "Part One",
			PartID: "p1",
			Chapters: []Chapter{{
				Title:     "Chapter One",
				ChapterID: "c1",
				Content:   "Body text.",
			}},
		}},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("Parse() =\n%+v\nwant\n%+v", doc, want)
	}
	if doc.HasReview() {
		t.Error("HasReview() = true, want false")
	}
}

func TestParse_CRLF(t *testing.T) {
	t.Parallel()

	doc := Parse(strings.ReplaceAll(sampleCourse, "\n", "\r\n"), ModeDefault)
	if len(doc.Parts) != 1 || doc.Parts[0].Chapters[0].Content != "Body text." {
		t.Fatalf("CRLF document parsed as %+v", doc.Parts)
	}
	if doc.Frontmatter.Name != "Test" {
		t.Errorf("Name = %q, want %q", doc.Frontmatter.Name, "Test")
	}
}

// ---------------------------------------------------------------------------
// TestParse_Order - Source order of parts and chapters
// ---------------------------------------------------------------------------

func TestParse_Order(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("+++\n")
	for _, p := range []string{"z", "a", "m"} {
		b.WriteString("# Part " + p + "\n<partId>" + p + "</partId>\n")
		for _, c := range []string{"3", "1", "2"} {
			b.WriteString("## Chapter " + p + c + "\n<chapterId>" + p + c + "</chapterId>\ntext " + p + c + "\n")
		}
	}

	doc := Parse(b.String(), ModeDefault)

	var got []string
	for _, p := range doc.Parts {
		got = append(got, p.PartID)
		for _, c := range p.Chapters {
			got = append(got, c.ChapterID)
		}
	}
	want := []string{"z", "z3", "z1", "z2", "a", "a3", "a1", "a2", "m", "m3", "m1", "m2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestParse_Filtering - Skip titles and directives
// ---------------------------------------------------------------------------

func TestParse_Filtering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		mode        Mode
		wantParts   []string
		wantChapter []string
	}{
		{
			name: "exam directive drops chapter regardless of title",
			body: "# P\n<partId>p</partId>\n## Normal\n<chapterId>c1</chapterId>\nA\n" +
				"## Looks Normal\n<chapterId>c2</chapterId>\n<isCourseExam>true</isCourseExam>\nB",
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
		{
			name: "exam directive with false value keeps chapter",
			body: "# P\n<partId>p</partId>\n## Normal\n<chapterId>c1</chapterId>\n<isCourseExam>false</isCourseExam>\nA",
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
		{
			name: "review and conclusion directives drop chapters",
			body: "# P\n<partId>p</partId>\n## Keep\n<chapterId>c1</chapterId>\nA\n" +
				"## Rate\n<chapterId>c2</chapterId>\n<isCourseReview>true</isCourseReview>\n" +
				"## Bye\n<chapterId>c3</chapterId>\n<isCourseConclusion>true</isCourseConclusion>\nthanks",
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
		{
			name: "final section part dropped in any case",
			body: "# P\n<partId>p</partId>\n## A\n<chapterId>c1</chapterId>\nA\n" +
				"# FINAL section\n<partId>f</partId>\n## Worthy\n<chapterId>c2</chapterId>\nStill dropped",
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
		{
			name: "skip titled chapters",
			body: "# P\n<partId>p</partId>\n## Reviews & Ratings\n<chapterId>c1</chapterId>\nA\n" +
				"##  Conclusion \n<chapterId>c2</chapterId>\nB\n## Body\n<chapterId>c3</chapterId>\nC",
			wantParts:   []string{"p"},
			wantChapter: []string{"c3"},
		},
		{
			name:        "part without surviving chapters dropped",
			body:        "# P\n<partId>p</partId>\n## Final Exam\n<chapterId>c1</chapterId>\nA",
			wantParts:   nil,
			wantChapter: nil,
		},
		{
			name:        "empty chapter kept in default mode",
			body:        "# P\n<partId>p</partId>\n## Empty\n<chapterId>c1</chapterId>\nhttps://example.com",
			mode:        ModeDefault,
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
		{
			name:        "empty chapter dropped in full mode",
			body:        "# P\n<partId>p</partId>\n## Empty\n<chapterId>c1</chapterId>\ntrue\n\n## Full\n<chapterId>c2</chapterId>\nhttps://example.com",
			mode:        ModeFull,
			wantParts:   []string{"p"},
			wantChapter: []string{"c2"},
		},
		{
			name:        "chapters before first part ignored",
			body:        "## Orphan\n<chapterId>o</chapterId>\ntext\n# P\n<partId>p</partId>\n## A\n<chapterId>c1</chapterId>\nA",
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
		{
			name:        "untagged headings are not markers",
			body:        "# Plain\nno tag\n## Also plain\ntext",
			wantParts:   nil,
			wantChapter: nil,
		},
		{
			name: "headings inside code fences are not markers",
			body: "# P\n<partId>p</partId>\n## A\n<chapterId>c1</chapterId>\n```md\n## Fake\n<chapterId>fake</chapterId>\n```\nafter",
			wantParts:   []string{"p"},
			wantChapter: []string{"c1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Parse("+++\n"+tt.body, tt.mode)
			var parts, chapters []string
			for _, p := range doc.Parts {
				parts = append(parts, p.PartID)
				for _, c := range p.Chapters {
					chapters = append(chapters, c.ChapterID)
				}
			}
			if !reflect.DeepEqual(parts, tt.wantParts) {
				t.Errorf("parts = %v, want %v", parts, tt.wantParts)
			}
			if !reflect.DeepEqual(chapters, tt.wantChapter) {
				t.Errorf("chapters = %v, want %v", chapters, tt.wantChapter)
			}
		})
	}
}

func TestParse_FencedChapterBodyKept(t *testing.T) {
	t.Parallel()

	doc := Parse("# P\n<partId>p</partId>\n## A\n<chapterId>c1</chapterId>\n```\n# not a part\n```", ModeDefault)
	if len(doc.Parts) != 1 || len(doc.Parts[0].Chapters) != 1 {
		t.Fatalf("unexpected tree %+v", doc.Parts)
	}
	if got := doc.Parts[0].Chapters[0].Content; !strings.Contains(got, "# not a part") {
		t.Errorf("content = %q, want fenced heading preserved", got)
	}
}

// ---------------------------------------------------------------------------
// TestParse_Review - Review chapter id
// ---------------------------------------------------------------------------

func TestParse_Review(t *testing.T) {
	t.Parallel()

	raw := "+++\n# P\n<partId>p</partId>\n## A\n<chapterId>c1</chapterId>\nA\n" +
		"# Final Section\n<partId>f</partId>\n## Reviews & Ratings\n<chapterId>rev</chapterId>\n<isCourseReview>true</isCourseReview>"

	doc := Parse(raw, ModeDefault)
	if doc.ReviewChapterID != "rev" {
		t.Errorf("ReviewChapterID = %q, want %q", doc.ReviewChapterID, "rev")
	}
	if !doc.HasReview() {
		t.Error("HasReview() = false, want true")
	}
	for _, p := range doc.Parts {
		for _, c := range p.Chapters {
			if c.ChapterID == "rev" {
				t.Error("review chapter reached the tree")
			}
		}
	}
}

func TestParse_NoMarkers(t *testing.T) {
	t.Parallel()

	doc := Parse("just some text", ModeDefault)
	if doc.Intro != "" {
		t.Errorf("Intro = %q, want empty", doc.Intro)
	}
	if doc.Parts == nil || len(doc.Parts) != 0 {
		t.Errorf("Parts = %v, want empty slice", doc.Parts)
	}
	if doc.Frontmatter.Objectives == nil {
		t.Error("Objectives is nil, want empty slice")
	}
}

// ---------------------------------------------------------------------------
// TestParseTeacherGuide - Plain heading dialect
// ---------------------------------------------------------------------------

func TestParseTeacherGuide(t *testing.T) {
	t.Parallel()

	raw := "---\nname: Guide\n---\nWelcome\n+++\n# Preparing\nprep intro\n## Materials\nPaper\n## Final Exam\nstill kept\n# Empty Part\n# Running\n## Session\nTalk <partId>x</partId>"

	doc := ParseTeacherGuide(raw)

	if doc.Frontmatter.Name != "Guide" || doc.Intro != "Welcome" {
		t.Errorf("frontmatter/intro = %+v / %q", doc.Frontmatter, doc.Intro)
	}
	want := []Part{
		{Title: "Preparing", PartID: "tg-part-0", Chapters: []Chapter{
			{Title: "Materials", ChapterID: "tg-0-0", Content: "Paper"},
			{Title: "Final Exam", ChapterID: "tg-0-1", Content: "still kept"},
		}},
		{Title: "Empty Part", PartID: "tg-part-1", Chapters: []Chapter{}},
		{Title: "Running", PartID: "tg-part-2", Chapters: []Chapter{
			{Title: "Session", ChapterID: "tg-2-0", Content: "Talk"},
		}},
	}
	if !reflect.DeepEqual(doc.Parts, want) {
		t.Errorf("Parts =\n%+v\nwant\n%+v", doc.Parts, want)
	}
	if doc.HasReview() {
		t.Error("teacher guide must not carry a review id")
	}
}

func TestParseTeacherGuide_NoSeparator(t *testing.T) {
	t.Parallel()

	doc := ParseTeacherGuide("# One\n## A\ntext")
	if len(doc.Parts) != 1 || doc.Parts[0].Chapters[0].ChapterID != "tg-0-0" {
		t.Fatalf("Parts = %+v", doc.Parts)
	}
}

// ---------------------------------------------------------------------------
// TestTokenize - Marker sequence
// ---------------------------------------------------------------------------

func TestTokenize(t *testing.T) {
	t.Parallel()

	s := "# A\n<partId>pa</partId>\n## A1\n\n\n<chapterId>ca1</chapterId>\nx\n~~~\n# F\n<partId>pf</partId>\n~~~\n# B\n<partId>pb</partId>\n## B1\n<chapterId>cb1</chapterId>\n"
	ms := tokenize(s, taggedHeadings)

	var got []string
	for _, m := range ms {
		got = append(got, m.id)
	}
	if want := []string{"pa", "ca1", "pb", "cb1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if !sort.SliceIsSorted(ms, func(i, j int) bool { return ms[i].start < ms[j].start }) {
		t.Error("markers not in source order")
	}
	for _, m := range ms {
		if m.end <= m.start {
			t.Errorf("marker %q has empty span", m.id)
		}
	}
}

func TestMergeMarkers(t *testing.T) {
	t.Parallel()

	a := []marker{{start: 0}, {start: 10}, {start: 30}}
	b := []marker{{start: 5}, {start: 20}, {start: 40}, {start: 50}}

	var got []int
	for _, m := range mergeMarkers(a, b) {
		got = append(got, m.start)
	}
	if want := []int{0, 5, 10, 20, 30, 40, 50}; !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %v, want %v", got, want)
	}
}

func TestDocument_AllContent(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Intro: "intro",
		Parts: []Part{
			{Chapters: []Chapter{{Content: "one"}, {Content: "two"}}},
			{Chapters: []Chapter{{Content: "three"}}},
		},
	}
	if got, want := doc.AllContent(), "intro\n\none\n\ntwo\n\nthree"; got != want {
		t.Errorf("AllContent() = %q, want %q", got, want)
	}
	if got := doc.ChapterCount(); got != 3 {
		t.Errorf("ChapterCount() = %d, want 3", got)
	}
}
