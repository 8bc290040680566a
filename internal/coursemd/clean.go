package coursemd

import (
	"regexp"
	"strings"
)

var (
	tagPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<partId>[^<]*</partId>`),
		regexp.MustCompile(`<chapterId>[^<]*</chapterId>`),
		regexp.MustCompile(`<isCourseReview>[^<]*</isCourseReview>`),
		regexp.MustCompile(`<isCourseExam>[^<]*</isCourseExam>`),
		regexp.MustCompile(`<isCourseConclusion>[^<]*</isCourseConclusion>`),
	}

	separatorLine = regexp.MustCompile(`(?m)^\+\+\+[ \t]*$`)
	uuidLine      = regexp.MustCompile(`(?m)^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}[ \t]*$`)
	booleanLine   = regexp.MustCompile(`(?m)^[ \t]*(?:true|false)[ \t]*$`)
	echoBlock     = regexp.MustCompile(`(?ms)^---[ \t]*\n.*?name:.*?\n---[ \t]*$`)
	bareURLLine   = regexp.MustCompile(`(?m)^https?://[^\s]+[ \t]*$`)
	embedLine     = regexp.MustCompile(`(?m)^[ \t]*!\[[^\]\n]*\]\(([^)\s]+)\)[ \t]*$`)
	extraNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean strips structural residue from a content span.
//
// Id and directive tags are removed anywhere. Separator, UUID, boolean and
// frontmatter echo lines are removed when they stand alone. ModeDefault also
// removes bare URL lines and video embed lines. Runs of blank lines collapse
// to one and the result is trimmed.
//
// Passes repeat until the text stops changing, so Clean(Clean(s)) equals
// Clean(s) even when a removal exposes a new match. Every effective pass
// shortens the text, which bounds the loop.
func Clean(content string, mode Mode) string {
	c := normalizeLineEndings(content)
	for {
		next := cleanOnce(c, mode)
		if next == c {
			return c
		}
		c = next
	}
}

func cleanOnce(c string, mode Mode) string {
	for _, re := range tagPatterns {
		c = re.ReplaceAllString(c, "")
	}
	c = separatorLine.ReplaceAllString(c, "")
	c = uuidLine.ReplaceAllString(c, "")
	c = booleanLine.ReplaceAllString(c, "")
	if mode == ModeDefault {
		c = bareURLLine.ReplaceAllString(c, "")
		c = embedLine.ReplaceAllStringFunc(c, func(line string) string {
			m := embedLine.FindStringSubmatch(line)
			if IsVideoURL(m[1]) {
				return ""
			}
			return line
		})
	}
	c = echoBlock.ReplaceAllString(c, "")
	c = extraNewlines.ReplaceAllString(c, "\n\n")
	return strings.TrimSpace(c)
}
