package coursemd

import (
	"regexp"
	"strings"
)

var (
	introSeparator = regexp.MustCompile(`(?m)^\+\+\+[ \t]*$`)

	// A chapter id followed only by whitespace and a true review directive.
	reviewPattern = regexp.MustCompile(`<chapterId>([^<]+)</chapterId>\s*<isCourseReview>true</isCourseReview>`)
)

// SplitIntro splits content at the first line holding only +++.
// Without a separator the intro is empty and main is the whole content.
// Both results are trimmed.
func SplitIntro(content string) (intro, main string) {
	loc := introSeparator.FindStringIndex(content)
	if loc == nil {
		return "", strings.TrimSpace(content)
	}
	return strings.TrimSpace(content[:loc[0]]), strings.TrimSpace(content[loc[1]:])
}

// FindReviewChapterID returns the id of the first chapter immediately
// followed by <isCourseReview>true</isCourseReview>, or "" when none is.
// It must run on the whole body: the pair can straddle chapter spans.
func FindReviewChapterID(main string) string {
	m := reviewPattern.FindStringSubmatch(main)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
