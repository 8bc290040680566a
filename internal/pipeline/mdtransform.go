package pipeline

import (
	"regexp"
	"strings"

	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Markdown image ![alt](src)
	imageRef = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

	// List item marker and the spacing up to its content
	listItem = regexp.MustCompile(`^([ \t]*(?:[-*+]|\d{1,9}[.)])[ \t]+)\S`)
)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// RewriteImageRefs passes the source of every markdown image that is not an
// absolute http(s) URL through resolve. An optional link title after the
// path is preserved. Lines inside fenced code blocks are left untouched.
func RewriteImageRefs(content string, resolve func(ref string) string) string {
	return mapUnfencedLines(content, func(line string) string {
		return imageRef.ReplaceAllStringFunc(line, func(match string) string {
			m := imageRef.FindStringSubmatch(match)
			alt, src := m[1], strings.TrimSpace(m[2])
			if isAbsoluteURL(src) {
				return match
			}
			ref, title := src, ""
			if i := strings.IndexAny(src, " \t"); i >= 0 {
				ref, title = src[:i], src[i:]
			}
			return "![" + alt + "](" + resolve(ref) + title + ")"
		})
	})
}

// enrichLinks replaces standalone links and video embeds with resource card
// blocks. Each card is surrounded by blank lines so Goldmark treats it as a
// raw HTML block. An indented link under a list item is indented to the
// item's content column so the card stays inside the item.
func (r *Renderer) enrichLinks(content string, opts RenderOptions) string {
	var itemIndent string
	return mapUnfencedLines(content, func(line string) string {
		link, ok := coursemd.ParseStandaloneLink(line)
		if !ok {
			itemIndent = trackListItem(itemIndent, line)
			return line
		}
		card := r.buildCard(link, opts)
		html, err := card.render()
		if err != nil {
			return line
		}
		if itemIndent != "" && isIndented(line) {
			html = indentLines(html, itemIndent)
		}
		return "\n" + html + "\n"
	})
}

// trackListItem returns the content indent of the list item that line opens
// or continues. A non-blank line at column zero closes the list.
func trackListItem(current, line string) string {
	if strings.TrimSpace(line) == "" {
		return current
	}
	if m := listItem.FindStringSubmatch(line); m != nil {
		return strings.Repeat(" ", len(strings.ReplaceAll(m[1], "\t", "    ")))
	}
	if !isIndented(line) {
		return ""
	}
	return current
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// indentLines prefixes every non-empty line of s with indent.
func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

// mapUnfencedLines applies fn to every line outside fenced code blocks.
func mapUnfencedLines(content string, fn func(string) string) string {
	lines := strings.Split(content, "\n")
	var ft coursemd.FenceTracker
	for i, line := range lines {
		if ft.Step(line) {
			continue
		}
		lines[i] = fn(line)
	}
	return strings.Join(lines, "\n")
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
