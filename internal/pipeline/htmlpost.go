package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PostProcess applies the structural HTML passes to a rendered fragment:
//   - list items holding a checkbox get class "task-list-item"; the
//     checkbox is disabled and reflects the checked state
//   - list items starting with a literal "[ ]" or "[x]" get a checkbox
//   - a paragraph whose only content is one image becomes
//     <div class="img-wrap">
//
// A fragment holding no list item and no image is returned unchanged, so
// raw markup the passes would not touch is never normalized.
func PostProcess(fragment string) (string, error) {
	if !needsStructuralPass(fragment) {
		return fragment, nil
	}
	doc, isFragment, err := parseHTML(fragment)
	if err != nil {
		return "", err
	}
	walk(doc)
	return renderHTML(doc, isFragment)
}

func needsStructuralPass(fragment string) bool {
	lower := strings.ToLower(fragment)
	return strings.Contains(lower, "<li") || strings.Contains(lower, "<img")
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree back to a string. Fragments render their
// children only, so no <html><body> wrapper is added.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Li:
			processListItem(n)
		case atom.P:
			wrapStandaloneImage(n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
}

// processListItem marks task list items. The checkbox is looked up as the
// first element of the item, or of its first paragraph in loose lists.
func processListItem(li *html.Node) {
	holder := li
	if first := firstNonBlank(li); first != nil && first.DataAtom == atom.P {
		holder = first
	}

	first := firstNonBlank(holder)
	if first == nil {
		return
	}

	switch {
	case first.Type == html.ElementNode && first.DataAtom == atom.Input && attr(first, "type") == "checkbox":
		setAttr(first, "disabled", "")
	case first.Type == html.TextNode:
		checked, rest, ok := literalTaskMarker(first.Data)
		if !ok {
			return
		}
		first.Data = rest
		box := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Input,
			Data:     "input",
			Attr: []html.Attribute{
				{Key: "type", Val: "checkbox"},
				{Key: "disabled", Val: ""},
			},
		}
		if checked {
			setAttr(box, "checked", "")
		}
		holder.InsertBefore(box, first)
	default:
		return
	}
	addClass(li, "task-list-item")
}

// literalTaskMarker recognizes "[ ] ", "[x] " and "[X] " prefixes.
func literalTaskMarker(s string) (checked bool, rest string, ok bool) {
	t := strings.TrimLeft(s, " \t\n")
	if len(t) < 3 || t[0] != '[' || t[2] != ']' {
		return false, s, false
	}
	switch t[1] {
	case ' ':
	case 'x', 'X':
		checked = true
	default:
		return false, s, false
	}
	rest = t[3:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return false, s, false
	}
	return checked, rest, true
}

// wrapStandaloneImage turns <p><img></p> into <div class="img-wrap"><img></div>.
func wrapStandaloneImage(p *html.Node) {
	var img *html.Node
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == html.ElementNode && c.DataAtom == atom.Img && img == nil:
			img = c
		default:
			return
		}
	}
	if img == nil {
		return
	}
	p.DataAtom = atom.Div
	p.Data = "div"
	addClass(p, "img-wrap")
}

func firstNonBlank(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type == html.CommentNode {
			continue
		}
		return c
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func addClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return
			}
		}
		n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
