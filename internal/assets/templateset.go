package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// TemplateSet holds the html/template sources of one document layout.
type TemplateSet struct {
	Name     string // Identifier (name or directory path)
	Cover    string // Cover page
	TOC      string // Table of contents
	Body     string // Parts and chapters
	Final    string // Review, credits and closing page
	Quiz     string // Quiz questions
	Answers  string // Quiz answer key
	Footer   string // Chrome page footer template
	Document string // HTML shell wrapping the pages
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "course"

type templateFile struct {
	name string
	dst  *string
}

func (ts *TemplateSet) files() []templateFile {
	return []templateFile{
		{"cover.html", &ts.Cover},
		{"toc.html", &ts.TOC},
		{"body.html", &ts.Body},
		{"final.html", &ts.Final},
		{"quiz.html", &ts.Quiz},
		{"answers.html", &ts.Answers},
		{"footer.html", &ts.Footer},
		{"document.html", &ts.Document},
	}
}

// readTemplateSet fills a TemplateSet through read, which receives a file
// name such as "cover.html".
func readTemplateSet(name string, read func(file string) ([]byte, error)) (*TemplateSet, error) {
	ts := &TemplateSet{Name: name}
	var missing []string

	files := ts.files()
	for _, f := range files {
		content, err := read(f.name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, f.name)
				continue
			}
			return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, f.name, err)
		}
		*f.dst = string(content)
	}

	switch {
	case len(missing) == len(files):
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	case len(missing) > 0:
		return nil, fmt.Errorf("%w: %q missing %v", ErrIncompleteTemplateSet, name, missing)
	}
	return ts, nil
}
