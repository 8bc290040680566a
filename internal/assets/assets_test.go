package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{
			name:      "default style returns content",
			styleName: DefaultStyleName,
		},
		{
			name:      "nonexistent style returns ErrStyleNotFound",
			styleName: "nonexistent",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "empty name returns ErrInvalidAssetName",
			styleName: "",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "path traversal returns ErrInvalidAssetName",
			styleName: "../secret",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "valid name that does not exist",
			styleName: "my_style",
			wantErr:   ErrStyleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := LoadStyle(tt.styleName)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if content == "" {
				t.Errorf("LoadStyle(%q) returned empty content", tt.styleName)
			}
		})
	}
}

func TestLoadStyle_CoversRenderedClasses(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}

	// Classes emitted by the renderer and the page templates.
	for _, class := range []string{
		".cover-page", ".toc-page", ".part-header", ".chapter-header",
		".img-wrap", "li.task-list-item", ".resource-card", ".resource-card__qr",
		".question-block", ".answer-key", ".final-page",
	} {
		if !strings.Contains(css, class) {
			t.Errorf("course style should define %s", class)
		}
	}
}

func TestLoadTemplateSet(t *testing.T) {
	t.Parallel()

	ts, err := LoadTemplateSet(DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("LoadTemplateSet(%q) error = %v", DefaultTemplateSetName, err)
	}
	if ts.Name != DefaultTemplateSetName {
		t.Errorf("Name = %q, want %q", ts.Name, DefaultTemplateSetName)
	}

	for _, f := range ts.files() {
		if strings.TrimSpace(*f.dst) == "" {
			t.Errorf("%s is empty", f.name)
		}
	}

	expectedParts := map[string]string{
		"cover":    ts.Cover,
		"toc":      ts.TOC,
		"body":     ts.Body,
		"final":    ts.Final,
		"quiz":     ts.Quiz,
		"answers":  ts.Answers,
		"footer":   ts.Footer,
		"document": ts.Document,
	}
	wants := map[string][]string{
		"cover":    {"cover-title", "{{.Title}}", `.Tr.T "words.goal"`},
		"toc":      {"toc-chapter", "{{.Anchor}}"},
		"body":     {"chapter-header", "{{.HTML}}"},
		"final":    {"final-credit-row", "{{.ReviewQR}}"},
		"quiz":     {"question-block", "choice-letter"},
		"answers":  {"answer-item", "{{.CorrectLetter}}"},
		"footer":   {"pageNumber", "totalPages"},
		"document": {"<!DOCTYPE html>", "{{.Pages}}", "</head>"},
	}
	for name, parts := range wants {
		for _, part := range parts {
			if !strings.Contains(expectedParts[name], part) {
				t.Errorf("%s template should contain %q", name, part)
			}
		}
	}
}

func TestLoadTemplateSet_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setName string
		wantErr error
	}{
		{"nonexistent set", "nonexistent", ErrTemplateSetNotFound},
		{"empty name", "", ErrInvalidAssetName},
		{"traversal", "../default", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadTemplateSet(tt.setName)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadTemplateSet(%q) error = %v, want %v", tt.setName, err, tt.wantErr)
			}
		})
	}
}
