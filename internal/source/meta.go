package source

import (
	"path"
	"strings"

	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

// TutorialDir returns the repository directory of a tutorial URL,
// "tutorials/<category>/<slug>", or "" when the URL does not name one.
func TutorialDir(rawURL string) string {
	p := coursemd.TutorialPath(rawURL)
	parts := strings.Split(p, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return path.Join("tutorials", parts[0], parts[1])
}

// TutorialMetaFrom builds tutorial metadata from its markdown frontmatter.
func TutorialMetaFrom(markdown, logoURL string) (TutorialMeta, bool) {
	fm, _ := coursemd.ExtractFrontmatter(markdown)
	name, _ := fm["name"].(string)
	if name == "" {
		return TutorialMeta{}, false
	}
	desc, _ := fm["description"].(string)
	return TutorialMeta{Name: name, Description: desc, LogoURL: logoURL}, true
}

// CourseMetaFrom builds course metadata from its markdown frontmatter.
func CourseMetaFrom(code, markdown, thumbnailURL string) (CourseMeta, bool) {
	raw, _ := coursemd.ExtractFrontmatter(markdown)
	fm := coursemd.DecodeFrontmatter(raw)
	if fm.Name == "" {
		return CourseMeta{}, false
	}
	return CourseMeta{Code: code, Name: fm.Name, Goal: fm.Goal, ThumbnailURL: thumbnailURL}, true
}

type professorFile struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ParseProfessor decodes a professors/<slug>/professor.yml file.
func ParseProfessor(data []byte) (id, name string, err error) {
	var p professorFile
	if err := yamlutil.Unmarshal(data, &p); err != nil {
		return "", "", err
	}
	return p.ID, p.Name, nil
}

// NamesFor maps ids to names in id order, skipping unknown ids.
func NamesFor(ids []string, byID map[string]string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := byID[id]; n != "" {
			names = append(names, n)
		}
	}
	return names
}
