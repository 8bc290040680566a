package source

import (
	"fmt"

	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

// Proofreading lists who reviewed a translation.
type Proofreading struct {
	Language         string   `yaml:"language"`
	ContributorNames []string `yaml:"contributor_names"`
}

// CourseYAML is the subset of course.yml used in documents.
type CourseYAML struct {
	ID               string         `yaml:"id"`
	Level            string         `yaml:"level"`
	Hours            float64        `yaml:"hours"`
	Type             string         `yaml:"type"`
	Topic            string         `yaml:"topic"`
	ProfessorsID     []string       `yaml:"professors_id"`
	ContributorNames []string       `yaml:"contributor_names"`
	OriginalLanguage string         `yaml:"original_language"`
	Proofreading     []Proofreading `yaml:"proofreading"`
}

// ParseCourseYAML decodes course.yml. Unknown fields are ignored and empty
// level, type and topic take their platform defaults.
func ParseCourseYAML(data []byte) (*CourseYAML, error) {
	var c CourseYAML
	if err := yamlutil.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("course.yml: %w", err)
	}
	if c.Level == "" {
		c.Level = "beginner"
	}
	if c.Type == "" {
		c.Type = "theory"
	}
	if c.Topic == "" {
		c.Topic = "bitcoin"
	}
	return &c, nil
}

// Proofreaders returns the proofreaders of the lang translation.
func (c *CourseYAML) Proofreaders(lang string) []string {
	for _, p := range c.Proofreading {
		if p.Language == lang {
			return p.ContributorNames
		}
	}
	return nil
}
