package coursemd

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

const frontmatterDelim = "---"

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// YAML between dashed delimiters only, so TOML "+++" blocks stay body.
	yamlFormat = frontmatter.NewFormat(frontmatterDelim, frontmatterDelim, decodeBlock)
)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(s string) string {
	return crlfOrCR.ReplaceAllString(s, "\n")
}

// decodeBlock unmarshals a frontmatter block into a *map[string]any.
// A block that is empty or holds only whitespace decodes to an empty map.
func decodeBlock(data []byte, v any) error {
	out, ok := v.(*map[string]any)
	if !ok || out == nil {
		return yamlutil.ErrNilDestination
	}
	if len(bytes.TrimSpace(data)) == 0 {
		*out = map[string]any{}
		return nil
	}
	m, err := yamlutil.DecodeMapping(data)
	if err != nil {
		return err
	}
	*out = m
	return nil
}

// ExtractFrontmatter splits raw into its YAML metadata and the body after
// the closing delimiter.
//
// When the delimiters are absent, or the block is not a valid YAML mapping,
// it returns an empty map and raw unchanged. An empty block yields an empty
// map and the body.
func ExtractFrontmatter(raw string) (map[string]any, string) {
	first, _, _ := strings.Cut(raw, "\n")
	if strings.TrimRight(first, " \t") != frontmatterDelim {
		return map[string]any{}, raw
	}

	// The parser only recognises delimiter lines that end in a newline.
	src := raw
	padded := !strings.HasSuffix(src, "\n")
	if padded {
		src += "\n"
	}

	var data map[string]any
	body, err := frontmatter.MustParse(strings.NewReader(src), &data, yamlFormat)
	if err != nil {
		return map[string]any{}, raw
	}
	if data == nil {
		data = map[string]any{}
	}

	rest := string(body)
	if padded {
		rest = strings.TrimSuffix(rest, "\n")
	}
	return data, rest
}

// DecodeFrontmatter reads the course fields from decoded frontmatter.
// Values of the wrong type are treated as absent.
func DecodeFrontmatter(data map[string]any) Frontmatter {
	fm := Frontmatter{Objectives: []string{}}
	if s, ok := data["name"].(string); ok {
		fm.Name = s
	}
	if s, ok := data["goal"].(string); ok {
		fm.Goal = s
	}
	if list, ok := data["objectives"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				fm.Objectives = append(fm.Objectives, s)
			}
		}
	}
	return fm
}
