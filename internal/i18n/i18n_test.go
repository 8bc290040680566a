package i18n

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParse - Locale JSON decoding
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "nested object", data: `{"words":{"goal":"Objectif"}}`},
		{name: "empty object", data: `{}`},
		{name: "array", data: `["a"]`, wantErr: true},
		{name: "null", data: `null`, wantErr: true},
		{name: "malformed", data: `{"words":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr, err := Parse([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLocale) {
					t.Errorf("Parse() error = %v, want ErrInvalidLocale", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if tr == nil {
				t.Error("Parse() returned nil translations")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLookup - Dotted key paths
// ---------------------------------------------------------------------------

func TestLookup(t *testing.T) {
	t.Parallel()

	tr, err := Parse([]byte(`{
		"words": {"goal": "Objectif", "empty": "", "count": 3},
		"courses": {"final": {"credits": "Crédits"}}
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"words.goal", "Objectif", true},
		{"courses.final.credits", "Crédits", true},
		{"courses.final", "", false},
		{"words.empty", "", false},
		{"words.count", "", false},
		{"words.goal.deeper", "", false},
		{"missing.key", "", false},
	}

	for _, tt := range tests {
		got, ok := tr.Lookup(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}

	var nilTr Translations
	if _, ok := nilTr.Lookup("words.goal"); ok {
		t.Error("nil Translations should find nothing")
	}
}

// ---------------------------------------------------------------------------
// TestTranslator - Language, English, default and key fallbacks
// ---------------------------------------------------------------------------

func TestTranslator(t *testing.T) {
	t.Parallel()

	fr := Translations{"words": map[string]any{"goal": "Objectif"}}
	en := Translations{
		"words":   map[string]any{"goal": "Goal (en)", "chapter": "Chapter (en)"},
		"courses": map[string]any{"quizz": map[string]any{"quizz": ""}},
	}

	tests := []struct {
		name string
		tr   *Translator
		key  string
		want string
	}{
		{"language wins", New(fr, en), "words.goal", "Objectif"},
		{"english fallback", New(fr, en), "words.chapter", "Chapter (en)"},
		{"empty english falls to default", New(fr, en), "courses.quizz.quizz", "Quiz"},
		{"default", New(nil, nil), "courses.details.curriculum", "Curriculum"},
		{"unknown key echoes", New(fr, en), "no.such.key", "no.such.key"},
		{"nil translator", nil, "words.goal", "Goal"},
		{"zero translator", &Translator{}, "words.part", "Part"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.tr.T(tt.key); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
