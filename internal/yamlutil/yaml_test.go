package yamlutil_test

// Notes:
// - TestInputSizeLimit mutates MaxInputSize and therefore does not run in parallel
// - goccy/go-yaml error texts are not asserted; only the yamlutil prefix is

import (
	"errors"
	"strings"
	"testing"

	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

type courseFile struct {
	Level  string   `yaml:"level"`
	Hours  int      `yaml:"hours"`
	Topics []string `yaml:"topics"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding into structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "known fields",
			data: []byte("level: beginner\nhours: 12\ntopics:\n  - bitcoin\n  - wallets"),
			dest: &courseFile{},
			check: func(t *testing.T, v any) {
				c := v.(*courseFile)
				if c.Level != "beginner" || c.Hours != 12 {
					t.Errorf("got %+v", c)
				}
				if len(c.Topics) != 2 || c.Topics[1] != "wallets" {
					t.Errorf("Topics = %v", c.Topics)
				}
			},
		},
		{
			name: "unknown fields ignored",
			data: []byte("level: expert\nprofessors_id:\n  - abc"),
			dest: &courseFile{},
			check: func(t *testing.T, v any) {
				if c := v.(*courseFile); c.Level != "expert" {
					t.Errorf("Level = %q, want %q", c.Level, "expert")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &courseFile{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &courseFile{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("level: beginner"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid syntax",
			data:    []byte("topics: [unclosed"),
			dest:    &courseFile{},
			wantErr: errors.New("yamlutil:"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			checkErr(t, err, tt.wantErr)
			if tt.wantErr == nil && tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown fields are rejected
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "known fields only", data: []byte("level: beginner\nhours: 3")},
		{name: "unknown field", data: []byte("level: beginner\ncolour: red"), wantErr: errors.New("yamlutil:")},
		{name: "nil data", data: nil, wantErr: yamlutil.ErrNilData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var c courseFile
			checkErr(t, yamlutil.UnmarshalStrict(tt.data, &c), tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// TestDecodeMapping - Top-level mapping documents
// ---------------------------------------------------------------------------

func TestDecodeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantKey string
		wantLen int
		wantErr error
	}{
		{name: "mapping", data: "name: Test\ngoal: Learn", wantKey: "name", wantLen: 2},
		{name: "null document", data: "~", wantLen: 0},
		{name: "sequence", data: "- a\n- b", wantErr: yamlutil.ErrNotMapping},
		{name: "scalar", data: "just text", wantErr: yamlutil.ErrNotMapping},
		{name: "empty", data: "", wantErr: yamlutil.ErrNilData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := yamlutil.DecodeMapping([]byte(tt.data))
			checkErr(t, err, tt.wantErr)
			if tt.wantErr != nil {
				return
			}
			if len(m) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(m), tt.wantLen)
			}
			if tt.wantKey != "" {
				if _, ok := m[tt.wantKey]; !ok {
					t.Errorf("missing key %q in %v", tt.wantKey, m)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - MaxInputSize enforcement
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	yamlutil.MaxInputSize = 50
	data := make([]byte, 100)
	copy(data, "level: x")

	var c courseFile
	err := yamlutil.Unmarshal(data, &c)
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
	if !strings.Contains(err.Error(), "100 bytes") || !strings.Contains(err.Error(), "max 50") {
		t.Errorf("error should carry sizes, got: %s", err)
	}

	if _, err := yamlutil.DecodeMapping(data); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("DecodeMapping: errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
}

func checkErr(t *testing.T, err, want error) {
	t.Helper()
	if want == nil {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if errors.Is(err, want) {
		return
	}
	if !strings.Contains(err.Error(), want.Error()) {
		t.Fatalf("error = %q, want containing %q", err, want)
	}
}
