package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		valid bool
	}{
		{"course", true},
		{"planb-dark", true},
		{"print_v2", true},
		{"MyStyle", true},
		{"", false},
		{"path/to/style", false},
		{"path\\to\\style", false},
		{"../secret", false},
		{"..\\secret", false},
		{"course.css", false},
		{".hidden", false},
		{"..", false},
		{"C:\\Windows", false},
		{"café", false},
		{"with space", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.valid {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
		})
	}
}

func TestValidateAssetName_MessageQuotesName(t *testing.T) {
	t.Parallel()

	err := ValidateAssetName("../evil")
	if err == nil || !strings.Contains(err.Error(), `"../evil"`) {
		t.Errorf("error should quote the rejected name, got: %v", err)
	}
}
