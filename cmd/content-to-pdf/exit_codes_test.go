package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every package the CLI calls,
//   plus wrapped and joined errors to verify the errors.Is() chain.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/assets"
	"github.com/PlanB-Network/content-to-pdf/internal/config"
	"github.com/PlanB-Network/content-to-pdf/internal/localrepo"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", contenttopdf.ErrBrowserConnect, ExitBrowser},
		{"page create", contenttopdf.ErrPageCreate, ExitBrowser},
		{"page load", contenttopdf.ErrPageLoad, ExitBrowser},
		{"pdf generation", contenttopdf.ErrPDFGeneration, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", contenttopdf.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"content not found", source.ErrNotFound, ExitIO},
		{"checkout not found", localrepo.ErrCheckoutNotFound, ExitIO},
		{"no questions", contenttopdf.ErrNoQuestions, ExitIO},
		{"read logo", ErrReadLogo, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"wrapped not found", fmt.Errorf("course: %w", source.ErrNotFound), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid request", contenttopdf.ErrInvalidRequest, ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"template set not found", assets.ErrTemplateSetNotFound, ExitUsage},
		{"incomplete template set", assets.ErrIncompleteTemplateSet, ExitUsage},
		{"invalid asset name", assets.ErrInvalidAssetName, ExitUsage},
		{"invalid base path", assets.ErrInvalidBasePath, ExitUsage},
		{"invalid name", source.ErrInvalidName, ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"internal error", contenttopdf.ErrInternal, ExitGeneral},

		// Joined errors keep the first matching class
		{"joined browser and io", errors.Join(source.ErrNotFound, contenttopdf.ErrPageLoad), ExitBrowser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes = %d/%d/%d, want 0/1/2", ExitSuccess, ExitGeneral, ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code >= 126 {
			t.Errorf("custom exit code %d must be below 126", code)
		}
	}
}
