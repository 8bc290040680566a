package main

import (
	"errors"
	"os"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/assets"
	"github.com/PlanB-Network/content-to-pdf/internal/config"
	"github.com/PlanB-Network/content-to-pdf/internal/localrepo"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// Exit codes for the content-to-pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful generation
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or request
	ExitIO      = 3 // Missing content, unreadable or unwritable files
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, contenttopdf.ErrBrowserConnect) ||
		errors.Is(err, contenttopdf.ErrPageCreate) ||
		errors.Is(err, contenttopdf.ErrPageLoad) ||
		errors.Is(err, contenttopdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, contenttopdf.ErrInvalidRequest) ||
		errors.Is(err, source.ErrInvalidName) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, source.ErrNotFound) ||
		errors.Is(err, localrepo.ErrCheckoutNotFound) ||
		errors.Is(err, contenttopdf.ErrNoQuestions) ||
		errors.Is(err, ErrReadLogo) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
