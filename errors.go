package contenttopdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoQuestions    = errors.New("no quiz questions found")
	ErrInternal       = errors.New("internal error")

	// Browser errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPoolClosed     = errors.New("renderer pool closed")
)
