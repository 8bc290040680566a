package main

import (
	"context"
	"io"
	"os"
	"time"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
)

// PDFRenderer prints generated documents and owns browser resources.
type PDFRenderer interface {
	Render(ctx context.Context, res *contenttopdf.Result) ([]byte, error)
	Size() int
	Close() error
}

var _ PDFRenderer = (*contenttopdf.RendererPool)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Logger replaces the logger built from the config when set.
	Logger *logger.Logger
	// NewRenderer creates the PDF renderer pool.
	NewRenderer func(workers int, timeout time.Duration) PDFRenderer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		NewRenderer: func(workers int, timeout time.Duration) PDFRenderer {
			return contenttopdf.NewRendererPool(workers, timeout)
		},
	}
}
