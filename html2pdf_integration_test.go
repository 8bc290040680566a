//go:build integration

package contenttopdf

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PlanB-Network/content-to-pdf/internal/pipeline"
	"github.com/PlanB-Network/content-to-pdf/internal/templates"
)

func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	if len(data) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(data))
	}
}

// ---------------------------------------------------------------------------
// TestRodConverter_ToPDF_Integration - Real browser renders
// ---------------------------------------------------------------------------

func TestRodConverter_ToPDF_Integration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><h1>Hello, Bitcoin!</h1><p>A test document.</p></body>
</html>`

	t.Run("plain document", func(t *testing.T) {
		t.Parallel()

		converter := newRodConverter(testTimeout)
		defer converter.Close()

		data, err := converter.ToPDF(ctx, html, nil)
		if err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		assertValidPDF(t, data)
	})

	t.Run("styled document with footer template", func(t *testing.T) {
		t.Parallel()

		pages, err := templates.NewDefault()
		if err != nil {
			t.Fatalf("NewDefault() error = %v", err)
		}
		footer, err := pages.Footer(templates.Footer{CourseCode: "btc101", Title: "Test", Version: "abc1234"})
		if err != nil {
			t.Fatalf("Footer() error = %v", err)
		}
		styled := (&pipeline.CSSInjection{}).InjectCSS(ctx, html, "h1 { color: #f7931a; }")

		converter := newRodConverter(testTimeout)
		defer converter.Close()

		data, err := converter.ToPDF(ctx, styled, &pdfOptions{FooterTemplate: footer})
		if err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		assertValidPDF(t, data)
	})
}

// ---------------------------------------------------------------------------
// TestRendererPool_Integration - Generator output through the pool
// ---------------------------------------------------------------------------

func TestRendererPool_Integration(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator(newFakeSource())
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	for _, typ := range []DocType{TypeCourse, TypeQuiz} {
		t.Run(string(typ), func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 2*testTimeout)
			defer cancel()

			res, err := g.Generate(ctx, Request{Code: "btc101", Lang: "en", Type: typ, Answers: true})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			data, err := testPool.Render(ctx, res)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			assertValidPDF(t, data)
		})
	}
}

// ---------------------------------------------------------------------------
// TestRodRenderer_Integration - Browser lifecycle and early exits
// ---------------------------------------------------------------------------

func TestRodRenderer_EnsureBrowser_CI(t *testing.T) {
	t.Setenv("CI", "true")

	renderer := newRodRenderer(testTimeout)
	defer renderer.Close()

	if err := renderer.ensureBrowser(); err != nil {
		t.Fatalf("ensureBrowser() with CI=true error = %v", err)
	}
	if renderer.browser == nil {
		t.Error("browser should not be nil after ensureBrowser()")
	}
}

func TestRodRenderer_RenderFromFile_EarlyExit(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{name: "cancelled", ctx: cancelled, want: context.Canceled},
		{name: "deadline exceeded", ctx: expired, want: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			renderer := newRodRenderer(testTimeout)
			defer renderer.Close()

			_, err := renderer.RenderFromFile(tt.ctx, "/tmp/nonexistent.html", nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
