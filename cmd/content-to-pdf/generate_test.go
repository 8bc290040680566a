package main

// Notes:
// - generateBatch/report: driven through a fake renderer; browser rendering
//   is covered by the root integration tests.
// - presenterLogo: we test MIME detection and read failures, not every
//   image extension.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake renderer
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	mu      sync.Mutex
	size    int
	err     error
	titles  []string
	closed  bool
	workers int
	timeout time.Duration
}

var _ PDFRenderer = (*fakeRenderer)(nil)

func (r *fakeRenderer) Render(_ context.Context, res *contenttopdf.Result) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.titles = append(r.titles, res.Title)
	return []byte("%PDF-1.4 fake " + res.Title), nil
}

func (r *fakeRenderer) Size() int {
	if r.size == 0 {
		return 1
	}
	return r.size
}

func (r *fakeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// TestDocType - Command to document type
// ---------------------------------------------------------------------------

func TestDocType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  string
		full bool
		want contenttopdf.DocType
	}{
		{"course", false, contenttopdf.TypeCourse},
		{"course", true, contenttopdf.TypeCourseFull},
		{"quiz", false, contenttopdf.TypeQuiz},
		{"guide", false, contenttopdf.TypeTeacherGuide},
	}

	for _, tt := range tests {
		if got := docType(tt.cmd, tt.full); got != tt.want {
			t.Errorf("docType(%q, %v) = %v, want %v", tt.cmd, tt.full, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPresenterLogo - Image files as data URIs
// ---------------------------------------------------------------------------

func TestPresenterLogo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	png := filepath.Join(dir, "logo.PNG")
	if err := os.WriteFile(png, []byte("PNG"), 0o644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		got, err := presenterLogo("")
		if err != nil || got != "" {
			t.Errorf("presenterLogo(\"\") = %q, %v", got, err)
		}
	})

	t.Run("png", func(t *testing.T) {
		t.Parallel()

		got, err := presenterLogo(png)
		if err != nil {
			t.Fatal(err)
		}
		if got != "data:image/png;base64,UE5H" {
			t.Errorf("presenterLogo() = %q", got)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		t.Parallel()

		if _, err := presenterLogo(txt); !errors.Is(err, ErrReadLogo) {
			t.Errorf("error = %v, want ErrReadLogo", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := presenterLogo(filepath.Join(dir, "missing.jpg"))
		if !errors.Is(err, ErrReadLogo) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want ErrReadLogo wrapping ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestReport - Result printing and error aggregation
// ---------------------------------------------------------------------------

func TestReport(t *testing.T) {
	t.Parallel()

	ok := jobResult{
		job:      job{req: contenttopdf.Request{Code: "btc101", Lang: "en"}, output: "out/btc101_en.pdf"},
		duration: 1500 * time.Millisecond,
	}
	failed := jobResult{
		job: job{req: contenttopdf.Request{Code: "btc101", Lang: "fr"}, output: "out/btc101_fr.pdf"},
		err: source.ErrNotFound,
	}

	t.Run("single success", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := report([]jobResult{ok}, false, &Environment{Stdout: &stdout, Stderr: &stderr})
		if err != nil {
			t.Fatal(err)
		}
		if stdout.String() != "Created out/btc101_en.pdf\n" {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("verbose shows duration", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		_ = report([]jobResult{ok}, true, &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}})
		if !strings.Contains(stdout.String(), "(1.5s)") {
			t.Errorf("stdout = %q, want duration", stdout.String())
		}
	})

	t.Run("single failure keeps error", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := report([]jobResult{failed}, false, &Environment{Stdout: &stdout, Stderr: &stderr})
		if !errors.Is(err, source.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
		if stderr.Len() != 0 || stdout.Len() != 0 {
			t.Errorf("single job should not print summary: %q / %q", stdout.String(), stderr.String())
		}
	})

	t.Run("batch summary", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := report([]jobResult{ok, failed, failed}, false, &Environment{Stdout: &stdout, Stderr: &stderr})
		if err == nil || !strings.Contains(err.Error(), "2 documents failed") {
			t.Errorf("error = %v", err)
		}
		if !errors.Is(err, source.ErrNotFound) {
			t.Error("joined error should wrap the job errors")
		}
		if !strings.Contains(stdout.String(), "1 succeeded, 2 failed") {
			t.Errorf("stdout = %q", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED btc101_fr.pdf") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestHTMLOutputPath - Companion HTML file name
// ---------------------------------------------------------------------------

func TestHTMLOutputPath(t *testing.T) {
	t.Parallel()

	if got := htmlOutputPath(filepath.Join("out", "btc101_en.pdf")); got != filepath.Join("out", "btc101_en.html") {
		t.Errorf("htmlOutputPath() = %q", got)
	}
}
