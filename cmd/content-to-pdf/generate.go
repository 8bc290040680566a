package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/config"
	"github.com/PlanB-Network/content-to-pdf/internal/fileutil"
	"github.com/PlanB-Network/content-to-pdf/internal/localrepo"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
)

// Sentinel errors for CLI file operations.
var (
	ErrReadLogo    = errors.New("failed to read presenter logo")
	ErrWriteOutput = errors.New("failed to write output file")
)

// job is one document to generate.
type job struct {
	req    contenttopdf.Request
	output string
}

// jobResult holds the outcome of one job.
type jobResult struct {
	job
	err      error
	duration time.Duration
}

func docType(cmd string, full bool) contenttopdf.DocType {
	switch {
	case cmd == "quiz":
		return contenttopdf.TypeQuiz
	case cmd == "guide":
		return contenttopdf.TypeTeacherGuide
	case full:
		return contenttopdf.TypeCourseFull
	default:
		return contenttopdf.TypeCourse
	}
}

// runGenerate writes one PDF per requested language from the local
// checkouts.
func runGenerate(ctx context.Context, cmd string, f *cliFlags, cfg *config.Config, log *logger.Logger, env *Environment) error {
	langs := languages(f.doc.lang)
	if f.doc.code == "" || len(langs) == 0 {
		return fmt.Errorf("%w: --code and --lang are required", ErrUsage)
	}

	logo, err := presenterLogo(f.doc.presenterLogo)
	if err != nil {
		return err
	}

	jobs := make([]job, 0, len(langs))
	for _, lang := range langs {
		req := contenttopdf.Request{
			Code:          strings.ToLower(f.doc.code),
			Lang:          lang,
			Type:          docType(cmd, f.doc.full),
			Count:         f.doc.count,
			Answers:       f.doc.answers,
			PresenterName: f.doc.presenterName,
			PresenterLogo: logo,
		}
		if err := req.Validate(); err != nil {
			return err
		}
		jobs = append(jobs, job{req: req, output: filepath.Join(cfg.Output.Dir, req.OutputName())})
	}

	repo, err := localrepo.New(cfg.Local.BECPath,
		localrepo.WithLocalesPath(cfg.Local.LocalesPath),
		localrepo.WithGuidesPath(cfg.Local.GuidesPath),
		localrepo.WithLogger(log),
		localrepo.WithClock(env.Now),
	)
	if err != nil {
		return err
	}

	pages, css, err := loadAssets(cfg)
	if err != nil {
		return err
	}
	gen, err := contenttopdf.NewGenerator(repo,
		contenttopdf.WithPages(pages),
		contenttopdf.WithStyle(css),
		contenttopdf.WithLogger(log),
		contenttopdf.WithFooterLogo(repo.Logo()),
		contenttopdf.WithClock(env.Now),
	)
	if err != nil {
		return err
	}

	workers := min(contenttopdf.ResolvePoolSize(cfg.PDF.Workers), len(jobs))
	log.Debug("renderer pool", "size", workers, "timeout", cfg.PDFTimeout().String())
	pdf := env.NewRenderer(workers, cfg.PDFTimeout())
	defer func() {
		if err := pdf.Close(); err != nil {
			log.Warn("closing browsers", "error", err)
		}
	}()

	results := generateBatch(ctx, gen, pdf, jobs, f.doc.html, log)
	return report(results, f.common.verbose, env)
}

// generateBatch runs jobs concurrently, one worker per renderer.
func generateBatch(ctx context.Context, gen *contenttopdf.Generator, pdf PDFRenderer, jobs []job, writeHTML bool, log *logger.Logger) []jobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pdf.Size(), len(jobs))
	results := make([]jobResult, len(jobs))
	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = jobResult{job: jobs[idx], err: err}
					continue
				}
				results[idx] = generateOne(ctx, gen, pdf, jobs[idx], writeHTML, log)
			}
		}()
	}
	wg.Wait()
	return results
}

func generateOne(ctx context.Context, gen *contenttopdf.Generator, pdf PDFRenderer, j job, writeHTML bool, log *logger.Logger) jobResult {
	start := time.Now()
	result := jobResult{job: j}
	done := func(err error) jobResult {
		result.err = err
		result.duration = time.Since(start)
		return result
	}

	doc, err := gen.Generate(ctx, j.req)
	if err != nil {
		return done(err)
	}

	if writeHTML {
		if err := fileutil.WriteOutput(htmlOutputPath(j.output), []byte(doc.HTML)); err != nil {
			return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
	}

	log.Info("rendering PDF", "lang", j.req.Lang, "output", j.output)
	data, err := pdf.Render(ctx, doc)
	if err != nil {
		return done(err)
	}
	if err := fileutil.WriteOutput(j.output, data); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return done(nil)
}

func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}

// report prints the outcome of every job and returns the failures. A single
// failure is returned as is so its exit code survives.
func report(results []jobResult, verbose bool, env *Environment) error {
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.req.OutputName(), r.err)
			}
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "Created %s (%v)\n", r.output, r.duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.output)
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-len(errs), len(errs))
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%d documents failed: %w", len(errs), errors.Join(errs...))
	}
}

// presenterLogo reads an image file as a data URI. An empty path yields "".
func presenterLogo(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	if !strings.HasPrefix(typ, "image/") {
		return "", fmt.Errorf("%w: %s is not a supported image", ErrReadLogo, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied CLI path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadLogo, err)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
