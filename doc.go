// Package contenttopdf turns courses of the Bitcoin educational content
// repository into printable documents.
//
// # Quick Start
//
// Create a generator over a content source, then render the result:
//
//	src, err := localrepo.New("../bitcoin-educational-content")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen, err := contenttopdf.NewGenerator(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := gen.Generate(ctx, contenttopdf.Request{
//	    Code: "btc101",
//	    Lang: "en",
//	    Type: contenttopdf.TypeCourse,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pool := contenttopdf.NewRendererPool(1, 60*time.Second)
//	defer pool.Close()
//	pdf, err := pool.Render(ctx, res)
//
// # Document Types
//
//   - course: cover, table of contents, chapters and final page
//   - course-full: same as course, with links rendered as resource cards
//   - quiz: cover, shuffled questions and optionally the answer key
//   - teacher-guide: cover, table of contents and guide chapters
//
// # Pipeline
//
//  1. Content fetch through a source.Source (local checkout or GitHub)
//  2. Structure parsing and cleaning (internal/coursemd)
//  3. Markdown rendering via Goldmark (internal/pipeline)
//  4. Page assembly from embedded templates (internal/templates)
//  5. PDF rendering via headless Chrome (go-rod)
//
// # Parallel Processing
//
// RendererPool manages several browser instances. Size it with
// ResolvePoolSize, which derives a default from GOMAXPROCS.
//
// # Error Handling
//
// Errors are wrapped sentinels checked with errors.Is:
//
//	if errors.Is(err, contenttopdf.ErrInvalidRequest) { ... }
//	if errors.Is(err, source.ErrNotFound) { ... }
//	if errors.Is(err, contenttopdf.ErrBrowserConnect) { ... }
package contenttopdf
