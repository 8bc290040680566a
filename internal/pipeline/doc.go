// Package pipeline renders cleaned course markdown into HTML fragments.
//
// A render goes through four stages:
//   - resource card enrichment of standalone links (full mode only)
//   - image reference rewriting to absolute URLs
//   - Markdown to HTML conversion via Goldmark
//   - DOM post-passes (task list checkboxes, standalone image wrapping)
//
// Rendering never fails on content. When a stage errors, the output of the
// previous stage is kept. Page assembly and PDF generation live elsewhere:
// this package only produces fragments and injects stylesheets.
package pipeline
