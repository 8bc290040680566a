// Package coursemd parses course markdown from the educational content
// repository into an ordered document tree.
//
// The dialect is narrow and fixed:
//   - YAML frontmatter between --- delimiters (name, goal, objectives)
//   - an intro section terminated by a line holding only +++
//   - part headings "# Title" followed by <partId>ID</partId>
//   - chapter headings "## Title" followed by <chapterId>ID</chapterId>
//   - directive tags marking review, exam and conclusion chapters
//
// Teacher guides use plain # and ## headings without any tags; they are
// segmented by the same tokenizer with a different heading matcher.
//
// Parsing never fails on content. Malformed frontmatter degrades to empty
// metadata and missing markers produce an empty tree. Every function in this
// package is pure and safe for concurrent use.
package coursemd
