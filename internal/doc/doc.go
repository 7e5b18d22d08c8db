// Package doc defines the rich-text document model shared by every stage of
// the templating pipeline: an ordered tree of containers (body, table cells,
// header/footer parts), each holding paragraphs made of styled runs.
//
// The package owns the two structural primitives everything else builds on:
//
//   - Walk: a lazy, restartable enumeration of every addressable container
//     with a stable location path per block.
//   - ReplaceSpan / RewriteMatches: the run-span splice that rewrites a
//     matched region of a paragraph's visible text while preserving the
//     formatting of every run outside the match.
//
// Documents round-trip through YAML (and JSON) so the parsing of the
// underlying file format stays an external concern: callers hand this
// package an already-parsed object and receive one back.
package doc
