// Package pipeline implements the slide-markup to Markdown conversion engine.
//
// The engine is an ordered list of named stages, each a pure function of
// the text it receives:
//   - normalize: CRLF to LF; Unicode NFC only with Options.ComposeUnicode
//   - inline: slide headers, tag unwrapping, paragraph and image lines
//   - list-blocks: indented list: blocks become incremental bullet lists
//   - example-blocks: indented example: blocks become fenced code
//   - front-matter: the YAML metadata header is prepended
//
// Later stages rely on the output of earlier ones, so the order is part of
// the grammar. Block stages share one indentation-driven rewriter
// (BlockRewriter) parameterized by a start pattern and a BlockConfig.
// A block opens only on a marker with leading whitespace; a marker at
// column 0 is plain text unless AllowUnindentedStart is set.
//
// Every line is tested for a block start on its own. In particular a
// marker on the line right after a block closes opens a new block, whereas
// the VS Code slim-to-mrend extension skips it because its global regexp
// keeps lastIndex between tests. Output differs from that extension only
// for such back-to-back blocks.
//
// The package also inspects converted Markdown with goldmark (slide count,
// headings, code languages known to chroma) and renders an HTML preview.
// Rendering the final slide deck is left to an external slide compiler.
package pipeline
