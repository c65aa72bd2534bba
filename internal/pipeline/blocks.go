package pipeline

import (
	"regexp"
	"strings"
)

// Block-start patterns. Each has exactly one capturing group: the leading
// whitespace before the keyword, which fixes the indent of the block body.
var (
	listBlockStart    = regexp.MustCompile(`^(\s*)list:`)
	exampleBlockStart = regexp.MustCompile(`^(\s*)example:`)
)

// blockBodyOffset is added to the captured indentation to get the indent of
// the block body (keyword column + two spaces).
const blockBodyOffset = 2

// BlockConfig controls how an indented block is rewritten.
// Zero values mean: empty Before, empty After, identity LineMap.
type BlockConfig struct {
	// Before replaces the block-start line.
	Before string
	// After replaces the closing blank line. A non-empty After is emitted
	// followed by a newline.
	After string
	// LineMap maps each dedented body line to its replacement.
	LineMap func(string) string
	// AllowUnindentedStart also opens a block on a marker at column 0,
	// whose capture group is empty. By default such a marker is ignored.
	AllowUnindentedStart bool
	// CloseAtEOF emits After for a block still open at end of input.
	CloseAtEOF bool
}

// BlockStats counts what a single rewrite pass did.
type BlockStats struct {
	Opened       int
	Closed       int
	Unterminated int
}

// Add accumulates stats from another pass.
func (s BlockStats) Add(o BlockStats) BlockStats {
	return BlockStats{
		Opened:       s.Opened + o.Opened,
		Closed:       s.Closed + o.Closed,
		Unterminated: s.Unterminated + o.Unterminated,
	}
}

// BlockRewriter rewrites every region opened by Start and delimited by
// indentation. It holds no scan state; Rewrite is safe for concurrent use.
type BlockRewriter struct {
	Start  *regexp.Regexp
	Config BlockConfig
}

// NewBlockRewriter returns a BlockRewriter for the given start pattern.
// The pattern must have exactly one capturing group.
func NewBlockRewriter(start *regexp.Regexp, cfg BlockConfig) *BlockRewriter {
	return &BlockRewriter{Start: start, Config: cfg}
}

// scanState is the rewriter's state between two lines.
type scanState int

const (
	stateIdle scanState = iota
	stateInBlock
)

// blockScanner is the per-pass state machine. One scanner serves one call
// to Rewrite and is discarded afterwards.
type blockScanner struct {
	rw     *BlockRewriter
	after  string
	state  scanState
	indent int
	stats  BlockStats
}

// Rewrite runs one pass over content and returns the rewritten text.
// Every input line produces exactly one output entry, so the entry count is
// preserved even when an entry itself contains newlines. The only exception
// is CloseAtEOF appending a closing entry after the last line.
func (rw *BlockRewriter) Rewrite(content string) (string, BlockStats) {
	lines := strings.Split(content, "\n")
	out := rw.rewriteLines(lines)
	return strings.Join(out.lines, "\n"), out.stats
}

type rewriteOutput struct {
	lines []string
	stats BlockStats
}

func (rw *BlockRewriter) rewriteLines(lines []string) rewriteOutput {
	sc := &blockScanner{rw: rw, after: rw.Config.After}
	if sc.after != "" {
		sc.after += "\n"
	}

	out := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		var next *string
		if i+1 < len(lines) {
			next = &lines[i+1]
		}
		out = append(out, sc.step(line, next))
	}

	if sc.state == stateInBlock {
		if rw.Config.CloseAtEOF {
			out = sc.closeAtEOF(out, lines[len(lines)-1] == "")
		} else {
			sc.stats.Unterminated++
		}
	}

	return rewriteOutput{lines: out, stats: sc.stats}
}

// step consumes one line and returns its replacement.
func (sc *blockScanner) step(line string, next *string) string {
	if sc.state == stateInBlock {
		if line == "" && next != nil && !withinIndent(*next, sc.indent) {
			sc.state = stateIdle
			sc.stats.Closed++
			return sc.after
		}
		if withinIndent(line, sc.indent) {
			return sc.mapLine(dedent(line, sc.indent))
		}
		// Under-indented line: the open block is abandoned without After
		// and the line is scanned as if idle.
		sc.state = stateIdle
		sc.stats.Unterminated++
	}
	return sc.scanIdle(line)
}

// scanIdle tests line for a block start. Only a match with a non-empty
// capture opens a block unless AllowUnindentedStart is set.
func (sc *blockScanner) scanIdle(line string) string {
	m := sc.rw.Start.FindStringSubmatchIndex(line)
	if m == nil || len(m) < 4 || m[2] < 0 {
		return line
	}
	captured := line[m[2]:m[3]]
	if captured == "" && !sc.rw.Config.AllowUnindentedStart {
		return line
	}
	sc.indent = len(captured) + blockBodyOffset
	sc.state = stateInBlock
	sc.stats.Opened++
	return sc.rw.Config.Before
}

func (sc *blockScanner) mapLine(line string) string {
	if sc.rw.Config.LineMap == nil {
		return line
	}
	return sc.rw.Config.LineMap(line)
}

// closeAtEOF terminates a block left open at end of input. A trailing empty
// line is turned into the closing marker; otherwise the marker is appended.
func (sc *blockScanner) closeAtEOF(out []string, trailingBlank bool) []string {
	sc.state = stateIdle
	sc.stats.Closed++
	if sc.after == "" {
		return out
	}
	if trailingBlank {
		out[len(out)-1] = sc.after
		return out
	}
	return append(out, strings.TrimSuffix(sc.after, "\n"))
}

// withinIndent reports whether line belongs to a block with the given
// indent. Empty lines always do.
func withinIndent(line string, indent int) bool {
	return line == "" || strings.HasPrefix(line, strings.Repeat(" ", indent))
}

// dedent strips the first n bytes of line. Lines shorter than n (only the
// empty line can reach here) become empty.
func dedent(line string, n int) string {
	if len(line) <= n {
		return ""
	}
	return line[n:]
}
