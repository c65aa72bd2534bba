package pipeline

// Notes:
// - Block rewriting is tested through BlockRewriter.Rewrite with small
//   marker configs ("<" / ">") so the expected text stays readable.
// - The entry-count invariant is checked on rewriteLines directly: entries
//   may contain newlines (list items), so counting lines of the joined
//   output would be meaningless.
// - The unterminated-block cases document observed behavior; they are not
//   bugs to fix.
// - Start markers are indented in most cases: a marker at column 0 only
//   opens a block with AllowUnindentedStart.

import (
	"regexp"
	"strings"
	"testing"
)

var markerConfig = BlockConfig{Before: "<", After: ">"}

var testBlockStart = regexp.MustCompile(`^(\s*)list:`)

// ---------------------------------------------------------------------------
// TestBlockRewriter_Rewrite - Block detection, dedent and termination
// ---------------------------------------------------------------------------

func TestBlockRewriter_Rewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cfg       BlockConfig
		want      string
		wantStats BlockStats
	}{
		{
			name:      "no block start leaves text unchanged",
			input:     "plain\n  text\n",
			cfg:       markerConfig,
			want:      "plain\n  text\n",
			wantStats: BlockStats{},
		},
		{
			name:      "block closed by blank line before under-indented line",
			input:     "  list:\n    a\n      b\n\nx",
			cfg:       markerConfig,
			want:      "<\na\n  b\n>\n\nx",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "start marker at column 0 is ignored",
			input:     "list:\n  one\n  two\n\nnext",
			cfg:       markerConfig,
			want:      "list:\n  one\n  two\n\nnext",
			wantStats: BlockStats{},
		},
		{
			name:      "single space of indent opens a block",
			input:     " list:\n   a\n\nz",
			cfg:       markerConfig,
			want:      "<\na\n>\n\nz",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "AllowUnindentedStart opens column 0 marker with indent 2",
			input:     "list:\n  one\n  two\n\nnext",
			cfg:       BlockConfig{Before: "<", After: ">", AllowUnindentedStart: true},
			want:      "<\none\ntwo\n>\n\nnext",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "blank line followed by indented line stays inside block",
			input:     "  list:\n    a\n\n    b\n\nc",
			cfg:       markerConfig,
			want:      "<\na\n\nb\n>\n\nc",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "rest of the start line is dropped",
			input:     "  list: trailing words\n    a\n\nz",
			cfg:       markerConfig,
			want:      "<\na\n>\n\nz",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "under-indented line abandons block without After",
			input:     "  list:\n    a\nplain",
			cfg:       markerConfig,
			want:      "<\na\nplain",
			wantStats: BlockStats{Opened: 1, Unterminated: 1},
		},
		{
			name:      "under-indented start line reopens immediately",
			input:     "    list:\n      a\n  list:\n    b\n\nz",
			cfg:       markerConfig,
			want:      "<\na\n<\nb\n>\n\nz",
			wantStats: BlockStats{Opened: 2, Closed: 1, Unterminated: 1},
		},
		{
			name:      "under-indented column 0 marker does not reopen",
			input:     "  list:\n    a\nlist:\n  b",
			cfg:       markerConfig,
			want:      "<\na\nlist:\n  b",
			wantStats: BlockStats{Opened: 1, Unterminated: 1},
		},
		{
			name:      "whitespace-only line is not empty",
			input:     "  list:\n    a\n  \n    b",
			cfg:       markerConfig,
			want:      "<\na\n  \n    b",
			wantStats: BlockStats{Opened: 1, Unterminated: 1},
		},
		{
			name:      "block open at end of input never emits After",
			input:     "  list:\n    a",
			cfg:       markerConfig,
			want:      "<\na",
			wantStats: BlockStats{Opened: 1, Unterminated: 1},
		},
		{
			name:      "trailing blank line at end of input does not close",
			input:     "  list:\n    a\n",
			cfg:       markerConfig,
			want:      "<\na\n",
			wantStats: BlockStats{Opened: 1, Unterminated: 1},
		},
		{
			name:      "CloseAtEOF appends After",
			input:     "  list:\n    a",
			cfg:       BlockConfig{Before: "<", After: ">", CloseAtEOF: true},
			want:      "<\na\n>",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "CloseAtEOF replaces trailing blank line",
			input:     "  list:\n    a\n",
			cfg:       BlockConfig{Before: "<", After: ">", CloseAtEOF: true},
			want:      "<\na\n>\n",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:      "empty After emits empty closing line",
			input:     "  list:\n    a\n\nz",
			cfg:       BlockConfig{},
			want:      "\na\n\nz",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
		{
			name:  "LineMap applies to dedented lines",
			input: "  list:\n    one\n    two\n\nnext",
			cfg: BlockConfig{LineMap: func(s string) string {
				return "--\n* " + s
			}},
			want:      "\n--\n* one\n--\n* two\n\nnext",
			wantStats: BlockStats{Opened: 1, Closed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rw := NewBlockRewriter(testBlockStart, tt.cfg)
			got, stats := rw.Rewrite(tt.input)
			if got != tt.want {
				t.Errorf("Rewrite(%q)\n got: %q\nwant: %q", tt.input, got, tt.want)
			}
			if stats != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", stats, tt.wantStats)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBlockRewriter_EntryCount - One output entry per input line
// ---------------------------------------------------------------------------

func TestBlockRewriter_EntryCount(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"list:",
		"list:\n  a\n  b\n\nc",
		"  list:\n    a\nlist:\n  b\n\nz\n\n",
		"x\n  list:\n\n\n    y\n\nlist:\n  z",
	}
	configs := map[string]BlockConfig{
		"identity": {},
		"markers":  markerConfig,
		"list": {LineMap: func(s string) string {
			return "--\n* " + s
		}},
		"unindented": {Before: "<", After: ">", AllowUnindentedStart: true},
	}

	for name, cfg := range configs {
		for _, input := range inputs {
			lines := strings.Split(input, "\n")
			out := NewBlockRewriter(testBlockStart, cfg).rewriteLines(lines)
			if len(out.lines) != len(lines) {
				t.Errorf("%s: %q produced %d entries, want %d", name, input, len(out.lines), len(lines))
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestBlockRewriter_Reusable - No state leaks between calls
// ---------------------------------------------------------------------------

func TestBlockRewriter_Reusable(t *testing.T) {
	t.Parallel()

	rw := NewBlockRewriter(testBlockStart, markerConfig)

	// First call leaves a block open at end of input.
	if got, _ := rw.Rewrite("  list:\n    a"); got != "<\na" {
		t.Fatalf("first Rewrite = %q", got)
	}

	// Second call must start idle.
	if got, _ := rw.Rewrite("    a\nb"); got != "    a\nb" {
		t.Errorf("second Rewrite = %q, want input unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// TestBlockStats_Add
// ---------------------------------------------------------------------------

func TestBlockStats_Add(t *testing.T) {
	t.Parallel()

	got := BlockStats{Opened: 1, Closed: 1}.Add(BlockStats{Opened: 2, Unterminated: 2})
	want := BlockStats{Opened: 3, Closed: 1, Unterminated: 2}
	if got != want {
		t.Errorf("Add = %+v, want %+v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestWithinIndent / TestDedent - Helpers
// ---------------------------------------------------------------------------

func TestWithinIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		indent int
		want   bool
	}{
		{"", 4, true},
		{"    x", 4, true},
		{"      x", 4, true},
		{"   x", 4, false},
		{"\tx", 2, false},
		{"x", 0, true},
	}

	for _, tt := range tests {
		if got := withinIndent(tt.line, tt.indent); got != tt.want {
			t.Errorf("withinIndent(%q, %d) = %v, want %v", tt.line, tt.indent, got, tt.want)
		}
	}
}

func TestDedent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		n    int
		want string
	}{
		{"    abc", 2, "  abc"},
		{"    abc", 4, "abc"},
		{"", 4, ""},
		{"  ", 2, ""},
	}

	for _, tt := range tests {
		if got := dedent(tt.line, tt.n); got != tt.want {
			t.Errorf("dedent(%q, %d) = %q, want %q", tt.line, tt.n, got, tt.want)
		}
	}
}
