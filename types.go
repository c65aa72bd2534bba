package slim2md

import (
	"strings"
	"time"
)

// Input contains conversion parameters.
type Input struct {
	Source   string // slide markup (required)
	Title    string // header title; empty derives it from FileName
	FileName string // source file name, used for the title only
	Locale   string // header locale; empty uses the converter's
}

// BlockStats counts indented blocks seen by one block rewrite.
type BlockStats struct {
	Opened       int
	Closed       int
	Unterminated int // blocks still open at end of input or abandoned by dedent
}

// Stats reports block rewriting per block kind.
type Stats struct {
	Lists    BlockStats
	Examples BlockStats
}

// Unterminated returns the number of blocks that never emitted their
// closing marker.
func (s Stats) Unterminated() int {
	return s.Lists.Unterminated + s.Examples.Unterminated
}

// Heading is a heading of the converted deck.
type Heading struct {
	Level int
	Text  string
}

// Outline summarizes the converted deck.
type Outline struct {
	Slides           int
	Headings         []Heading
	CodeLanguages    []string // fence languages in order of appearance
	UnknownLanguages []string // languages the preview cannot highlight
	Images           []string
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	Markdown string   // header followed by the converted body
	Header   string   // YAML metadata header
	Title    string   // title written to the header
	Locale   string   // locale written to the header
	Stats    Stats    // block rewriting statistics
	Outline  Outline  // structure of the converted body
	Warnings []string // non-fatal findings, in detection order
}

// Body returns the converted Markdown without the metadata header.
func (r *ConvertResult) Body() string {
	return strings.TrimPrefix(r.Markdown, r.Header)
}

// Metadata holds the values written to the header. Empty fields take the
// defaults from DefaultMetadata.
type Metadata struct {
	Author     string
	Keywords   string
	Locale     string
	Date       string // "auto", "auto:FORMAT", a preset (iso, european, us) or a literal
	SlideWidth string
	FontSize   string
	FontFamily string
	CodeTheme  string // chroma style for the header and the preview
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	metadata          Metadata
	codeLanguage      string
	closeUnterminated bool
	unindentedBlocks  bool
	skipNormalize     bool
	composeUnicode    bool
	assetPath         string
	template          string
	previewStyle      string
	now               func() time.Time
}

// WithMetadata sets the header values.
func WithMetadata(m Metadata) Option {
	return func(c *Converter) {
		c.cfg.metadata = m
	}
}

// WithCodeLanguage sets the fence language of example: blocks (default "rust").
func WithCodeLanguage(lang string) Option {
	return func(c *Converter) {
		c.cfg.codeLanguage = lang
	}
}

// WithCloseUnterminated closes list:/example: blocks still open at end of input.
func WithCloseUnterminated(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.closeUnterminated = enabled
	}
}

// WithUnindentedBlocks also opens list:/example: blocks whose marker sits
// at column 0. By default only indented markers open a block.
func WithUnindentedBlocks(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.unindentedBlocks = enabled
	}
}

// WithoutNormalize keeps CRLF and lone CR line endings.
func WithoutNormalize() Option {
	return func(c *Converter) {
		c.cfg.skipNormalize = true
	}
}

// WithUnicodeNFC puts the source in Unicode NFC before rewriting.
// Has no effect together with WithoutNormalize.
func WithUnicodeNFC(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.composeUnicode = enabled
	}
}

// WithAssetPath sets a custom asset directory for templates and styles.
// Custom assets take precedence with fallback to embedded defaults.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithTemplate selects the header template by asset name or file path.
// Names are resolved through the asset loader; paths are read directly.
func WithTemplate(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.template = nameOrPath
	}
}

// WithPreviewStyle selects the preview stylesheet by asset name or file path.
func WithPreviewStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.previewStyle = nameOrPath
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.loader = loader
	}
}

// WithClock sets the time source for "auto" header dates.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("slim2md: WithClock requires a non-nil function")
	}
	return func(c *Converter) {
		c.cfg.now = now
	}
}
