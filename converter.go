package slim2md

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-slim2md/internal/assets"
	"github.com/alnah/go-slim2md/internal/dateutil"
	"github.com/alnah/go-slim2md/internal/fileutil"
	"github.com/alnah/go-slim2md/internal/frontmatter"
	"github.com/alnah/go-slim2md/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ assets.AssetLoader = (*assetLoaderAdapter)(nil)
	_ assets.AssetLoader = AssetLoader(nil)
	_ Host               = (*FileHost)(nil)
	_ Host               = (*StdioHost)(nil)
)

// Converter turns slide markup into slide Markdown.
// Create with NewConverter and reuse it: a Converter holds no per-call
// state and is safe for concurrent use.
type Converter struct {
	cfg        converterConfig
	loader     AssetLoader
	header     *frontmatter.Builder
	inspector  *pipeline.Inspector
	preview    *pipeline.PreviewRenderer
	previewCSS string
}

// DefaultMetadata returns the header values used for empty Metadata fields.
func DefaultMetadata() Metadata {
	return Metadata(frontmatter.DefaultOptions())
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithMetadata, WithCodeLanguage).
// Returns error if asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			codeLanguage: pipeline.DefaultCodeLanguage,
			now:          time.Now,
		},
		inspector: pipeline.NewInspector(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := validateCodeLanguage(c.cfg.codeLanguage); err != nil {
		return nil, err
	}

	if c.loader == nil {
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.loader = loader
	}

	tmpl, err := loadAsset(c.cfg.template, FrontMatterTemplate, c.loader.LoadTemplate)
	if err != nil {
		return nil, err
	}

	header, err := frontmatter.NewBuilder(
		frontmatter.Options(c.cfg.metadata),
		frontmatter.WithTemplate(tmpl),
		frontmatter.WithClock(c.cfg.now),
	)
	if err != nil {
		return nil, convertHeaderError(err)
	}
	c.header = header

	if _, err := dateutil.Lookup(header.Options().Locale); err != nil {
		return nil, convertHeaderError(err)
	}

	if c.previewCSS, err = loadAsset(c.cfg.previewStyle, PreviewStyle, c.loader.LoadStyle); err != nil {
		return nil, fmt.Errorf("loading preview style: %w", err)
	}

	c.preview, err = pipeline.NewPreviewRenderer(header.Options().CodeTheme)
	if err != nil {
		return nil, wrapError(ErrPreviewRender, err)
	}

	return c, nil
}

// Metadata returns the effective header values, defaults included.
func (c *Converter) Metadata() Metadata {
	return Metadata(c.header.Options())
}

// Convert runs the slide pipeline on input.Source and returns the
// Markdown with its metadata header. An empty source yields the header
// alone.
// Malformed markup never fails a conversion: unterminated blocks and
// unknown code languages are reported in ConvertResult.Warnings.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	title := input.Title
	if title == "" && input.FileName != "" {
		title = fileutil.Stem(input.FileName)
	}
	locale := input.Locale
	if locale == "" {
		locale = c.header.Options().Locale
	}

	header, err := c.header.Build(title, locale)
	if err != nil {
		return nil, convertHeaderError(err)
	}

	p := pipeline.NewSlidePipeline(header.Text, pipeline.Options{
		CodeLanguage:         c.cfg.codeLanguage,
		AllowUnindentedStart: c.cfg.unindentedBlocks,
		CloseUnterminated:    c.cfg.closeUnterminated,
		SkipNormalize:        c.cfg.skipNormalize,
		ComposeUnicode:       c.cfg.composeUnicode,
	})
	markdown, report, err := p.Run(ctx, input.Source)
	if err != nil {
		return nil, err
	}

	outline, err := c.inspector.Inspect(ctx, strings.TrimPrefix(markdown, header.Text))
	if err != nil {
		return nil, err
	}

	result = &ConvertResult{
		Markdown: markdown,
		Header:   header.Text,
		Title:    title,
		Locale:   locale,
		Stats: Stats{
			Lists:    BlockStats(report.Blocks(pipeline.StageListBlocks)),
			Examples: BlockStats(report.Blocks(pipeline.StageExampleBlocks)),
		},
		Outline: toOutline(outline),
	}

	result.Warnings = append(result.Warnings, header.Warnings...)
	result.Warnings = append(result.Warnings, blockWarnings(result.Stats)...)
	for _, lang := range result.Outline.UnknownLanguages {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("code language %q is unknown to the highlighter", lang))
	}

	return result, nil
}

// Preview renders a converted deck as a standalone HTML page.
// sourceDir resolves relative image paths; empty leaves them relative to
// the page.
func (c *Converter) Preview(ctx context.Context, result *ConvertResult, sourceDir string) (string, error) {
	page, err := c.preview.Render(ctx, result.Body(), pipeline.PreviewOptions{
		Title:     result.Title,
		CSS:       c.previewCSS,
		SourceDir: sourceDir,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrPreviewRender) {
			return "", wrapError(ErrPreviewRender, err)
		}
		return "", err
	}
	return page, nil
}

// Locales returns the locale tags with a known long-date layout.
func Locales() []string {
	locs := dateutil.Locales()
	tags := make([]string, len(locs))
	for i, l := range locs {
		tags[i] = l.Tag.String()
	}
	return tags
}

// loadAsset reads nameOrPath from disk when it looks like a path and
// through load otherwise. Empty selects fallback.
func loadAsset(nameOrPath, fallback string, load func(string) (string, error)) (string, error) {
	if nameOrPath == "" {
		return load(fallback)
	}
	if !fileutil.IsFilePath(nameOrPath) {
		return load(nameOrPath)
	}
	data, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided asset path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInvalidAssetPath, nameOrPath)
		}
		return "", fmt.Errorf("reading %s: %w", nameOrPath, err)
	}
	return string(data), nil
}

func blockWarnings(s Stats) []string {
	var warnings []string
	for _, b := range []struct {
		kind  string
		stats BlockStats
	}{
		{"list", s.Lists},
		{"example", s.Examples},
	} {
		if b.stats.Unterminated > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"%d %s: block(s) not closed by a blank line", b.stats.Unterminated, b.kind))
		}
	}
	return warnings
}

func toOutline(o pipeline.Outline) Outline {
	out := Outline{
		Slides:           o.Slides,
		UnknownLanguages: o.UnknownLanguages(),
		Images:           o.Images,
	}
	for _, h := range o.Headings {
		out.Headings = append(out.Headings, Heading(h))
	}
	for _, cb := range o.CodeBlocks {
		out.CodeLanguages = append(out.CodeLanguages, cb.Language)
	}
	return out
}

// convertHeaderError maps header and locale errors to public errors.
func convertHeaderError(err error) error {
	switch {
	case errors.Is(err, dateutil.ErrUnknownLocale):
		return wrapError(ErrUnknownLocale, err)
	case errors.Is(err, frontmatter.ErrTemplateParse),
		errors.Is(err, frontmatter.ErrTemplateRender),
		errors.Is(err, dateutil.ErrInvalidDateFormat):
		return wrapError(ErrTemplateRender, err)
	default:
		return convertAssetError(err)
	}
}

func validateCodeLanguage(lang string) error {
	if lang == "" || strings.ContainsAny(lang, " \t\n`") {
		return fmt.Errorf("%w: %q", ErrInvalidCodeLang, lang)
	}
	return nil
}
