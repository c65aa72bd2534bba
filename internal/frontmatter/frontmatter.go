// Package frontmatter renders the YAML metadata header placed before the
// first slide.
//
// The header opens with "---" and is deliberately left unclosed: the
// slide separator that starts the first slide terminates it. Values are
// inserted verbatim; a value that breaks YAML is reported as a warning
// rather than quoted.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-slim2md/internal/assets"
	"github.com/alnah/go-slim2md/internal/dateutil"
	"github.com/alnah/go-slim2md/internal/yamlutil"
)

// Sentinel errors.
var (
	ErrTemplateParse  = errors.New("header template is invalid")
	ErrTemplateRender = errors.New("header template rendering failed")
)

// headerDateTrim is the number of runes dropped from the long date.
const headerDateTrim = 3

// headerOpen is the first line of every header.
const headerOpen = "---\n"

// Options holds the metadata values. Empty fields take the defaults.
type Options struct {
	Author     string
	Keywords   string
	Locale     string
	Date       string // "", "auto", "auto:FORMAT" or a literal date
	SlideWidth string
	FontSize   string
	FontFamily string
	CodeTheme  string
}

// DefaultOptions returns the course defaults.
func DefaultOptions() Options {
	return Options{
		Author:     "Rust@FMI team",
		Keywords:   "rust,fmi",
		Locale:     "bg",
		Date:       "auto",
		SlideWidth: "80%",
		FontSize:   "24px",
		FontFamily: "Arial, Helvetica, sans-serif",
		CodeTheme:  "github",
	}
}

// withDefaults fills empty fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&o.Author, d.Author)
	fill(&o.Keywords, d.Keywords)
	fill(&o.Locale, d.Locale)
	fill(&o.Date, d.Date)
	fill(&o.SlideWidth, d.SlideWidth)
	fill(&o.FontSize, d.FontSize)
	fill(&o.FontFamily, d.FontFamily)
	fill(&o.CodeTheme, d.CodeTheme)
	return o
}

// templateData is the value passed to the header template.
type templateData struct {
	Title      string
	Author     string
	Date       string
	Lang       string
	Keywords   string
	SlideWidth string
	FontSize   string
	FontFamily string
	CodeTheme  string
}

// Header is a rendered metadata header.
type Header struct {
	Text     string
	Locale   dateutil.Locale
	Warnings []string
}

// Builder renders headers. It is safe for concurrent use.
type Builder struct {
	opts Options
	tmpl *template.Template
	now  func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithClock sets the time source for "auto" dates.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) error {
		b.now = now
		return nil
	}
}

// WithTemplate replaces the header template with src.
func WithTemplate(src string) BuilderOption {
	return func(b *Builder) error {
		tmpl, err := parseTemplate(src)
		if err != nil {
			return err
		}
		b.tmpl = tmpl
		return nil
	}
}

// NewBuilder returns a Builder using the embedded template unless an
// option replaces it.
func NewBuilder(opts Options, options ...BuilderOption) (*Builder, error) {
	b := &Builder{opts: opts.withDefaults(), now: time.Now}
	for _, opt := range options {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if b.tmpl == nil {
		src, err := assets.LoadTemplate(assets.FrontMatterTemplate)
		if err != nil {
			return nil, err
		}
		if b.tmpl, err = parseTemplate(src); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func parseTemplate(src string) (*template.Template, error) {
	tmpl, err := template.New(assets.FrontMatterTemplate).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return tmpl, nil
}

// Options returns the effective options.
func (b *Builder) Options() Options {
	return b.opts
}

// Build renders the header for title. An empty locale uses the builder's.
func (b *Builder) Build(title, locale string) (Header, error) {
	if locale == "" {
		locale = b.opts.Locale
	}
	loc, err := dateutil.Lookup(locale)
	if err != nil {
		return Header{}, err
	}

	date, err := b.resolveDate(loc)
	if err != nil {
		return Header{}, err
	}

	var buf bytes.Buffer
	err = b.tmpl.Execute(&buf, templateData{
		Title:      title,
		Author:     b.opts.Author,
		Date:       date,
		Lang:       locale,
		Keywords:   b.opts.Keywords,
		SlideWidth: b.opts.SlideWidth,
		FontSize:   b.opts.FontSize,
		FontFamily: b.opts.FontFamily,
		CodeTheme:  b.opts.CodeTheme,
	})
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	h := Header{Text: buf.String(), Locale: loc}
	if isAutoDate(b.opts.Date) && !loc.TrailingToken {
		h.Warnings = append(h.Warnings, fmt.Sprintf(
			"locale %q has no trailing date token; the last %d characters of the date were dropped", locale, headerDateTrim))
	}
	if err := Check(h.Text); err != nil {
		h.Warnings = append(h.Warnings, err.Error())
	}
	return h, nil
}

func (b *Builder) resolveDate(loc dateutil.Locale) (string, error) {
	now := b.now()
	if isAutoDate(b.opts.Date) {
		return dateutil.TrimTrailing(loc.LongDate(now), headerDateTrim), nil
	}
	return dateutil.ResolveDate(b.opts.Date, now, loc)
}

func isAutoDate(v string) bool {
	return strings.EqualFold(v, "auto")
}

// Check parses header back as YAML (the unclosed opening "---" stripped)
// and reports values the slide compiler would misread.
func Check(header string) error {
	body, ok := strings.CutPrefix(header, headerOpen)
	if !ok {
		return fmt.Errorf("header does not start with %q", strings.TrimSpace(headerOpen))
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("header has no fields")
	}
	fields, err := yamlutil.UnmarshalOrdered([]byte(body))
	if err != nil {
		return fmt.Errorf("header is not valid YAML: %v", err)
	}
	for _, f := range fields {
		if !f.Scalar {
			return fmt.Errorf("header field %q is not a scalar", f.Key)
		}
	}
	return nil
}
