package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// ErrPreviewRender indicates the HTML preview could not be rendered.
var ErrPreviewRender = errors.New("preview rendering failed")

// previewTemplate wraps the rendered slides in a standalone HTML5 document.
// Arguments: base element, title, page CSS, code theme CSS, body.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
%s
<title>%s</title>
<style>
%s
%s
</style>
</head>
<body>
%s
</body>
</html>
`

// PreviewOptions holds per-document preview settings.
type PreviewOptions struct {
	Title     string
	CSS       string // page stylesheet
	SourceDir string // base for relative image paths; empty means the page's own directory
}

// PreviewRenderer renders converted slide Markdown to a single HTML page so
// a deck can be checked in a browser before running the slide compiler.
type PreviewRenderer struct {
	md       goldmark.Markdown
	themeCSS string
}

// NewPreviewRenderer creates a renderer highlighting code with the chroma
// style named codeTheme (chroma falls back to its default style when the
// name is unknown).
func NewPreviewRenderer(codeTheme string) (*PreviewRenderer, error) {
	style := styles.Get(codeTheme)

	var css bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&css, style); err != nil {
		return nil, fmt.Errorf("%w: theme %q: %v", ErrPreviewRender, codeTheme, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeTheme),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
	)

	return &PreviewRenderer{md: md, themeCSS: css.String()}, nil
}

// Render converts body (Markdown without the YAML header) to an HTML page.
// Goldmark does not take a context, so rendering runs in a goroutine and
// the caller is released on cancellation.
func (r *PreviewRenderer) Render(ctx context.Context, body string, opts PreviewOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		base, err := baseHref(opts.SourceDir)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewRender, err)}
			return
		}

		var buf bytes.Buffer
		if err := r.md.Convert([]byte(body), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewRender, err)}
			return
		}
		page := fmt.Sprintf(previewTemplate,
			base, html.EscapeString(opts.Title), sanitizeCSS(opts.CSS), r.themeCSS, buf.String())
		done <- result{html: page}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// baseHref returns the <base> element resolving relative image paths
// against sourceDir, or an empty string when sourceDir is empty.
func baseHref(sourceDir string) (string, error) {
	if sourceDir == "" {
		return "", nil
	}
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	href := pathToFileURL(absDir)
	if !strings.HasSuffix(href, "/") {
		href += "/"
	}
	return `<base href="` + html.EscapeString(href) + `">`, nil
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	path := filepath.ToSlash(absPath)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path // Windows drive letter
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
