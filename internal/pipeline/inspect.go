package pipeline

import (
	"context"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is an ATX or setext heading found in converted Markdown.
type Heading struct {
	Level int
	Text  string
}

// CodeBlock is a fenced code block found in converted Markdown.
// Known is false when chroma has no lexer for Language.
type CodeBlock struct {
	Language string
	Known    bool
}

// Outline summarizes the structure of a converted slide deck.
type Outline struct {
	Slides     int
	Headings   []Heading
	CodeBlocks []CodeBlock
	Images     []string
}

// UnknownLanguages returns the distinct code block languages chroma cannot
// highlight, in order of first appearance.
func (o Outline) UnknownLanguages() []string {
	var langs []string
	seen := make(map[string]bool)
	for _, cb := range o.CodeBlocks {
		if cb.Known || cb.Language == "" || seen[cb.Language] {
			continue
		}
		seen[cb.Language] = true
		langs = append(langs, cb.Language)
	}
	return langs
}

// Inspector parses converted Markdown with goldmark and reports its outline.
type Inspector struct {
	md goldmark.Markdown
}

// NewInspector creates an Inspector using the same GFM dialect as the
// HTML preview.
func NewInspector() *Inspector {
	return &Inspector{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Inspect walks the Markdown AST of body. body must not include the YAML
// header: its unterminated "---" block would parse as a setext heading.
func (i *Inspector) Inspect(ctx context.Context, body string) (Outline, error) {
	if err := ctx.Err(); err != nil {
		return Outline{}, err
	}

	src := []byte(body)
	doc := i.md.Parser().Parse(text.NewReader(src))

	var out Outline
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.ThematicBreak:
			out.Slides++
		case *ast.Heading:
			out.Headings = append(out.Headings, Heading{
				Level: node.Level,
				Text:  inlineText(node, src),
			})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lang := string(node.Language(src))
			out.CodeBlocks = append(out.CodeBlocks, CodeBlock{
				Language: lang,
				Known:    lang == "" || lexers.Get(lang) != nil,
			})
			return ast.WalkSkipChildren, nil
		case *ast.Image:
			out.Images = append(out.Images, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	return out, err
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
