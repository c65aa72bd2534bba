package slim2md

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/alnah/go-slim2md/internal/fileutil"
)

// ConvertCommand is the command identifier of the conversion action.
const ConvertCommand = "slim2md.convert"

// MarkdownLanguageID is the language assigned to converted documents.
const MarkdownLanguageID = "markdown"

// Document is the text a host exposes for conversion.
type Document struct {
	Text     string
	FileName string // may be a path; only its stem is used
}

// Host is the environment a conversion runs in: it supplies the active
// document and receives the converted text.
type Host interface {
	// ActiveDocument returns the document to convert.
	// Returns ErrNoActiveDocument when there is none.
	ActiveDocument(ctx context.Context) (Document, error)

	// ReplaceDocument replaces the active document's content and marks it
	// with languageID.
	ReplaceDocument(ctx context.Context, text, languageID string) error
}

// ConvertActive converts the host's active document and hands the result
// back to the host as Markdown. The title is the document's file name
// without directory and extension. Host errors are returned unwrapped; on
// any error the document is left untouched.
func (c *Converter) ConvertActive(ctx context.Context, host Host) (*ConvertResult, error) {
	return c.ConvertActiveWith(ctx, host, Input{})
}

// ConvertActiveWith is ConvertActive with the Title and Locale of
// overrides applied. Source and FileName always come from the host.
func (c *Converter) ConvertActiveWith(ctx context.Context, host Host, overrides Input) (*ConvertResult, error) {
	doc, err := host.ActiveDocument(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.Convert(ctx, Input{
		Source:   doc.Text,
		FileName: doc.FileName,
		Title:    overrides.Title,
		Locale:   overrides.Locale,
	})
	if err != nil {
		return nil, err
	}

	if err := host.ReplaceDocument(ctx, result.Markdown, MarkdownLanguageID); err != nil {
		return nil, err
	}
	return result, nil
}

// FileHost reads a slide source from disk and writes the converted
// document next to it (or to Output).
type FileHost struct {
	Path   string      // source file
	Output string      // destination; empty replaces Path's extension with .md
	Perm   fs.FileMode // destination mode; zero means 0644
}

// ActiveDocument reads Path.
func (h *FileHost) ActiveDocument(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(h.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrNoActiveDocument, h.Path)
		}
		return Document{}, fmt.Errorf("reading %s: %w", h.Path, err)
	}
	return Document{Text: string(data), FileName: h.Path}, nil
}

// ReplaceDocument writes text atomically to the destination.
func (h *FileHost) ReplaceDocument(ctx context.Context, text, languageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	perm := h.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := fileutil.WriteFileAtomic(h.OutputPath(languageID), []byte(text), perm); err != nil {
		return fmt.Errorf("writing %s: %w", h.OutputPath(languageID), err)
	}
	return nil
}

// OutputPath returns the destination for a document of languageID.
func (h *FileHost) OutputPath(languageID string) string {
	if h.Output != "" {
		return h.Output
	}
	ext := ".md"
	if languageID != MarkdownLanguageID {
		ext = "." + languageID
	}
	return fileutil.ReplaceExt(h.Path, ext)
}

// StdioHost reads the document from In and writes the result to Out.
// The document is read once; later calls return the same text.
type StdioHost struct {
	In       io.Reader
	Out      io.Writer
	FileName string // title source; stdin has no name

	once sync.Once
	text string
	err  error
}

// ActiveDocument reads In to EOF.
func (h *StdioHost) ActiveDocument(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	h.once.Do(func() {
		var data []byte
		data, h.err = io.ReadAll(h.In)
		h.text = string(data)
	})
	if h.err != nil {
		return Document{}, fmt.Errorf("reading input: %w", h.err)
	}
	return Document{Text: h.text, FileName: h.FileName}, nil
}

// ReplaceDocument writes text to Out. languageID is ignored.
func (h *StdioHost) ReplaceDocument(ctx context.Context, text, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(h.Out, text)
	return err
}
