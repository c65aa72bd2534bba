// Package slim2md converts indentation-based slide markup into
// Pandoc-flavored slide Markdown.
//
// # Quick Start
//
// Create a converter once and reuse it:
//
//	conv, err := slim2md.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, slim2md.Input{
//	    Source:   source,
//	    FileName: "03-traits.slim",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("03-traits.md", []byte(result.Markdown), 0644)
//
// # Source Markup
//
// The converter understands the subset of the markup used by slide decks:
//
//	= slide 'Traits', 'Generics' do     slide separator, "# Traits", "### Generics"
//	  p Some text                        paragraph
//	  p.action Some text                 paragraph
//	  img src="diagram.png"              image
//	  list:                              indented lines become "--" + bullet pairs
//	    first point
//	  example:                           indented lines become a fenced code block
//	    fn main() {}
//
// Inline <code>, <strong>, <b> and <i> tags are unwrapped to Markdown.
// A list: or example: marker opens a block only when it is indented; at
// column 0 it stays plain text unless WithUnindentedBlocks is set.
// A block ends at a blank line followed by a less indented line. A block
// still open at end of input is not closed unless WithCloseUnterminated is
// set; ConvertResult.Warnings reports it either way.
//
// # Conversion Pipeline
//
// The conversion runs these stages in order:
//
//  1. Normalization (CRLF to LF; Unicode NFC with WithUnicodeNFC)
//  2. Inline rewriting (slide headers, tags, paragraphs, images)
//  3. list: blocks
//  4. example: blocks
//  5. Metadata header
//
// # Metadata Header
//
// The header carries title, author, date, lang, keywords and the slide
// styling keys read by the slide compiler. The date is the locale's long
// date; see Locales for the supported locales.
//
//	conv, err := slim2md.NewConverter(
//	    slim2md.WithMetadata(slim2md.Metadata{Author: "Jane", Locale: "en"}),
//	    slim2md.WithCodeLanguage("go"),
//	)
//
// # Hosts
//
// ConvertActive runs the conversion against a Host: FileHost for files,
// StdioHost for pipes. The slim2md CLI also exposes a JSON-RPC bridge for
// editors (slim2md serve).
//
// # Custom Assets
//
// Override the header template and preview style using AssetLoader:
//
//	loader, err := slim2md.NewAssetLoader("/path/to/assets")
//	conv, err := slim2md.NewConverter(slim2md.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── preview.css
//	└── templates/
//	    └── frontmatter.tmpl
package slim2md
