package pipeline

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Normalize converts CRLF and lone CR to LF. The slide header pattern
// anchors on "do$", so a stray CR would hide it. The text is otherwise left
// as written.
func Normalize(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// NormalizeUnicode is Normalize followed by Unicode NFC composition, so that
// composed and decomposed accents read the same way.
func NormalizeUnicode(content string) string {
	return norm.NFC.String(Normalize(content))
}
