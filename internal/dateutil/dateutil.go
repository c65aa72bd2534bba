// Package dateutil formats dates for slide metadata.
//
// Dates are rendered per locale with localized month names, since Go's
// time.Format only knows English ones. Layouts use the tokens
// YYYY, YY, MMMM, MMM, MM, M, DD, D; text in brackets is copied literally.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// shortMonthRunes is the length of the MMM abbreviation.
const shortMonthRunes = 3

// dateTokens lists the layout tokens, longest first for greedy matching.
var dateTokens = []string{"YYYY", "MMMM", "MMM", "YY", "MM", "DD", "M", "D"}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
}

// dateSegment is one parsed piece of a layout: a token or literal text.
type dateSegment struct {
	token   string
	literal string
}

// parseLayout splits a user layout into tokens and literals.
// Returns ErrInvalidDateFormat if the layout is empty, too long, or has
// unclosed brackets.
func parseLayout(format string) ([]dateSegment, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var segs []dateSegment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, dateSegment{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(format[i:], tok) {
				flush()
				segs = append(segs, dateSegment{token: tok})
				i += len(tok)
				matched = true
				break
			}
		}

		if !matched {
			lit.WriteByte(format[i])
			i++
		}
	}
	flush()

	return segs, nil
}

// FormatDate renders t with a token layout, taking month names from months.
func FormatDate(t time.Time, format string, months [12]string) (string, error) {
	segs, err := parseLayout(format)
	if err != nil {
		return "", err
	}

	month := months[t.Month()-1]
	var b strings.Builder
	for _, s := range segs {
		switch s.token {
		case "":
			b.WriteString(s.literal)
		case "YYYY":
			b.WriteString(strconv.Itoa(t.Year()))
		case "YY":
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case "MMMM":
			b.WriteString(month)
		case "MMM":
			b.WriteString(truncateRunes(month, shortMonthRunes))
		case "MM":
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case "M":
			b.WriteString(strconv.Itoa(int(t.Month())))
		case "DD":
			fmt.Fprintf(&b, "%02d", t.Day())
		case "D":
			b.WriteString(strconv.Itoa(t.Day()))
		}
	}
	return b.String(), nil
}

// ResolveDate handles "auto" and "auto:FORMAT" syntax for date values.
//   - "auto" → the locale's long date
//   - "auto:FORMAT" → current date in a token layout (e.g. "auto:DD/MM/YYYY")
//   - "auto:preset" → current date using a named preset (iso, european, us)
//   - any other value → returned unchanged
//
// Month names come from loc.
func ResolveDate(value string, t time.Time, loc Locale) (string, error) {
	lower := strings.ToLower(value)

	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	if lower == "auto" {
		return loc.LongDate(t), nil
	}

	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	formatPart := value[len("auto:"):]
	if formatPart == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := DatePresets[strings.ToLower(formatPart)]; ok {
		formatPart = preset
	}

	return FormatDate(t, formatPart, loc.Months)
}

// TrimTrailing removes the last n runes of s. Strings shorter than n
// become empty.
func TrimTrailing(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := utf8.RuneCountInString(s)
	if count <= n {
		return ""
	}
	return truncateRunes(s, count-n)
}

// truncateRunes keeps the first n runes of s.
func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
