package dateutil

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownLocale indicates a locale with no long-date data.
var ErrUnknownLocale = errors.New("unknown locale")

// Locale holds the long-date data of one language: day numeric, month
// long, year numeric.
type Locale struct {
	Tag    language.Tag
	Layout string
	Months [12]string
	// TrailingToken reports whether the long date ends with a
	// three-character token (" г.") that the metadata header drops.
	TrailingToken bool
}

// LongDate renders t with the locale's long layout. Layouts are
// compile-time constants and always parse.
func (l Locale) LongDate(t time.Time) string {
	s, err := FormatDate(t, l.Layout, l.Months)
	if err != nil {
		return t.Format("2006-01-02")
	}
	return s
}

// Name returns the locale's name in its own language.
func (l Locale) Name() string {
	return display.Self.Name(l.Tag)
}

var englishMonths = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// locales is the long-date table. The first entry is the matcher's
// fallback.
var locales = []Locale{
	{
		Tag:    language.Bulgarian,
		Layout: "D MMMM YYYY [г.]",
		Months: [12]string{
			"януари", "февруари", "март", "април", "май", "юни",
			"юли", "август", "септември", "октомври", "ноември", "декември",
		},
		TrailingToken: true,
	},
	{
		Tag:    language.English,
		Layout: "MMMM D, YYYY",
		Months: englishMonths,
	},
	{
		Tag:    language.German,
		Layout: "D. MMMM YYYY",
		Months: [12]string{
			"Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember",
		},
	},
	{
		Tag:    language.French,
		Layout: "D MMMM YYYY",
		Months: [12]string{
			"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre",
		},
	},
	{
		Tag:    language.Spanish,
		Layout: "D [de] MMMM [de] YYYY",
		Months: [12]string{
			"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
		},
	},
	{
		Tag:    language.Italian,
		Layout: "D MMMM YYYY",
		Months: [12]string{
			"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
			"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
		},
	},
	{
		Tag:    language.Russian,
		Layout: "D MMMM YYYY [г.]",
		Months: [12]string{
			"января", "февраля", "марта", "апреля", "мая", "июня",
			"июля", "августа", "сентября", "октября", "ноября", "декабря",
		},
		TrailingToken: true,
	},
	{
		Tag:    language.Ukrainian,
		Layout: "D MMMM YYYY [р.]",
		Months: [12]string{
			"січня", "лютого", "березня", "квітня", "травня", "червня",
			"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
		},
		TrailingToken: true,
	},
	{
		Tag:    language.Macedonian,
		Layout: "D MMMM YYYY [г.]",
		Months: [12]string{
			"јануари", "февруари", "март", "април", "мај", "јуни",
			"јули", "август", "септември", "октомври", "ноември", "декември",
		},
		TrailingToken: true,
	},
}

var localeMatcher language.Matcher

func init() {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.Tag
	}
	localeMatcher = language.NewMatcher(tags)
}

// Lookup parses a BCP 47 locale and returns the closest supported Locale.
// Regional variants match their base language ("bg-BG" → bg).
func Lookup(locale string) (Locale, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Locale{}, fmt.Errorf("%w: %q: %v", ErrUnknownLocale, locale, err)
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf < language.High {
		return Locale{}, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	return locales[idx], nil
}

// LongDate renders t as a long date in the given locale.
func LongDate(t time.Time, locale string) (string, error) {
	loc, err := Lookup(locale)
	if err != nil {
		return "", err
	}
	return loc.LongDate(t), nil
}

// Locales returns the supported locales in table order.
func Locales() []Locale {
	return append([]Locale(nil), locales...)
}
