package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestLongDate(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		locale string
		want   string
	}{
		{"bg", "17 октомври 2026 г."},
		{"bg-BG", "17 октомври 2026 г."},
		{"en", "October 17, 2026"},
		{"en-GB", "October 17, 2026"},
		{"de", "17. Oktober 2026"},
		{"fr", "17 octobre 2026"},
		{"es", "17 de octubre de 2026"},
		{"it", "17 ottobre 2026"},
		{"ru", "17 октября 2026 г."},
		{"uk", "17 жовтня 2026 р."},
		{"mk", "17 октомври 2026 г."},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			t.Parallel()

			got, err := LongDate(day, tt.locale)
			if err != nil {
				t.Fatalf("LongDate(%q) error = %v", tt.locale, err)
			}
			if got != tt.want {
				t.Errorf("LongDate(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	t.Parallel()

	for _, locale := range []string{"", "not a locale!", "ja"} {
		if _, err := Lookup(locale); !errors.Is(err, ErrUnknownLocale) {
			t.Errorf("Lookup(%q) error = %v, want ErrUnknownLocale", locale, err)
		}
	}
}

func TestLocales_TrailingToken(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, loc := range Locales() {
		got := loc.LongDate(day)
		r := []rune(got)
		hasToken := len(r) > 3 && r[len(r)-3] == ' ' && r[len(r)-1] == '.'
		if hasToken != loc.TrailingToken {
			t.Errorf("%s: long date %q, TrailingToken = %v", loc.Tag, got, loc.TrailingToken)
		}
	}
}

func TestLocale_Name(t *testing.T) {
	t.Parallel()

	loc, err := Lookup("bg")
	if err != nil {
		t.Fatalf("Lookup(bg) error = %v", err)
	}
	if loc.Name() != "български" {
		t.Errorf("Name() = %q", loc.Name())
	}
}
