package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{"preview style returns content", PreviewStyle, nil},
		{"nonexistent style", "nonexistent", ErrStyleNotFound},
		{"empty name", "", ErrInvalidAssetName},
		{"path traversal with slash", "../secret", ErrInvalidAssetName},
		{"name with extension", "preview.css", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if content == "" {
				t.Errorf("LoadStyle(%q) returned empty content", tt.styleName)
			}
		})
	}
}

func TestLoadTemplate_FrontMatterContent(t *testing.T) {
	t.Parallel()

	content, err := LoadTemplate(FrontMatterTemplate)
	if err != nil {
		t.Fatalf("LoadTemplate(frontmatter) error: %v", err)
	}

	if !strings.HasPrefix(content, "---\n") {
		t.Errorf("header template should open with ---, got %q", content)
	}

	// Field order is fixed; the template has no closing ---.
	fields := []string{
		"title: {{.Title}}",
		"author: {{.Author}}",
		"date: {{.Date}}",
		"lang: {{.Lang}}",
		"keywords: {{.Keywords}}",
		"slide-width: {{.SlideWidth}}",
		"font-size: {{.FontSize}}",
		"font-family: {{.FontFamily}}",
		"code-theme: {{.CodeTheme}}",
	}
	last := -1
	for _, f := range fields {
		idx := strings.Index(content, f)
		if idx < 0 {
			t.Errorf("template missing %q", f)
			continue
		}
		if idx < last {
			t.Errorf("field %q out of order", f)
		}
		last = idx
	}
	if strings.Count(content, "---") != 1 {
		t.Error("template should contain a single --- line")
	}
}
