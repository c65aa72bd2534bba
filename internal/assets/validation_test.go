package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"header template", FrontMatterTemplate, true},
		{"preview style", PreviewStyle, true},
		{"hyphenated deck style", "dark-deck", true},
		{"course template", "fmi_2026", true},
		{"mixed case", "Lecture03", true},

		{"empty", "", false},
		{"too long", strings.Repeat("a", maxNameLength+1), false},
		{"relative traversal", "../frontmatter", false},
		{"windows traversal", "..\\frontmatter", false},
		{"nested path", "styles/preview", false},
		{"absolute path", "/etc/passwd", false},
		{"drive path", "C:\\deck", false},
		{"file name with extension", "preview.css", false},
		{"hidden file", ".preview", false},
		{"space", "dark deck", false},
		{"non-ASCII letter", "тема", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.valid && err != nil {
				t.Errorf("ValidateAssetName(%q) error = %v", tt.input, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
		})
	}
}

func TestValidateAssetName_MaxLength(t *testing.T) {
	t.Parallel()

	if err := ValidateAssetName(strings.Repeat("a", maxNameLength)); err != nil {
		t.Errorf("name of %d bytes rejected: %v", maxNameLength, err)
	}
}
