package slim2md

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAssetLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader(\"\") error = %v", err)
	}

	css, err := loader.LoadStyle(PreviewStyle)
	if err != nil {
		t.Errorf("LoadStyle(%q) error = %v", PreviewStyle, err)
	}
	if css == "" {
		t.Error("LoadStyle returned empty CSS for preview style")
	}

	tmpl, err := loader.LoadTemplate(FrontMatterTemplate)
	if err != nil {
		t.Fatalf("LoadTemplate(%q) error = %v", FrontMatterTemplate, err)
	}
	if !strings.HasPrefix(tmpl, "---\n") {
		t.Errorf("front matter template should open the header, got %q", tmpl)
	}
}

func TestNewAssetLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetLoader("/nonexistent/path/to/assets")
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNewAssetLoader_FallbackToEmbedded(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}

	if css, err := loader.LoadStyle(PreviewStyle); err != nil || css == "" {
		t.Errorf("LoadStyle with fallback = %q, %v", css, err)
	}
}

func TestNewAssetLoader_CustomOverride(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	for _, dir := range []string{"styles", "templates"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0o755); err != nil {
			t.Fatalf("failed to create %s dir: %v", dir, err)
		}
	}

	customCSS := "/* custom override */ body { color: red; }"
	customTmpl := "---\ntitle: {{.Title}}\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "styles", "preview.css"), []byte(customCSS), 0o644); err != nil {
		t.Fatalf("failed to write custom CSS: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "templates", "frontmatter.tmpl"), []byte(customTmpl), 0o644); err != nil {
		t.Fatalf("failed to write custom template: %v", err)
	}

	loader, err := NewAssetLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetLoader(%q) error = %v", tmpDir, err)
	}

	if css, _ := loader.LoadStyle(PreviewStyle); css != customCSS {
		t.Errorf("LoadStyle = %q, want custom CSS", css)
	}
	if tmpl, _ := loader.LoadTemplate(FrontMatterTemplate); tmpl != customTmpl {
		t.Errorf("LoadTemplate = %q, want custom template", tmpl)
	}
}

func TestAssetLoader_NotFound(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader error = %v", err)
	}

	_, err = loader.LoadStyle("custom-style")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
	// The message keeps the internal detail.
	if !strings.Contains(err.Error(), "custom-style") {
		t.Errorf("error message %q should contain style name", err)
	}

	if _, err := loader.LoadTemplate("nonexistent"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
	}

	if _, err := loader.LoadStyle("../etc/passwd"); !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("LoadStyle(traversal) error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestWrappedError_Unwrap(t *testing.T) {
	t.Parallel()

	original := errors.New("original error message")
	sentinel := errors.New("sentinel")

	wrapped := wrapError(sentinel, original)

	if wrapped.Error() != original.Error() {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), original.Error())
	}
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is(wrapped, sentinel) should be true")
	}
	if errors.Is(wrapped, original) {
		t.Error("errors.Is(wrapped, original) should be false")
	}
}

func TestConvertAssetError_NilError(t *testing.T) {
	t.Parallel()

	if result := convertAssetError(nil); result != nil {
		t.Errorf("convertAssetError(nil) = %v, want nil", result)
	}
}

func TestConvertAssetError_Passthrough(t *testing.T) {
	t.Parallel()

	other := errors.New("disk on fire")
	if got := convertAssetError(other); got != other {
		t.Errorf("convertAssetError(other) = %v, want unchanged", got)
	}
}
