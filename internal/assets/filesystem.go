package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader serves assets from a deck's asset directory:
//
//	{base}/styles/{name}.css
//	{base}/templates/{name}.tmpl
type FilesystemLoader struct {
	base string // absolute, symlinks resolved
}

// NewFilesystemLoader opens base. It returns ErrInvalidBasePath unless
// base is a readable directory.
func NewFilesystemLoader(base string) (*FilesystemLoader, error) {
	if base == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	// ReadDir also fails on a regular file or an unreadable directory.
	_, err = os.ReadDir(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{base: abs}, nil
}

func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styleKind, name)
}

func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templateKind, name)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(f.base, filepath.FromSlash(k.file(name)))
	if err := f.contain(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- name validated, path contained
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q in %s", k.notFound, name, f.base)
	case err != nil:
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(content), nil
}

// contain rejects a path whose symlinks resolve outside the base directory.
// A missing file keeps its lexical path and fails when read.
func (f *FilesystemLoader) contain(path string) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !strings.HasPrefix(path, f.base+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideBase, path)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
