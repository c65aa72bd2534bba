package assets

import (
	"fmt"
	"regexp"
)

// maxNameLength bounds asset names; they are file stems, not paths.
const maxNameLength = 64

var assetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName accepts a bare file stem such as "frontmatter" or
// "dark-deck". The loader appends the extension, so dots and separators
// are never part of a name.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, maxNameLength)
	case !assetName.MatchString(name):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
