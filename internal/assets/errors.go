package assets

import "errors"

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName rejects anything but a bare stem of ASCII
	// letters, digits, '-' and '_'.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath means the asset directory is missing or unreadable.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrOutsideBase means a symlink leads out of the asset directory.
	ErrOutsideBase = errors.New("asset resolves outside the asset directory")
)
