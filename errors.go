package slim2md

import "errors"

// Sentinel errors for library operations.
var (
	ErrUnknownLocale    = errors.New("unknown locale")
	ErrTemplateRender   = errors.New("header template rendering failed")
	ErrNoActiveDocument = errors.New("no active document")
	ErrPreviewRender    = errors.New("preview rendering failed")
	ErrInvalidCodeLang  = errors.New("invalid code language")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
