// Package assets provides the metadata header template and the preview
// stylesheet. Assets can be loaded from embedded files or a custom
// directory.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - ordered chain, custom directory first
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the asset is
// not found, so a deck can override the header template while keeping the
// default preview style.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # preview styles (e.g., preview.css)
//	└── templates/
//	    └── {name}.tmpl          # text/template files (e.g., frontmatter.tmpl)
//
// Names are bare stems ([A-Za-z0-9_-]); a FilesystemLoader also refuses
// symlinks that lead out of its directory (ErrOutsideBase).
package assets
