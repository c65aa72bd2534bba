package assets

// Built-in asset names.
const (
	// FrontMatterTemplate renders the YAML metadata header.
	FrontMatterTemplate = "frontmatter"
	// PreviewStyle styles the HTML preview page.
	PreviewStyle = "preview"
)

// AssetLoader loads the two asset kinds by bare name.
type AssetLoader interface {
	// LoadStyle returns styles/{name}.css or ErrStyleNotFound.
	LoadStyle(name string) (string, error)
	// LoadTemplate returns templates/{name}.tmpl or ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
}

// kind locates one asset kind inside an asset tree.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".tmpl", notFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name inside the tree.
func (k kind) file(name string) string {
	return k.dir + "/" + name + k.ext
}
