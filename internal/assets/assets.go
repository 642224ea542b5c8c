// Package assets provides the stylesheets and HTML template used for
// standalone HTML and PDF output.
//
// Loaders:
//
//	AssetLoader (interface)
//	    ├── EmbeddedLoader    - styles/ and templates/ compiled into the binary
//	    ├── FilesystemLoader  - a user directory with the same layout
//	    └── AssetResolver     - user directory first, embedded fallback
//
// Layout:
//
//	{basePath}/
//	├── styles/{name}.css
//	└── templates/{name}.html
//
// Names are validated and filesystem paths must stay within basePath.
package assets

// AssetLoader loads styles and templates by name, without extension.
type AssetLoader interface {
	// LoadStyle returns ErrStyleNotFound for unknown styles and
	// ErrInvalidAssetName for unsafe names.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns ErrTemplateNotFound for unknown templates and
	// ErrInvalidAssetName for unsafe names.
	LoadTemplate(name string) (string, error)
}

// Built-in asset names.
const (
	DefaultStyleName     = "default"
	VerticalStyleName    = "vertical"
	DocumentTemplateName = "document"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded stylesheet.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded template.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
