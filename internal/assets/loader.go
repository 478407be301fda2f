package assets

// DefaultTemplateName is the name of the built-in card template.
const DefaultTemplateName = "default"

// templateExt is appended to template names to form file names.
const templateExt = ".tex"

// AssetLoader loads LaTeX templates by name.
type AssetLoader interface {
	// LoadTemplate loads a template by name (without the .tex extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}
