package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads an embedded template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// TemplateNames lists the embedded template names.
func TemplateNames() []string {
	return defaultLoader.Names()
}
