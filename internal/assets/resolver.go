package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AssetResolver combines custom and embedded loaders. With a custom loader it
// tries custom first and falls back to embedded when the template is missing.
type AssetResolver struct {
	custom   *FilesystemLoader // nil if no custom path configured
	embedded *EmbeddedLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses
// embedded templates only. Returns an error if customBasePath is invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadTemplate loads a template by name, trying the custom loader first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplate(name)
	}

	content, err := r.custom.LoadTemplate(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrTemplateNotFound) {
		return "", err
	}

	return r.embedded.LoadTemplate(name)
}

// Resolve loads a template given either as a name or as a path to a .tex file.
// An empty value selects DefaultTemplateName.
func (r *AssetResolver) Resolve(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return r.LoadTemplate(DefaultTemplateName)
	}
	if !IsTemplatePath(nameOrPath) {
		return r.LoadTemplate(nameOrPath)
	}

	content, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided template path
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, nameOrPath)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// IsTemplatePath reports whether s names a template file rather than a
// template name.
func IsTemplatePath(s string) bool {
	return strings.ContainsAny(s, `/\`) || strings.EqualFold(filepath.Ext(s), templateExt)
}

// HasCustomLoader returns true if a custom loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
