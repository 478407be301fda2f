package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLength bounds template names.
const maxAssetNameLength = 64

// ValidateAssetName checks that a template name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty, too long, starts with a
// hyphen, or contains path separators, dots, or traversal characters.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with a hyphen", ErrInvalidAssetName, name)
	case strings.ContainsAny(name, "/\\.:"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
