package assets

import (
	"fmt"
	"strings"
)

// maxNameLength bounds style and template names.
const maxNameLength = 64

// ValidateAssetName accepts bare file stems only: no separators, no dots,
// no surrounding spaces.
func ValidateAssetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidAssetName, len(name), maxNameLength)
	case strings.ContainsAny(name, `/\.`), strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
