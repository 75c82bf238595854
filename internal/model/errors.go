package model

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation signals a canonical model that breaks a structural
// invariant. It indicates a defect in the building code, not bad input:
// recoverable input inconsistencies are normalized (and reported) before a
// model is validated.
var ErrInvariantViolation = errors.New("canonical model invariant violation")

// ValidateTree checks the structural invariants of a layer tree: group nodes
// carry no data source, non-group nodes carry exactly one. A missing CRS is
// not an invariant breach; it stays absent in the output rather than being
// guessed.
func ValidateTree(n *LayerNode) error {
	if n.Kind == LayerGroup {
		if n.Source != nil {
			return errInvariant("group layer %q has a data source", n.Name)
		}
		for _, c := range n.Children {
			if err := ValidateTree(c); err != nil {
				return err
			}
		}
		return nil
	}
	if n.Source == nil {
		return errInvariant("layer %q has no data source", n.Name)
	}
	if n.Symbology != nil {
		if err := n.Symbology.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func errInvariant(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...)
}
