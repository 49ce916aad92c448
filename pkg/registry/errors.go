package registry

import (
	"errors"
	"fmt"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// ErrDuplicateRelationship is matched by every DuplicateRelationshipError
// via errors.Is.
var ErrDuplicateRelationship = errors.New("relationship already exists")

// DuplicateRelationshipError is returned when a define call targets a
// relationship that is already registered. Existing may differ from Key when
// an entity-to-entity relationship was first defined in the opposite order.
type DuplicateRelationshipError struct {
	Category relationship.Category
	From     string
	To       string
	Kind     string
	Key      relationship.Key // key the caller asked for
	Existing relationship.Key // key of the registered descriptor
}

func (e *DuplicateRelationshipError) Error() string {
	if e.Category == relationship.CategoryPrincipal {
		return fmt.Sprintf("a relationship already exists between %s and entity type %s for kind %s (key %s)",
			e.To, e.From, e.Kind, e.Existing)
	}
	return fmt.Sprintf("a relationship already exists between %s and %s for kind %s (key %s)",
		e.From, e.To, e.Kind, e.Existing)
}

// Is reports whether target is ErrDuplicateRelationship
func (e *DuplicateRelationshipError) Is(target error) bool {
	return target == ErrDuplicateRelationship
}
