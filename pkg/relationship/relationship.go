// Package relationship defines the relationship descriptors indexed by the
// registry package.
//
// A descriptor is one declared relationship: the pair of types it connects,
// its kind label and the options it was defined with. Descriptors are built
// by the registry and handed out as shared handles. What a relationship does
// in the host system (storage, query wiring, UI) is delegated to Hooks, which
// run once when the registry initializes the descriptor.
package relationship

import "fmt"

// Category tells which registry index a descriptor belongs to
type Category int

const (
	// CategoryEntity is a relationship between two entity types
	CategoryEntity Category = iota
	// CategoryPrincipal is a relationship between an entity type and principals
	CategoryPrincipal
)

func (c Category) String() string {
	switch c {
	case CategoryEntity:
		return "entity-to-entity"
	case CategoryPrincipal:
		return "entity-to-principal"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Initializer is implemented by anything that must register its effects
// with the host exactly once after construction.
type Initializer interface {
	Initialize()
}

// Descriptor is the common view of both relationship variants.
type Descriptor interface {
	Initializer

	// Key returns the key the descriptor was created under
	Key() Key
	// Kind returns the relationship label (e.g. "wrote", "liked")
	Kind() string
	// Category returns the index the descriptor lives in
	Category() Category
	// Options returns a copy of the options the relationship was defined with
	Options() Options
}

var (
	_ Descriptor = (*EntityToEntity)(nil)
	_ Descriptor = (*EntityToPrincipal)(nil)
)
