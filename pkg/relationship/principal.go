package relationship

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// EntityToPrincipal is a many-to-many relationship between an entity type
// and principals (users). The principal side is fixed, so there is no
// ordering to normalize.
// Example: book <-> user, kind "liked"
type EntityToPrincipal struct {
	key           Key
	entityType    string
	principalType string
	kind          string
	options       Options
	hooks         Hooks

	once        sync.Once
	initialized atomic.Bool
}

// NewEntityToPrincipal builds a descriptor bound to
// KeyOf(entityType, principalType, kind). An empty principalType falls back
// to DefaultPrincipalType.
func NewEntityToPrincipal(entityType, principalType, kind string, opts Options, hooks Hooks) *EntityToPrincipal {
	if principalType == "" {
		principalType = DefaultPrincipalType
	}
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &EntityToPrincipal{
		key:           KeyOf(entityType, principalType, kind),
		entityType:    entityType,
		principalType: principalType,
		kind:          kind,
		options:       opts.Clone(),
		hooks:         hooks,
	}
}

func (r *EntityToPrincipal) Key() Key           { return r.key }
func (r *EntityToPrincipal) Kind() string       { return r.kind }
func (r *EntityToPrincipal) Category() Category { return CategoryPrincipal }
func (r *EntityToPrincipal) Options() Options   { return r.options.Clone() }

// EntityType returns the entity side of the relationship
func (r *EntityToPrincipal) EntityType() string { return r.entityType }

// PrincipalType returns the principal side of the relationship
func (r *EntityToPrincipal) PrincipalType() string { return r.principalType }

// Initialize hands the descriptor to its hooks. Only the first call has an effect.
func (r *EntityToPrincipal) Initialize() {
	r.once.Do(func() {
		r.hooks.OnPrincipalRelationship(r)
		r.initialized.Store(true)
	})
}

// Initialized reports whether Initialize has completed
func (r *EntityToPrincipal) Initialized() bool {
	return r.initialized.Load()
}

// String returns a representation of the relationship
// Format: entityType<->@principalType#kind
func (r *EntityToPrincipal) String() string {
	return fmt.Sprintf("%s<->@%s#%s", r.entityType, r.principalType, r.kind)
}
