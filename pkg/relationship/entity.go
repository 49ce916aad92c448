package relationship

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// EntityToEntity is a many-to-many relationship between two entity types.
// Example: book <-> author, kind "wrote"
type EntityToEntity struct {
	key     Key
	from    string
	to      string
	kind    string
	options Options
	hooks   Hooks

	once        sync.Once
	initialized atomic.Bool
}

// NewEntityToEntity builds a descriptor bound to KeyOf(from, to, kind).
// opts is copied. A nil hooks value behaves like NoopHooks.
func NewEntityToEntity(from, to, kind string, opts Options, hooks Hooks) *EntityToEntity {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &EntityToEntity{
		key:     KeyOf(from, to, kind),
		from:    from,
		to:      to,
		kind:    kind,
		options: opts.Clone(),
		hooks:   hooks,
	}
}

func (r *EntityToEntity) Key() Key           { return r.key }
func (r *EntityToEntity) Kind() string       { return r.kind }
func (r *EntityToEntity) Category() Category { return CategoryEntity }
func (r *EntityToEntity) Options() Options   { return r.options.Clone() }

// From returns the type the relationship was defined from
func (r *EntityToEntity) From() string { return r.from }

// To returns the type the relationship was defined to
func (r *EntityToEntity) To() string { return r.to }

// Connects reports whether {a, b} equals {from, to} as an unordered pair
func (r *EntityToEntity) Connects(a, b string) bool {
	return (a == r.from && b == r.to) || (a == r.to && b == r.from)
}

// Other returns the type on the opposite side of t.
// ok is false when t is on neither side.
func (r *EntityToEntity) Other(t string) (other string, ok bool) {
	switch t {
	case r.from:
		return r.to, true
	case r.to:
		return r.from, true
	default:
		return "", false
	}
}

// Initialize hands the descriptor to its hooks. Only the first call has an effect.
func (r *EntityToEntity) Initialize() {
	r.once.Do(func() {
		r.hooks.OnEntityRelationship(r)
		r.initialized.Store(true)
	})
}

// Initialized reports whether Initialize has completed
func (r *EntityToEntity) Initialized() bool {
	return r.initialized.Load()
}

// String returns a representation of the relationship
// Format: from<->to#kind
func (r *EntityToEntity) String() string {
	return fmt.Sprintf("%s<->%s#%s", r.from, r.to, r.kind)
}
