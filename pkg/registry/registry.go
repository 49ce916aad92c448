// Package registry creates and tracks relationships between entity types.
//
// A Registry owns two independent indexes: entity-to-entity relationships
// (book <-> author) and entity-to-principal relationships (book <-> user).
// Both are keyed by relationship.KeyOf(from, to, kind).
//
// Entity-to-entity relationships are unordered: once (book, author, wrote)
// is defined, lookups for (author, book, wrote) find the same descriptor and
// defining (author, book, wrote) fails with ErrDuplicateRelationship. The
// descriptor is still stored under the key of the order it was defined in.
//
// Entity-to-principal relationships always put the principal type on the
// right, so no swapped probe is needed.
//
// Indexes only grow. There is no unregister; a Registry lives as long as the
// process that set it up. Definitions normally happen once during setup, but
// all methods are safe for concurrent use.
package registry

import (
	"cmp"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// Registry indexes relationship descriptors.
type Registry struct {
	mu        sync.RWMutex
	entity    map[relationship.Key]*relationship.EntityToEntity
	principal map[relationship.Key]*relationship.EntityToPrincipal

	principalType string
	hooks         relationship.Hooks
	logger        *zap.Logger
	metrics       Recorder
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entity:        make(map[relationship.Key]*relationship.EntityToEntity),
		principal:     make(map[relationship.Key]*relationship.EntityToPrincipal),
		principalType: relationship.DefaultPrincipalType,
		hooks:         relationship.NoopHooks{},
		logger:        zap.NewNop(),
		metrics:       noopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KeyOf returns the canonical key for (from, to, kind).
func (r *Registry) KeyOf(from, to, kind string) relationship.Key {
	return relationship.KeyOf(from, to, kind)
}

// PrincipalType returns the fixed principal side of entity-to-principal keys
func (r *Registry) PrincipalType() string {
	return r.principalType
}

/* ENTITY TO ENTITY RELATIONSHIPS */

// EntityRelationshipExists reports whether a relationship of kind exists
// between typeA and typeB in either order.
func (r *Registry) EntityRelationshipExists(typeA, typeB, kind string) bool {
	_, ok := r.LookupEntityRelationship(typeA, typeB, kind)
	return ok
}

// LookupEntityRelationshipByKey probes the entity-to-entity index for key
// as given, without trying the swapped order.
func (r *Registry) LookupEntityRelationshipByKey(key relationship.Key) (*relationship.EntityToEntity, bool) {
	r.mu.RLock()
	rel, ok := r.entity[key]
	r.mu.RUnlock()

	r.metrics.RecordLookup(relationship.CategoryEntity, ok)
	return rel, ok
}

// LookupEntityRelationship returns the relationship of kind between typeA
// and typeB. The order of the type arguments does not matter.
func (r *Registry) LookupEntityRelationship(typeA, typeB, kind string) (*relationship.EntityToEntity, bool) {
	r.mu.RLock()
	rel, ok := r.lookupEntityLocked(typeA, typeB, kind)
	r.mu.RUnlock()

	r.metrics.RecordLookup(relationship.CategoryEntity, ok)
	return rel, ok
}

// DefineEntityRelationship registers a new many-to-many relationship between
// two entity types and initializes it. It fails with a
// *DuplicateRelationshipError if (from, to, kind) or (to, from, kind) is
// already defined.
func (r *Registry) DefineEntityRelationship(from, to, kind string, opts relationship.Options) (*relationship.EntityToEntity, error) {
	key := relationship.KeyOf(from, to, kind)

	r.mu.Lock()
	if existing, ok := r.lookupEntityLocked(from, to, kind); ok {
		r.mu.Unlock()
		return nil, r.duplicate(relationship.CategoryEntity, from, to, kind, key, existing.Key())
	}
	rel := relationship.NewEntityToEntity(from, to, kind, opts, r.hooks)
	r.entity[key] = rel
	r.mu.Unlock()

	// Hooks run outside the lock so they may query the registry.
	rel.Initialize()

	r.metrics.RecordDefine(relationship.CategoryEntity)
	r.logger.Debug("defined relationship",
		zap.Stringer("category", relationship.CategoryEntity),
		zap.Stringer("key", key),
	)
	return rel, nil
}

// lookupEntityLocked probes the forward key, then the swapped key.
// The caller must hold r.mu.
func (r *Registry) lookupEntityLocked(typeA, typeB, kind string) (*relationship.EntityToEntity, bool) {
	if rel, ok := r.entity[relationship.KeyOf(typeA, typeB, kind)]; ok {
		return rel, true
	}

	// Try the inverse
	rel, ok := r.entity[relationship.KeyOf(typeB, typeA, kind)]
	return rel, ok
}

/* ENTITY TO PRINCIPAL RELATIONSHIPS */

// PrincipalRelationshipExists reports whether a relationship of kind exists
// between entityType and principals.
func (r *Registry) PrincipalRelationshipExists(entityType, kind string) bool {
	_, ok := r.LookupPrincipalRelationship(entityType, kind)
	return ok
}

// LookupPrincipalRelationshipByKey probes the entity-to-principal index for key.
func (r *Registry) LookupPrincipalRelationshipByKey(key relationship.Key) (*relationship.EntityToPrincipal, bool) {
	r.mu.RLock()
	rel, ok := r.principal[key]
	r.mu.RUnlock()

	r.metrics.RecordLookup(relationship.CategoryPrincipal, ok)
	return rel, ok
}

// LookupPrincipalRelationship returns the relationship of kind between
// entityType and principals.
func (r *Registry) LookupPrincipalRelationship(entityType, kind string) (*relationship.EntityToPrincipal, bool) {
	return r.LookupPrincipalRelationshipByKey(r.principalKey(entityType, kind))
}

// DefinePrincipalRelationship registers a new many-to-many relationship
// between principals and an entity type and initializes it. It fails with a
// *DuplicateRelationshipError if (entityType, kind) is already defined.
func (r *Registry) DefinePrincipalRelationship(entityType, kind string, opts relationship.Options) (*relationship.EntityToPrincipal, error) {
	key := r.principalKey(entityType, kind)

	r.mu.Lock()
	if existing, ok := r.principal[key]; ok {
		r.mu.Unlock()
		return nil, r.duplicate(relationship.CategoryPrincipal, entityType, r.principalType, kind, key, existing.Key())
	}
	rel := relationship.NewEntityToPrincipal(entityType, r.principalType, kind, opts, r.hooks)
	r.principal[key] = rel
	r.mu.Unlock()

	rel.Initialize()

	r.metrics.RecordDefine(relationship.CategoryPrincipal)
	r.logger.Debug("defined relationship",
		zap.Stringer("category", relationship.CategoryPrincipal),
		zap.Stringer("key", key),
	)
	return rel, nil
}

func (r *Registry) principalKey(entityType, kind string) relationship.Key {
	return relationship.KeyOf(entityType, r.principalType, kind)
}

/* DIAGNOSTICS */

// EntityRelationships returns every entity-to-entity descriptor sorted by key.
func (r *Registry) EntityRelationships() []*relationship.EntityToEntity {
	r.mu.RLock()
	out := make([]*relationship.EntityToEntity, 0, len(r.entity))
	for _, rel := range r.entity {
		out = append(out, rel)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *relationship.EntityToEntity) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	return out
}

// PrincipalRelationships returns every entity-to-principal descriptor sorted by key.
func (r *Registry) PrincipalRelationships() []*relationship.EntityToPrincipal {
	r.mu.RLock()
	out := make([]*relationship.EntityToPrincipal, 0, len(r.principal))
	for _, rel := range r.principal {
		out = append(out, rel)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *relationship.EntityToPrincipal) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	return out
}

// Count returns the number of descriptors in the given category.
func (r *Registry) Count(category relationship.Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch category {
	case relationship.CategoryEntity:
		return len(r.entity)
	case relationship.CategoryPrincipal:
		return len(r.principal)
	default:
		return 0
	}
}

func (r *Registry) duplicate(category relationship.Category, from, to, kind string, key, existing relationship.Key) error {
	r.metrics.RecordDuplicate(category)
	r.logger.Warn("rejected duplicate relationship",
		zap.Stringer("category", category),
		zap.Stringer("key", key),
		zap.Stringer("existing", existing),
	)
	return &DuplicateRelationshipError{
		Category: category,
		From:     from,
		To:       to,
		Kind:     kind,
		Key:      key,
		Existing: existing,
	}
}
