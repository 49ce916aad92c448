package registry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/asakaida/tsunagi/pkg/registry"
	"github.com/asakaida/tsunagi/pkg/relationship"
)

type countingRecorder struct {
	defines    map[relationship.Category]int
	duplicates map[relationship.Category]int
	hits       map[relationship.Category]int
	misses     map[relationship.Category]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		defines:    make(map[relationship.Category]int),
		duplicates: make(map[relationship.Category]int),
		hits:       make(map[relationship.Category]int),
		misses:     make(map[relationship.Category]int),
	}
}

func (c *countingRecorder) RecordDefine(cat relationship.Category)    { c.defines[cat]++ }
func (c *countingRecorder) RecordDuplicate(cat relationship.Category) { c.duplicates[cat]++ }
func (c *countingRecorder) RecordLookup(cat relationship.Category, hit bool) {
	if hit {
		c.hits[cat]++
		return
	}
	c.misses[cat]++
}

func TestRegistry_KeyOf(t *testing.T) {
	reg := registry.New()
	assert.Equal(t, relationship.Key("book_author_wrote"), reg.KeyOf("book", "author", "wrote"))
	assert.NotEqual(t, reg.KeyOf("book", "author", "wrote"), reg.KeyOf("book", "author", "translated"))
}

func TestRegistry_SeparatorInTypeNamesSharesKey(t *testing.T) {
	reg := registry.New()

	first, err := reg.DefineEntityRelationship("a_b", "c", "k", nil)
	require.NoError(t, err)

	_, err = reg.DefineEntityRelationship("a", "b_c", "k", nil)
	require.ErrorIs(t, err, registry.ErrDuplicateRelationship)

	var dup *registry.DuplicateRelationshipError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, relationship.Key("a_b_c_k"), dup.Key)
	assert.Equal(t, first.Key(), dup.Existing)

	// the colliding pair resolves to the first descriptor
	got, ok := reg.LookupEntityRelationship("a", "b_c", "k")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, reg.Count(relationship.CategoryEntity))
}

func TestRegistry_DefineEntityRelationship_Scenario(t *testing.T) {
	reg := registry.New()

	wrote, err := reg.DefineEntityRelationship("book", "author", "wrote", nil)
	require.NoError(t, err)
	require.NotNil(t, wrote)
	assert.True(t, wrote.Initialized())

	assert.True(t, reg.EntityRelationshipExists("author", "book", "wrote"))

	_, err = reg.DefineEntityRelationship("author", "book", "wrote", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrDuplicateRelationship))

	var dup *registry.DuplicateRelationshipError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, relationship.CategoryEntity, dup.Category)
	assert.Equal(t, relationship.Key("author_book_wrote"), dup.Key)
	assert.Equal(t, relationship.Key("book_author_wrote"), dup.Existing)
	assert.Contains(t, err.Error(), "already exists")

	translated, err := reg.DefineEntityRelationship("book", "author", "translated", nil)
	require.NoError(t, err)
	assert.NotSame(t, wrote, translated)
	assert.Equal(t, 2, reg.Count(relationship.CategoryEntity))
}

func TestRegistry_DefineEntityRelationship_StoresForwardKey(t *testing.T) {
	reg := registry.New()

	rel, err := reg.DefineEntityRelationship("book", "author", "wrote", relationship.Options{"title": "Authors"})
	require.NoError(t, err)

	assert.Equal(t, relationship.Key("book_author_wrote"), rel.Key())

	got, ok := reg.LookupEntityRelationshipByKey("book_author_wrote")
	require.True(t, ok)
	assert.Same(t, rel, got)

	// by-key lookups never try the swapped order
	_, ok = reg.LookupEntityRelationshipByKey("author_book_wrote")
	assert.False(t, ok)

	assert.Equal(t, "Authors", got.Options().String("title", ""))
}

func TestRegistry_StoredOptionsAreNotShared(t *testing.T) {
	reg := registry.New()

	opts := relationship.Options{"labels": []any{"Authors"}}
	rel, err := reg.DefineEntityRelationship("book", "author", "wrote", opts)
	require.NoError(t, err)

	opts["labels"].([]any)[0] = "changed"
	rel.Options()["labels"].([]any)[0] = "changed"

	got, ok := reg.LookupEntityRelationship("author", "book", "wrote")
	require.True(t, ok)
	assert.Equal(t, []any{"Authors"}, got.Options()["labels"])
}

func TestRegistry_LookupEntityRelationship(t *testing.T) {
	reg := registry.New()
	rel, err := reg.DefineEntityRelationship("book", "author", "wrote", nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		typeA string
		typeB string
		kind  string
		found bool
	}{
		{name: "forward order", typeA: "book", typeB: "author", kind: "wrote", found: true},
		{name: "swapped order", typeA: "author", typeB: "book", kind: "wrote", found: true},
		{name: "different kind", typeA: "book", typeB: "author", kind: "translated", found: false},
		{name: "kind is case sensitive", typeA: "book", typeB: "author", kind: "Wrote", found: false},
		{name: "kind keeps whitespace", typeA: "book", typeB: "author", kind: "wrote ", found: false},
		{name: "unknown pair", typeA: "book", typeB: "publisher", kind: "wrote", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.LookupEntityRelationship(tt.typeA, tt.typeB, tt.kind)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.found, reg.EntityRelationshipExists(tt.typeA, tt.typeB, tt.kind))
			if tt.found {
				assert.Same(t, rel, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRegistry_SelfRelationship(t *testing.T) {
	reg := registry.New()

	rel, err := reg.DefineEntityRelationship("post", "post", "related", nil)
	require.NoError(t, err)

	got, ok := reg.LookupEntityRelationship("post", "post", "related")
	require.True(t, ok)
	assert.Same(t, rel, got)

	_, err = reg.DefineEntityRelationship("post", "post", "related", nil)
	assert.ErrorIs(t, err, registry.ErrDuplicateRelationship)
}

func TestRegistry_EmptyTypeIdentifiersAreAccepted(t *testing.T) {
	reg := registry.New()

	rel, err := reg.DefineEntityRelationship("", "author", "wrote", nil)
	require.NoError(t, err)
	assert.Equal(t, relationship.Key("_author_wrote"), rel.Key())

	assert.True(t, reg.EntityRelationshipExists("author", "", "wrote"))
	assert.False(t, reg.EntityRelationshipExists("book", "author", "wrote"))
}

func TestRegistry_PrincipalRelationship(t *testing.T) {
	reg := registry.New()

	liked, err := reg.DefinePrincipalRelationship("book", "liked", relationship.Options{"public": true})
	require.NoError(t, err)
	assert.Equal(t, relationship.Key("book_user_liked"), liked.Key())
	assert.True(t, liked.Initialized())

	got, ok := reg.LookupPrincipalRelationship("book", "liked")
	require.True(t, ok)
	assert.Same(t, liked, got)
	assert.True(t, reg.PrincipalRelationshipExists("book", "liked"))

	got, ok = reg.LookupPrincipalRelationshipByKey("book_user_liked")
	require.True(t, ok)
	assert.Same(t, liked, got)

	got, ok = reg.LookupPrincipalRelationship("book", "owned")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, reg.PrincipalRelationshipExists("author", "liked"))

	_, err = reg.DefinePrincipalRelationship("book", "liked", nil)
	var dup *registry.DuplicateRelationshipError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, relationship.CategoryPrincipal, dup.Category)
	assert.Equal(t, relationship.Key("book_user_liked"), dup.Existing)
	assert.Contains(t, err.Error(), "between user and entity type book")
}

func TestRegistry_IndexesAreSeparate(t *testing.T) {
	reg := registry.New()

	_, err := reg.DefinePrincipalRelationship("book", "liked", nil)
	require.NoError(t, err)

	_, ok := reg.LookupEntityRelationship("book", "user", "liked")
	assert.False(t, ok)
	_, ok = reg.LookupEntityRelationshipByKey("book_user_liked")
	assert.False(t, ok)

	// the same key may be used in the entity index without conflict
	_, err = reg.DefineEntityRelationship("book", "user", "liked", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Count(relationship.CategoryEntity))
	assert.Equal(t, 1, reg.Count(relationship.CategoryPrincipal))
	assert.Equal(t, 0, reg.Count(relationship.Category(42)))
}

func TestRegistry_WithPrincipalType(t *testing.T) {
	reg := registry.New(registry.WithPrincipalType("member"))
	assert.Equal(t, "member", reg.PrincipalType())

	rel, err := reg.DefinePrincipalRelationship("group", "joined", nil)
	require.NoError(t, err)
	assert.Equal(t, relationship.Key("group_member_joined"), rel.Key())
	assert.Equal(t, "member", rel.PrincipalType())

	// empty keeps the default
	assert.Equal(t, relationship.DefaultPrincipalType, registry.New(registry.WithPrincipalType("")).PrincipalType())
}

func TestRegistry_HooksRunOnceAfterStore(t *testing.T) {
	var reg *registry.Registry
	entityCalls, principalCalls := 0, 0

	hooks := relationship.HookFuncs{
		Entity: func(rel *relationship.EntityToEntity) {
			entityCalls++
			// the descriptor is already indexed when its hooks run
			got, ok := reg.LookupEntityRelationship(rel.To(), rel.From(), rel.Kind())
			assert.True(t, ok)
			assert.Same(t, rel, got)
		},
		Principal: func(rel *relationship.EntityToPrincipal) {
			principalCalls++
			assert.True(t, reg.PrincipalRelationshipExists(rel.EntityType(), rel.Kind()))
		},
	}
	reg = registry.New(registry.WithHooks(hooks))

	rel, err := reg.DefineEntityRelationship("book", "author", "wrote", nil)
	require.NoError(t, err)
	rel.Initialize()

	_, err = reg.DefinePrincipalRelationship("book", "liked", nil)
	require.NoError(t, err)

	// rejected defines never build or initialize a descriptor
	_, err = reg.DefineEntityRelationship("author", "book", "wrote", nil)
	require.Error(t, err)

	assert.Equal(t, 1, entityCalls)
	assert.Equal(t, 1, principalCalls)
}

func TestRegistry_Snapshots(t *testing.T) {
	reg := registry.New()

	for _, def := range [][3]string{
		{"movie", "actor", "starred"},
		{"book", "author", "wrote"},
		{"book", "author", "edited"},
	} {
		_, err := reg.DefineEntityRelationship(def[0], def[1], def[2], nil)
		require.NoError(t, err)
	}
	_, err := reg.DefinePrincipalRelationship("movie", "watched", nil)
	require.NoError(t, err)
	_, err = reg.DefinePrincipalRelationship("book", "liked", nil)
	require.NoError(t, err)

	var keys []relationship.Key
	for _, rel := range reg.EntityRelationships() {
		keys = append(keys, rel.Key())
	}
	assert.Equal(t, []relationship.Key{"book_author_edited", "book_author_wrote", "movie_actor_starred"}, keys)

	keys = nil
	for _, rel := range reg.PrincipalRelationships() {
		keys = append(keys, rel.Key())
	}
	assert.Equal(t, []relationship.Key{"book_user_liked", "movie_user_watched"}, keys)
}

func TestRegistry_Metrics(t *testing.T) {
	rec := newCountingRecorder()
	reg := registry.New(registry.WithMetrics(rec))

	_, err := reg.DefineEntityRelationship("book", "author", "wrote", nil)
	require.NoError(t, err)
	_, err = reg.DefineEntityRelationship("author", "book", "wrote", nil)
	require.Error(t, err)
	_, err = reg.DefinePrincipalRelationship("book", "liked", nil)
	require.NoError(t, err)

	reg.LookupEntityRelationship("author", "book", "wrote")
	reg.LookupEntityRelationship("book", "author", "missing")
	reg.LookupPrincipalRelationship("book", "liked")

	assert.Equal(t, 1, rec.defines[relationship.CategoryEntity])
	assert.Equal(t, 1, rec.defines[relationship.CategoryPrincipal])
	assert.Equal(t, 1, rec.duplicates[relationship.CategoryEntity])
	assert.Equal(t, 1, rec.hits[relationship.CategoryEntity])
	assert.Equal(t, 1, rec.misses[relationship.CategoryEntity])
	assert.Equal(t, 1, rec.hits[relationship.CategoryPrincipal])
}

func TestRegistry_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reg := registry.New(registry.WithLogger(zap.New(core)))

	_, err := reg.DefineEntityRelationship("book", "author", "wrote", nil)
	require.NoError(t, err)
	_, err = reg.DefineEntityRelationship("author", "book", "wrote", nil)
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("defined relationship").Len())

	warnings := logs.FilterMessage("rejected duplicate relationship").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "book_author_wrote", warnings[0].ContextMap()["existing"])
}

func TestRegistry_NilOptionsKeepDefaults(t *testing.T) {
	reg := registry.New(registry.WithLogger(nil), registry.WithMetrics(nil), registry.WithHooks(nil))

	rel, err := reg.DefineEntityRelationship("book", "author", "wrote", nil)
	require.NoError(t, err)
	assert.True(t, rel.Initialized())
}
