package relationship

// Separator joins the three parts of a relationship key.
const Separator = "_"

// DefaultPrincipalType is the fixed right-hand side of entity-to-principal keys.
const DefaultPrincipalType = "user"

// Key uniquely identifies a relationship within one registry index.
// Example: "book_author_wrote"
type Key string

// KeyOf returns the canonical key for a relationship between two types.
// The result is a plain concatenation: no trimming, no case folding and no
// escaping. Type names that contain Separator can therefore collide:
// KeyOf("a_b", "c", k) and KeyOf("a", "b_c", k) are the same key, and a
// registry treats the second define as a duplicate of the first. Hosts that
// need such names must keep them unambiguous themselves.
func KeyOf(from, to, kind string) Key {
	return Key(from + Separator + to + Separator + kind)
}

// String returns the key as a plain string
func (k Key) String() string {
	return string(k)
}
