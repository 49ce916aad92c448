package relationship

// Hooks receives a descriptor when it is initialized. Implementations wire
// the relationship into the host: storage, query filters, UI and so on.
type Hooks interface {
	OnEntityRelationship(rel *EntityToEntity)
	OnPrincipalRelationship(rel *EntityToPrincipal)
}

// NoopHooks ignores every relationship.
type NoopHooks struct{}

func (NoopHooks) OnEntityRelationship(*EntityToEntity)       {}
func (NoopHooks) OnPrincipalRelationship(*EntityToPrincipal) {}

// HookFuncs adapts plain functions to Hooks. Nil fields are skipped.
type HookFuncs struct {
	Entity    func(rel *EntityToEntity)
	Principal func(rel *EntityToPrincipal)
}

func (h HookFuncs) OnEntityRelationship(rel *EntityToEntity) {
	if h.Entity != nil {
		h.Entity(rel)
	}
}

func (h HookFuncs) OnPrincipalRelationship(rel *EntityToPrincipal) {
	if h.Principal != nil {
		h.Principal(rel)
	}
}
