package registry

import (
	"go.uber.org/zap"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// Recorder receives registry activity for metrics.
type Recorder interface {
	RecordDefine(category relationship.Category)
	RecordDuplicate(category relationship.Category)
	RecordLookup(category relationship.Category, hit bool)
}

type noopRecorder struct{}

func (noopRecorder) RecordDefine(relationship.Category)       {}
func (noopRecorder) RecordDuplicate(relationship.Category)    {}
func (noopRecorder) RecordLookup(relationship.Category, bool) {}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithLogger sets the logger used for define and duplicate events.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the recorder for define and lookup counts.
func WithMetrics(rec Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.metrics = rec
		}
	}
}

// WithHooks sets the hooks every new descriptor is initialized with.
func WithHooks(hooks relationship.Hooks) Option {
	return func(r *Registry) {
		if hooks != nil {
			r.hooks = hooks
		}
	}
}

// WithPrincipalType overrides the fixed principal side of entity-to-principal
// keys. An empty value keeps relationship.DefaultPrincipalType.
func WithPrincipalType(principalType string) Option {
	return func(r *Registry) {
		if principalType != "" {
			r.principalType = principalType
		}
	}
}
