package services

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/asakaida/tsunagi/internal/manifest"
	"github.com/asakaida/tsunagi/pkg/registry"
	"github.com/asakaida/tsunagi/pkg/relationship"
)

// Definer is the subset of *registry.Registry used to apply a manifest
type Definer interface {
	DefineEntityRelationship(from, to, kind string, opts relationship.Options) (*relationship.EntityToEntity, error)
	DefinePrincipalRelationship(entityType, kind string, opts relationship.Options) (*relationship.EntityToPrincipal, error)
}

// ApplyResult summarizes one Apply call
type ApplyResult struct {
	EntityDefined    int
	PrincipalDefined int
	Rejected         int
}

// Defined returns the number of relationships created
func (r ApplyResult) Defined() int {
	return r.EntityDefined + r.PrincipalDefined
}

// DefinitionService defines manifest declarations into a registry
type DefinitionService struct {
	registry Definer
	logger   *zap.Logger
}

// NewDefinitionService creates a new DefinitionService
func NewDefinitionService(reg Definer, logger *zap.Logger) *DefinitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefinitionService{
		registry: reg,
		logger:   logger,
	}
}

// Apply validates m and defines every declaration in order. A rejected
// declaration does not stop the rest; all failures are returned together.
func (s *DefinitionService) Apply(m *manifest.Manifest) (ApplyResult, error) {
	var result ApplyResult

	// Validate input
	if m == nil {
		return result, fmt.Errorf("manifest is required")
	}
	if err := m.Validate(); err != nil {
		return result, fmt.Errorf("invalid manifest: %w", err)
	}

	var errs *multierror.Error

	for i, rel := range m.Relationships {
		if _, err := s.registry.DefineEntityRelationship(rel.From, rel.To, rel.Kind, rel.Options); err != nil {
			result.Rejected++
			errs = multierror.Append(errs, fmt.Errorf("relationships[%d]: %w", i, err))
			continue
		}
		result.EntityDefined++
	}

	for i, rel := range m.Principals {
		if _, err := s.registry.DefinePrincipalRelationship(rel.Type, rel.Kind, rel.Options); err != nil {
			result.Rejected++
			errs = multierror.Append(errs, fmt.Errorf("principals[%d]: %w", i, err))
			continue
		}
		result.PrincipalDefined++
	}

	s.logger.Info("applied relationship manifest",
		zap.Int("entity_defined", result.EntityDefined),
		zap.Int("principal_defined", result.PrincipalDefined),
		zap.Int("rejected", result.Rejected),
	)

	return result, errs.ErrorOrNil()
}

var _ Definer = (*registry.Registry)(nil)
