package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// RelationshipCounter reports how many relationships a registry holds.
type RelationshipCounter interface {
	Count(category relationship.Category) int
}

// PrometheusExporter exports registry metrics to Prometheus format.
type PrometheusExporter struct {
	defines       *prometheus.CounterVec
	duplicates    *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	relationships *prometheus.GaugeVec
}

// NewPrometheusExporter creates a new Prometheus exporter and registers its
// metrics with registerer. A nil registerer uses prometheus.DefaultRegisterer.
func NewPrometheusExporter(namespace string, registerer prometheus.Registerer) *PrometheusExporter {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusExporter{
		defines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relationship_defines_total",
				Help:      "Total number of relationships defined",
			},
			[]string{"category"},
		),
		duplicates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relationship_duplicates_total",
				Help:      "Total number of defines rejected as duplicates",
			},
			[]string{"category"},
		),
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relationship_lookups_total",
				Help:      "Total number of relationship lookups by result",
			},
			[]string{"category", "result"},
		),
		relationships: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "relationships_current",
				Help:      "Current number of relationships in the registry",
			},
			[]string{"category"},
		),
	}
}

// Update updates Gauge metrics from the registry.
// Counters are updated as events happen, so only gauges are set here.
func (e *PrometheusExporter) Update(counter RelationshipCounter) {
	for _, c := range []relationship.Category{relationship.CategoryEntity, relationship.CategoryPrincipal} {
		e.relationships.WithLabelValues(c.String()).Set(float64(counter.Count(c)))
	}
}

// RecordDefine records a successful define in Prometheus.
func (e *PrometheusExporter) RecordDefine(category relationship.Category) {
	e.defines.WithLabelValues(category.String()).Inc()
}

// RecordDuplicate records a rejected define in Prometheus.
func (e *PrometheusExporter) RecordDuplicate(category relationship.Category) {
	e.duplicates.WithLabelValues(category.String()).Inc()
}

// RecordLookup records a lookup in Prometheus.
func (e *PrometheusExporter) RecordLookup(category relationship.Category, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	e.lookups.WithLabelValues(category.String(), result).Inc()
}
