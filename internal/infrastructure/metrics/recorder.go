package metrics

import (
	"github.com/asakaida/tsunagi/pkg/registry"
	"github.com/asakaida/tsunagi/pkg/relationship"
)

// recorder forwards registry events to the collector and, when set, the exporter.
type recorder struct {
	collector *Collector
	exporter  *PrometheusExporter
}

// NewRecorder returns a registry.Recorder that records every event in
// collector and, if exporter is non-nil, in Prometheus.
func NewRecorder(collector *Collector, exporter *PrometheusExporter) registry.Recorder {
	return &recorder{collector: collector, exporter: exporter}
}

func (r *recorder) RecordDefine(category relationship.Category) {
	r.collector.RecordDefine(category)
	if r.exporter != nil {
		r.exporter.RecordDefine(category)
	}
}

func (r *recorder) RecordDuplicate(category relationship.Category) {
	r.collector.RecordDuplicate(category)
	if r.exporter != nil {
		r.exporter.RecordDuplicate(category)
	}
}

func (r *recorder) RecordLookup(category relationship.Category, hit bool) {
	r.collector.RecordLookup(category, hit)
	if r.exporter != nil {
		r.exporter.RecordLookup(category, hit)
	}
}
