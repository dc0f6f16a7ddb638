// Package analytics records the form's data-layer events and attribute logs
// as structured log lines and Prometheus counters.
package analytics

import (
	"context"

	"github.com/csg33k/fpr-form/internal/common/logger"
	"github.com/csg33k/fpr-form/internal/common/metrics"
	"github.com/csg33k/fpr-form/internal/domain"
)

// Sink is a ports.AnalyticsSink that writes through the service logger.
type Sink struct {
	log logger.Logger
}

func NewSink(log logger.Logger) *Sink {
	return &Sink{log: log.WithFields(map[string]interface{}{"stream": "analytics"})}
}

func (s *Sink) Track(_ context.Context, ev domain.AnalyticsEvent) {
	metrics.AnalyticsEvents.WithLabelValues(ev.Component, ev.Element).Inc()

	fields := map[string]interface{}{
		"component":  ev.Component,
		"element":    ev.Element,
		"event":      ev.Event,
		"event_type": ev.EventType,
	}
	if ev.CtaText != "" {
		fields["cta_text"] = ev.CtaText
	}
	if ev.SectionTitle != "" {
		fields["section_title"] = ev.SectionTitle
	}
	if ev.TabPosition != "" {
		fields["tab_position"] = ev.TabPosition
	}
	if len(ev.Attributes) > 0 {
		fields["attributes"] = ev.Attributes
	}
	s.log.Info("data layer event", fields)
}

func (s *Sink) LogAttributes(_ context.Context, l domain.AttributeLog) {
	s.log.Info("custom attributes", map[string]interface{}{
		"name":       l.Name,
		"attributes": l.Attributes,
	})
}
