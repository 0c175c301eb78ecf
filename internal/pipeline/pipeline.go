// Package pipeline composes flight record stages into an ordered run.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// Stage is one pass over the whole flight collection.
type Stage interface {
	// Name identifies the stage in logs and metrics.
	Name() string
	// Apply returns the transformed collection. Stages may modify the flights in place.
	Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error)
}

// Pipeline runs stages in order and stops at the first error.
type Pipeline struct {
	name     string
	stages   []Stage
	recorder metrics.MetricRecorder
}

// New creates a Pipeline. A nil recorder disables duration metrics.
func New(name string, recorder metrics.MetricRecorder, stages ...Stage) *Pipeline {
	if recorder == nil {
		recorder = metrics.NewNoOpMetricRecorder()
	}
	return &Pipeline{name: name, stages: stages, recorder: recorder}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run applies every stage to flights. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	logger.Debugf("Pipeline '%s' starting with %d rows: %s", p.name, len(flights), strings.Join(p.Stages(), " -> "))
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		in := len(flights)
		out, err := stage.Apply(ctx, flights)
		p.recorder.RecordDuration(ctx, p.name, time.Since(start), map[string]string{"stage": stage.Name()})
		if err != nil {
			logger.Errorf("Pipeline '%s': stage '%s' failed: %v", p.name, stage.Name(), err)
			return nil, err
		}
		logger.Debugf("Pipeline '%s': stage '%s' done (%d -> %d rows).", p.name, stage.Name(), in, len(out))
		flights = out
	}
	return flights, nil
}
