// Package normalization derives analysis columns from cleaned flights: date dimensions,
// midnight rollover correction, hour buckets and delay flag reconciliation.
package normalization

import (
	"context"

	"github.com/tigerroll/ontime/internal/cleaning"
	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/pipeline"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
)

// Report summarizes one normalization run.
type Report struct {
	Input             int
	MidnightCorrected map[string]int
	Dedup             cleaning.DedupStats
	NulledCancelled   int
	FlagsCorrected    int
	Output            int
}

// Normalizer runs the normalization pipeline.
type Normalizer struct {
	recorder metrics.MetricRecorder
	report   Report
}

// NewNormalizer creates a Normalizer. A nil recorder disables stage metrics.
func NewNormalizer(recorder metrics.MetricRecorder) *Normalizer {
	return &Normalizer{recorder: recorder}
}

// Report returns the statistics of the last Normalize call.
func (n *Normalizer) Report() Report {
	return n.report
}

// Normalize runs DateDimensionExtractor, MidnightTimeCorrector, HourBucketClassifier and
// DelayReconciler over flights, modifying them in place.
func (n *Normalizer) Normalize(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	n.report = Report{Input: len(flights)}

	midnight := &MidnightTimeCorrector{}
	delays := &DelayReconciler{}
	p := pipeline.New("normalization", n.recorder,
		DateDimensionExtractor{},
		midnight,
		HourBucketClassifier{},
		delays,
	)
	out, err := p.Run(ctx, flights)
	n.report.MidnightCorrected = midnight.Corrected
	n.report.Dedup = midnight.Dedup
	n.report.NulledCancelled = delays.NulledCancelled
	n.report.FlagsCorrected = delays.FlagsCorrected
	if err != nil {
		return nil, err
	}
	n.report.Output = len(out)
	return out, nil
}

// Normalize normalizes flights without metrics.
func Normalize(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	return NewNormalizer(nil).Normalize(ctx, flights)
}
