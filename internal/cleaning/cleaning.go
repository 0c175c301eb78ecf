// Package cleaning turns the raw on-time performance table into a validated flight collection:
// field selection, deduplication, type coercion, string normalization and validation.
package cleaning

import (
	"context"
	"errors"

	"github.com/go-gota/gota/dataframe"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/pipeline"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
)

const moduleName = "cleaning"

// Report summarizes one cleaning run.
type Report struct {
	Selected        int
	Dedup           DedupStats
	UnparsedNumbers int
	UnparsedDates   int
	UnparsedFlags   int
	Output          int
}

// Cleaner runs the cleaning pipeline.
type Cleaner struct {
	dateLayout string
	recorder   metrics.MetricRecorder
	report     Report
}

// NewCleaner creates a Cleaner. An empty dateLayout uses the default FL_DATE layout;
// a nil recorder disables stage metrics.
func NewCleaner(dateLayout string, recorder metrics.MetricRecorder) *Cleaner {
	return &Cleaner{dateLayout: dateLayout, recorder: recorder}
}

// Report returns the statistics of the last Clean call.
func (c *Cleaner) Report() Report {
	return c.report
}

// Clean runs FieldSelector, KeyDeduplicator, TypeCoercer, KeyDeduplicator again, StringNormalizer
// and Validator over df. The second deduplication drops rows whose flight date failed to parse.
// Validation failures are returned wrapped in a fatal *exception.BatchError of module "validator";
// the typed error stays reachable with errors.As.
func (c *Cleaner) Clean(ctx context.Context, df dataframe.DataFrame) ([]*entity.Flight, error) {
	c.report = Report{}

	selector := &FieldSelector{}
	flights, err := selector.Select(df)
	if err != nil {
		return nil, err
	}
	c.report.Selected = len(flights)
	c.report.UnparsedNumbers = selector.Unparsed

	dedup := &KeyDeduplicator{}
	coercer := &TypeCoercer{Layout: c.dateLayout}
	p := pipeline.New("cleaning", c.recorder,
		dedup,
		coercer,
		dedup,
		NewStringNormalizer(),
		Validator{},
	)
	out, err := p.Run(ctx, flights)
	c.report.Dedup = dedup.Stats
	c.report.UnparsedDates = coercer.UnparsedDates
	c.report.UnparsedFlags = coercer.UnparsedFlags
	if err != nil {
		if isValidationError(err) {
			return nil, exception.NewBatchError("validator", "cleaned data failed validation", err, false, false)
		}
		return nil, err
	}
	c.report.Output = len(out)
	return out, nil
}

// Clean cleans df with the default date layout.
func Clean(ctx context.Context, df dataframe.DataFrame) ([]*entity.Flight, error) {
	return NewCleaner("", nil).Clean(ctx, df)
}

func isValidationError(err error) bool {
	var (
		dupErr      *DuplicateKeyError
		nullErr     *NullKeyError
		domainErr   *DomainViolationError
		typeErr     *TypeViolationError
		sentinelErr *SentinelLeakError
	)
	return errors.As(err, &dupErr) || errors.As(err, &nullErr) || errors.As(err, &domainErr) ||
		errors.As(err, &typeErr) || errors.As(err, &sentinelErr)
}
