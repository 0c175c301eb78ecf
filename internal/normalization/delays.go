package normalization

import (
	"context"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

// delayThreshold is the number of minutes from which a flight counts as delayed.
const delayThreshold = 15

// DelayReconciler nulls delay attributes of cancelled flights and makes the DEL15 flags agree
// with the delay minutes. A delay of exactly 15 minutes keeps its flag.
type DelayReconciler struct {
	NulledCancelled int
	FlagsCorrected  int
}

// Name implements pipeline.Stage.
func (d *DelayReconciler) Name() string { return "DelayReconciler" }

// Apply implements pipeline.Stage.
func (d *DelayReconciler) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	for _, f := range flights {
		if f.Cancelled == 1 {
			f.DepDel15, f.ArrDel15, f.DepDelayNew, f.ArrDelayNew = nil, nil, nil, nil
			d.NulledCancelled++
			continue
		}
		if reconcile(f.DepDel15, f.DepDelayNew) {
			d.FlagsCorrected++
		}
		if reconcile(f.ArrDel15, f.ArrDelayNew) {
			d.FlagsCorrected++
		}
	}
	return flights, nil
}

// reconcile corrects flag in place and reports whether it changed.
func reconcile(flag *int64, minutes *float64) bool {
	if flag == nil || minutes == nil {
		return false
	}
	switch {
	case *flag == 1 && *minutes < delayThreshold:
		*flag = 0
		return true
	case *flag == 0 && *minutes > delayThreshold:
		*flag = 1
		return true
	}
	return false
}
