package importer

import (
	"context"
	"log/slog"
)

// saga.go is the compensating-action pipeline behind the record creator.
// The store has no cross-table transactions, so a multi-table creation is an
// ordered list of forward steps paired with compensations. An essential step
// failure undoes every completed essential step in reverse and surfaces the
// error; supplementary steps log and move on.

// sagaStep is one forward action in a record-creation pipeline.
type sagaStep struct {
	name string
	run  func(ctx context.Context) error

	// compensate undoes the step after a later essential failure.
	// Nil when the step leaves nothing to undo.
	compensate func(ctx context.Context) error

	// essential marks steps whose failure aborts (and rolls back) the
	// record. Non-essential steps are best-effort: ownership links,
	// boundaries, notifications, audit entries.
	essential bool
}

// runSaga executes steps in order. It returns the error of the first failed
// essential step after running compensations; failed compensations are
// logged and not retried (accepted orphan risk under double failure).
func runSaga(ctx context.Context, logger *slog.Logger, steps []sagaStep) error {
	var completed []sagaStep

	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			completed = append(completed, step)
			continue
		}

		if !step.essential {
			logger.Warn("supplementary step failed",
				"step", step.name,
				"error", err.Error(),
			)
			continue
		}

		for i := len(completed) - 1; i >= 0; i-- {
			prev := completed[i]
			if prev.compensate == nil || !prev.essential {
				continue
			}
			if cerr := prev.compensate(ctx); cerr != nil {
				logger.Error("compensation failed, orphan record possible",
					"step", prev.name,
					"error", cerr.Error(),
				)
			}
		}
		return err
	}

	return nil
}
