package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunSaga_AllStepsInOrder(t *testing.T) {
	var order []string
	step := func(name string, essential bool) sagaStep {
		return sagaStep{
			name:      name,
			essential: essential,
			run: func(context.Context) error {
				order = append(order, name)
				return nil
			},
		}
	}

	err := runSaga(context.Background(), discardLogger(), []sagaStep{
		step("a", true), step("b", true), step("c", false),
	})
	if err != nil {
		t.Fatalf("runSaga() = %v", err)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("execution order = %v", order)
	}
}

func TestRunSaga_EssentialFailureCompensatesInReverse(t *testing.T) {
	var undone []string
	boom := errors.New("boom")

	steps := []sagaStep{
		{
			name:      "first",
			essential: true,
			run:       func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				undone = append(undone, "first")
				return nil
			},
		},
		{
			name:      "second",
			essential: true,
			run:       func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				undone = append(undone, "second")
				return nil
			},
		},
		{
			name:      "third",
			essential: true,
			run:       func(context.Context) error { return boom },
		},
	}

	err := runSaga(context.Background(), discardLogger(), steps)
	if !errors.Is(err, boom) {
		t.Fatalf("runSaga() = %v, want the step error", err)
	}
	if len(undone) != 2 || undone[0] != "second" || undone[1] != "first" {
		t.Errorf("compensation order = %v, want [second first]", undone)
	}
}

func TestRunSaga_SupplementaryFailureContinues(t *testing.T) {
	var ran []string
	steps := []sagaStep{
		{
			name:      "essential",
			essential: true,
			run: func(context.Context) error {
				ran = append(ran, "essential")
				return nil
			},
			compensate: func(context.Context) error {
				t.Error("compensation must not run for a supplementary failure")
				return nil
			},
		},
		{
			name: "supplementary",
			run:  func(context.Context) error { return errors.New("link failed") },
		},
		{
			name: "after",
			run: func(context.Context) error {
				ran = append(ran, "after")
				return nil
			},
		},
	}

	if err := runSaga(context.Background(), discardLogger(), steps); err != nil {
		t.Fatalf("runSaga() = %v, supplementary failures must not surface", err)
	}
	if len(ran) != 2 || ran[1] != "after" {
		t.Errorf("ran = %v, want processing to continue past the failure", ran)
	}
}

func TestRunSaga_CompensationFailureIsSwallowed(t *testing.T) {
	boom := errors.New("boom")
	steps := []sagaStep{
		{
			name:       "first",
			essential:  true,
			run:        func(context.Context) error { return nil },
			compensate: func(context.Context) error { return errors.New("undo failed") },
		},
		{
			name:      "second",
			essential: true,
			run:       func(context.Context) error { return boom },
		},
	}

	// The original step error wins even when its compensation also failed.
	if err := runSaga(context.Background(), discardLogger(), steps); !errors.Is(err, boom) {
		t.Errorf("runSaga() = %v, want the original step error", err)
	}
}
