package runtimecomparison

import (
	"github.com/pkg/errors"
)

// DuplicatePolicy decides which run is kept when one side reports the same job
// name more than once for a workflow, e.g. after a re-run.
type DuplicatePolicy string

const (
	// DuplicateLastObserved keeps the run that appears last in the input.
	DuplicateLastObserved DuplicatePolicy = "last-observed"
	DuplicateLongest      DuplicatePolicy = "longest"
	DuplicateShortest     DuplicatePolicy = "shortest"
	// DuplicateReject fails the comparison with ErrAmbiguousJob.
	DuplicateReject DuplicatePolicy = "reject"
)

// ZeroBasePolicy decides what happens to a job whose base runtime is zero
// seconds, for which no percentage can be computed.
type ZeroBasePolicy string

const (
	ZeroBaseSkip   ZeroBasePolicy = "skip"
	ZeroBaseReject ZeroBasePolicy = "reject"
)

// Options tune the comparison. The zero value keeps the last observed
// duplicate and skips jobs with a zero base runtime.
type Options struct {
	Duplicates DuplicatePolicy
	ZeroBase   ZeroBasePolicy
}

func (o Options) Validate() error {
	switch o.Duplicates {
	case "", DuplicateLastObserved, DuplicateLongest, DuplicateShortest, DuplicateReject:
	default:
		return errors.Errorf("invalid duplicate policy %q, must be one of: %s, %s, %s, %s",
			o.Duplicates, DuplicateLastObserved, DuplicateLongest, DuplicateShortest, DuplicateReject)
	}
	switch o.ZeroBase {
	case "", ZeroBaseSkip, ZeroBaseReject:
	default:
		return errors.Errorf("invalid zero base runtime policy %q, must be one of: %s, %s",
			o.ZeroBase, ZeroBaseSkip, ZeroBaseReject)
	}
	return nil
}
