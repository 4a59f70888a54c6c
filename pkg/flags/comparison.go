package flags

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	v1 "github.com/openshift/runtime-summary/pkg/apis/config/v1"
	"github.com/openshift/runtime-summary/pkg/runtimecomparison"
)

const (
	workflowFlag            = "workflow"
	duplicatePolicyFlag     = "duplicate-policy"
	zeroBaseRuntimeFlag     = "zero-base-runtime"
	regressionThresholdFlag = "regression-threshold"
)

// ComparisonFlags select the tracked workflows and tune the comparison.
type ComparisonFlags struct {
	TrackedWorkflows    []string
	DuplicatePolicy     string
	ZeroBaseRuntime     string
	RegressionThreshold float64
}

func NewComparisonFlags() *ComparisonFlags {
	return &ComparisonFlags{
		DuplicatePolicy:     string(runtimecomparison.DuplicateLastObserved),
		ZeroBaseRuntime:     string(runtimecomparison.ZeroBaseSkip),
		RegressionThreshold: runtimecomparison.DefaultRegressionThreshold,
	}
}

func (f *ComparisonFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringArrayVar(&f.TrackedWorkflows, workflowFlag, f.TrackedWorkflows, "Name of a workflow to compare, repeat in report order")
	fs.StringVar(&f.DuplicatePolicy, duplicatePolicyFlag, f.DuplicatePolicy, "Run to use when a job appears more than once: {last-observed,longest,shortest,reject}")
	fs.StringVar(&f.ZeroBaseRuntime, zeroBaseRuntimeFlag, f.ZeroBaseRuntime, "Handling of jobs with a zero second base runtime: {skip,reject}")
	fs.Float64Var(&f.RegressionThreshold, regressionThresholdFlag, f.RegressionThreshold, "Percentage change reported as a regression or improvement")
}

// ApplyConfig takes values from the configuration file for every flag that
// was not set on the command line.
func (f *ComparisonFlags) ApplyConfig(fs *pflag.FlagSet, cfg *v1.SummaryConfig) {
	if cfg == nil {
		return
	}
	if !fs.Changed(workflowFlag) && len(cfg.TrackedWorkflows) > 0 {
		f.TrackedWorkflows = cfg.TrackedWorkflows
	}
	if !fs.Changed(duplicatePolicyFlag) && cfg.DuplicatePolicy != "" {
		f.DuplicatePolicy = cfg.DuplicatePolicy
	}
	if !fs.Changed(zeroBaseRuntimeFlag) && cfg.ZeroBaseRuntime != "" {
		f.ZeroBaseRuntime = cfg.ZeroBaseRuntime
	}
	if !fs.Changed(regressionThresholdFlag) && cfg.RegressionThreshold != nil {
		f.RegressionThreshold = *cfg.RegressionThreshold
	}
}

func (f *ComparisonFlags) Options() runtimecomparison.Options {
	return runtimecomparison.Options{
		Duplicates: runtimecomparison.DuplicatePolicy(f.DuplicatePolicy),
		ZeroBase:   runtimecomparison.ZeroBasePolicy(f.ZeroBaseRuntime),
	}
}

func (f *ComparisonFlags) Validate() error {
	if len(f.TrackedWorkflows) == 0 {
		return errors.New("at least one tracked workflow is required, use --workflow or the config file")
	}
	if f.RegressionThreshold < 0 {
		return errors.Errorf("--%s must not be negative", regressionThresholdFlag)
	}
	return f.Options().Validate()
}
