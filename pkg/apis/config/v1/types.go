package v1

// SummaryConfig is the optional YAML configuration file. Command line flags
// take precedence over values set here.
type SummaryConfig struct {
	// TrackedWorkflows are the names of the workflows to compare, in report order.
	TrackedWorkflows []string `yaml:"trackedWorkflows"`

	// DuplicatePolicy picks the run used when a job appears more than once
	// on one side: last-observed, longest, shortest or reject.
	DuplicatePolicy string `yaml:"duplicatePolicy,omitempty"`

	// ZeroBaseRuntime is skip or reject.
	ZeroBaseRuntime string `yaml:"zeroBaseRuntime,omitempty"`

	// RegressionThreshold is the percentage change counted as a regression
	// or improvement in the summary line.
	RegressionThreshold *float64 `yaml:"regressionThreshold,omitempty"`
}
