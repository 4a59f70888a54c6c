package v1

// JobRecord is one observed, completed execution of a CI job. Jobs that never
// produced a runtime are not represented at all.
type JobRecord struct {
	WorkflowName    string `json:"workflow_name" yaml:"workflowName"`
	JobName         string `json:"job_name" yaml:"jobName"`
	DurationSeconds uint64 `json:"duration_seconds" yaml:"durationSeconds"`
}

// JobKey identifies a job within a workflow. Runtime is not part of the key.
type JobKey struct {
	WorkflowName string
	JobName      string
}

func (j JobRecord) Key() JobKey {
	return JobKey{WorkflowName: j.WorkflowName, JobName: j.JobName}
}

// Comparison pairs the base and candidate runtimes of a single job.
type Comparison struct {
	JobName                 string  `json:"job_name" yaml:"jobName"`
	BaseRuntimeSeconds      uint64  `json:"base_runtime_seconds" yaml:"baseRuntimeSeconds"`
	CandidateRuntimeSeconds uint64  `json:"candidate_runtime_seconds" yaml:"candidateRuntimeSeconds"`
	RuntimeDifferencePct    float64 `json:"runtime_difference_pct" yaml:"runtimeDifferencePct"`
}

type WorkflowComparison struct {
	WorkflowName string       `json:"workflow_name" yaml:"workflowName"`
	Comparisons  []Comparison `json:"comparisons" yaml:"comparisons"`
}

// ComparisonResult holds the per workflow comparisons in report order.
type ComparisonResult struct {
	Workflows []WorkflowComparison `json:"workflows" yaml:"workflows"`
}

// Get returns the comparisons for the named workflow, if present.
func (r *ComparisonResult) Get(workflowName string) ([]Comparison, bool) {
	if r == nil {
		return nil, false
	}
	for _, wc := range r.Workflows {
		if wc.WorkflowName == workflowName {
			return wc.Comparisons, true
		}
	}
	return nil, false
}

// Len is the number of workflows with at least one comparison.
func (r *ComparisonResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Workflows)
}

func (r *ComparisonResult) Empty() bool {
	return r.Len() == 0
}

// AllComparisons flattens the result in report order.
func (r *ComparisonResult) AllComparisons() []Comparison {
	if r == nil {
		return nil
	}
	var all []Comparison
	for _, wc := range r.Workflows {
		all = append(all, wc.Comparisons...)
	}
	return all
}
