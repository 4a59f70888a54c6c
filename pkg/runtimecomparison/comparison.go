package runtimecomparison

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
)

var (
	ErrEmptyJobSet     = errors.New("empty job set")
	ErrAmbiguousJob    = errors.New("ambiguous duplicate job")
	ErrZeroBaseRuntime = errors.New("zero base runtime")
)

// workflowJobs is one side's deduplicated view of a workflow. order keeps the
// job names in the order they were first seen.
type workflowJobs struct {
	order    []string
	runtimes map[string]uint64
}

func newWorkflowJobs() *workflowJobs {
	return &workflowJobs{runtimes: make(map[string]uint64)}
}

func (w *workflowJobs) add(job v1.JobRecord, policy DuplicatePolicy) error {
	existing, seen := w.runtimes[job.JobName]
	if !seen {
		w.order = append(w.order, job.JobName)
		w.runtimes[job.JobName] = job.DurationSeconds
		return nil
	}

	switch policy {
	case DuplicateLongest:
		if job.DurationSeconds > existing {
			w.runtimes[job.JobName] = job.DurationSeconds
		}
	case DuplicateShortest:
		if job.DurationSeconds < existing {
			w.runtimes[job.JobName] = job.DurationSeconds
		}
	case DuplicateReject:
		return errors.Wrapf(ErrAmbiguousJob, "workflow %q job %q", job.WorkflowName, job.JobName)
	default:
		w.runtimes[job.JobName] = job.DurationSeconds
	}
	return nil
}

// groupByWorkflow partitions jobs by workflow, returning the workflows in the
// order they first appear.
func groupByWorkflow(jobs []v1.JobRecord, policy DuplicatePolicy) (map[string]*workflowJobs, []string, error) {
	grouped := make(map[string]*workflowJobs)
	var order []string
	for _, job := range jobs {
		wj, ok := grouped[job.WorkflowName]
		if !ok {
			wj = newWorkflowJobs()
			grouped[job.WorkflowName] = wj
			order = append(order, job.WorkflowName)
		}
		if err := wj.add(job, policy); err != nil {
			return nil, nil, err
		}
	}
	return grouped, order, nil
}

// BuildComparison compares base and candidate jobs with the default options.
// Workflows are reported in the order they first appear in the base jobs,
// followed by any only seen in the candidate jobs.
func BuildComparison(baseJobs, candidateJobs []v1.JobRecord) (*v1.ComparisonResult, error) {
	return Build(nil, baseJobs, candidateJobs, Options{})
}

// Build matches base and candidate jobs per workflow and computes the runtime
// difference of every job present on both sides. When trackedWorkflows is
// non-empty it is authoritative: only those workflows are considered and they
// are reported in that order. Jobs within a workflow follow their first
// appearance in baseJobs.
func Build(trackedWorkflows []string, baseJobs, candidateJobs []v1.JobRecord, opts Options) (*v1.ComparisonResult, error) {
	if len(baseJobs) == 0 {
		return nil, errors.WithMessage(ErrEmptyJobSet, "no base jobs")
	}
	if len(candidateJobs) == 0 {
		return nil, errors.WithMessage(ErrEmptyJobSet, "no candidate jobs")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	base, baseOrder, err := groupByWorkflow(baseJobs, opts.Duplicates)
	if err != nil {
		return nil, errors.WithMessage(err, "base jobs")
	}
	candidate, candidateOrder, err := groupByWorkflow(candidateJobs, opts.Duplicates)
	if err != nil {
		return nil, errors.WithMessage(err, "candidate jobs")
	}

	workflows := trackedWorkflows
	if len(workflows) == 0 {
		workflows = append(append([]string{}, baseOrder...), candidateOrder...)
	}

	result := &v1.ComparisonResult{Workflows: []v1.WorkflowComparison{}}
	seen := sets.New[string]()
	for _, workflowName := range workflows {
		if seen.Has(workflowName) {
			continue
		}
		seen.Insert(workflowName)

		baseWorkflow, candidateWorkflow := base[workflowName], candidate[workflowName]
		if baseWorkflow == nil || candidateWorkflow == nil {
			continue
		}

		comparisons, err := compareWorkflow(workflowName, baseWorkflow, candidateWorkflow, opts.ZeroBase)
		if err != nil {
			return nil, err
		}
		if len(comparisons) == 0 {
			continue
		}
		result.Workflows = append(result.Workflows, v1.WorkflowComparison{
			WorkflowName: workflowName,
			Comparisons:  comparisons,
		})
	}

	return result, nil
}

func compareWorkflow(workflowName string, base, candidate *workflowJobs, zeroBase ZeroBasePolicy) ([]v1.Comparison, error) {
	var comparisons []v1.Comparison
	for _, jobName := range base.order {
		candidateRuntime, ok := candidate.runtimes[jobName]
		if !ok {
			continue
		}
		baseRuntime := base.runtimes[jobName]
		if baseRuntime == 0 {
			if zeroBase == ZeroBaseReject {
				return nil, errors.Wrapf(ErrZeroBaseRuntime, "workflow %q job %q", workflowName, jobName)
			}
			continue
		}
		comparisons = append(comparisons, v1.Comparison{
			JobName:                 jobName,
			BaseRuntimeSeconds:      baseRuntime,
			CandidateRuntimeSeconds: candidateRuntime,
			RuntimeDifferencePct:    DifferencePct(baseRuntime, candidateRuntime),
		})
	}
	return comparisons, nil
}

// DifferencePct is the change of candidate relative to base in percent.
// Positive values mean the candidate is slower. base must be non-zero.
func DifferencePct(base, candidate uint64) float64 {
	return (float64(candidate) - float64(base)) / float64(base) * 100.0
}
