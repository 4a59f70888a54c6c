package runtimecomparison

import (
	"github.com/montanaflynn/stats"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
)

// DefaultRegressionThreshold is the percentage a job must slow down by before
// it is counted as a regression.
const DefaultRegressionThreshold = 10.0

type Summary struct {
	Compared     int     `json:"compared" yaml:"compared"`
	Regressions  int     `json:"regressions" yaml:"regressions"`
	Improvements int     `json:"improvements" yaml:"improvements"`
	Unchanged    int     `json:"unchanged" yaml:"unchanged"`
	MeanPct      float64 `json:"mean_pct" yaml:"meanPct"`
	MedianPct    float64 `json:"median_pct" yaml:"medianPct"`
	// WorstWorkflow and WorstJob name the largest regression, empty when there is none.
	WorstWorkflow string  `json:"worst_workflow,omitempty" yaml:"worstWorkflow,omitempty"`
	WorstJob      string  `json:"worst_job,omitempty" yaml:"worstJob,omitempty"`
	WorstPct      float64 `json:"worst_pct,omitempty" yaml:"worstPct,omitempty"`
}

// Summarize counts the jobs that moved by more than threshold percent in
// either direction and computes the mean and median difference.
func Summarize(result *v1.ComparisonResult, threshold float64) Summary {
	var summary Summary
	if result.Empty() {
		return summary
	}

	var deltas stats.Float64Data
	for _, wc := range result.Workflows {
		for _, c := range wc.Comparisons {
			deltas = append(deltas, c.RuntimeDifferencePct)
			switch {
			case c.RuntimeDifferencePct > threshold:
				summary.Regressions++
				if summary.WorstJob == "" || c.RuntimeDifferencePct > summary.WorstPct {
					summary.WorstWorkflow = wc.WorkflowName
					summary.WorstJob = c.JobName
					summary.WorstPct = c.RuntimeDifferencePct
				}
			case c.RuntimeDifferencePct < -threshold:
				summary.Improvements++
			default:
				summary.Unchanged++
			}
		}
	}
	summary.Compared = len(deltas)

	// both only fail on empty input, which was ruled out above
	summary.MeanPct, _ = deltas.Mean()
	summary.MedianPct, _ = deltas.Median()
	return summary
}
