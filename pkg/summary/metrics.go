package summary

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
	"github.com/openshift/runtime-summary/pkg/github"
	"github.com/openshift/runtime-summary/pkg/runtimecomparison"
)

const pushgatewayEnv = "RUNTIME_SUMMARY_PROMETHEUS_PUSHGATEWAY"

var fetchMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "runtime_summary_fetch_millis",
	Help:    "Milliseconds to fetch the jobs of one side of the comparison",
	Buckets: []float64{500, 1000, 5000, 10000, 30000, 60000, 300000},
}, []string{"side"})

var runtimeDifferenceMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "runtime_summary_job_runtime_difference_pct",
	Help: "Runtime change of a job on the pull request relative to the base branch, in percent",
}, []string{"workflow", "job"})

var regressionsMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "runtime_summary_regressions",
	Help: "Number of jobs slower than the regression threshold in the last comparison",
}, []string{"repo"})

func recordComparison(prc github.PRContext, result *v1.ComparisonResult, summary runtimecomparison.Summary) {
	for _, wc := range result.Workflows {
		for _, c := range wc.Comparisons {
			runtimeDifferenceMetric.WithLabelValues(wc.WorkflowName, c.JobName).Set(c.RuntimeDifferencePct)
		}
	}
	regressionsMetric.WithLabelValues(prc.Owner + "/" + prc.Repo).Set(float64(summary.Regressions))
}

// pushMetrics sends the run's metrics to the pushgateway named in the
// environment, if any. Failures are logged, never returned.
func pushMetrics(prc github.PRContext) {
	pushgateway := os.Getenv(pushgatewayEnv)
	if pushgateway == "" {
		return
	}

	pusher := push.New(pushgateway, "runtime-summary").
		Grouping("repo", prc.Owner+"_"+prc.Repo).
		Collector(fetchMetric).
		Collector(runtimeDifferenceMetric).
		Collector(regressionsMetric)

	log.Info("pushing metrics to prometheus gateway")
	if err := pusher.Add(); err != nil {
		log.WithError(err).Error("could not push to prometheus pushgateway")
	} else {
		log.Info("successfully pushed metrics to prometheus gateway")
	}
}
