package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var WorkflowOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "operations_total",
		Help:      "Client workflow operations by outcome",
	},
	[]string{"operation", "outcome"},
)

func init() {
	Registry.MustRegister(WorkflowOperationsTotal)
}

// ObserveWorkflow counts one workflow run; a nil err counts as success.
func ObserveWorkflow(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	WorkflowOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
