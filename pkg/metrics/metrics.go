package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// Reconciliation metrics
	ModuleActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezix_module_actions_total",
			Help: "Total number of module actions by module, phase and result",
		},
		[]string{"module", "phase", "result"},
	)

	ModuleActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ezix_module_action_duration_seconds",
			Help:    "Module enable/disable duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	NodesBlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ezix_nodes_blocked_total",
			Help: "Total number of tree nodes left unsatisfied after enable",
		},
	)

	// Apply pass metrics
	ApplyRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezix_apply_runs_total",
			Help: "Total number of apply passes by kind and result",
		},
		[]string{"kind", "result"},
	)

	ApplyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ezix_apply_duration_seconds",
			Help:    "Time taken by one apply pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	LastApplyTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ezix_last_apply_timestamp_seconds",
			Help: "Unix time of the last completed apply pass",
		},
	)
)

func init() {
	prometheus.MustRegister(ModuleActionsTotal)
	prometheus.MustRegister(ModuleActionDuration)
	prometheus.MustRegister(NodesBlockedTotal)
	prometheus.MustRegister(ApplyRunsTotal)
	prometheus.MustRegister(ApplyDuration)
	prometheus.MustRegister(LastApplyTimestamp)
}

// Result maps an error to a result label value
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// WriteTextfile writes every registered metric to path in the text format
// read by the node_exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
