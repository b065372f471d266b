/*
Package metrics defines the Prometheus metrics recorded by ezix.

All metrics are registered with the default Prometheus registry at package
init. ezix is a one-shot command rather than a daemon, so instead of serving
/metrics it writes the registry to a file in the text exposition format after
each apply pass (WriteTextfile). Point the node_exporter textfile collector at
that file to scrape it.

# Metrics Catalog

ezix_module_actions_total{module, phase, result}:
  - Type: Counter
  - One increment per enable or disable invocation
  - Example: ezix_module_actions_total{module="firewall",phase="enable",result="success"} 1

ezix_module_action_duration_seconds{phase}:
  - Type: Histogram
  - Wall time of each collaborator action

ezix_nodes_blocked_total:
  - Type: Counter
  - Tree nodes whose check still failed after enable; their children were not visited

ezix_apply_runs_total{kind, result}:
  - Type: Counter
  - kind is "registry" for flat reconciliation and "tree" for the system manager

ezix_apply_duration_seconds{kind}:
  - Type: Histogram

ezix_last_apply_timestamp_seconds:
  - Type: Gauge
  - Unix time of the last completed apply pass, successful or not

# Timer

	timer := metrics.NewTimer()
	err := m.Enable(ctx)
	timer.ObserveDurationVec(metrics.ModuleActionDuration, "enable")
*/
package metrics
