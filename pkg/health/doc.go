/*
Package health checks that the host can run module actions.

Checks are one-shot: RunAll executes each Checker in order and returns one
Result per check. There is no retry or interval logic; a failed check is
reported and left to the operator.

	results := health.RunAll(ctx,
		health.NewExecChecker(cmdrun.ExecRunner{}, "iptables", "--version").WithLabel("firewall"),
		health.WritableDirChecker{Label: "journal", Dir: "/var/lib/ezix"},
	)
	if !health.Healthy(results) {
		...
	}

ExecChecker runs a command through a cmdrun.Runner and is healthy when the
command exits zero. WritableDirChecker creates and removes a probe file.
FuncChecker wraps any function.
*/
package health
