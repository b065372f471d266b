/*
Package cmdrun runs host commands for module actions.

Modules never call os/exec directly; they receive a Runner so tests can swap
in a Recorder and assert the exact command lines a module would execute:

	rec := cmdrun.NewRecorder()
	rec.Fail("iptables -C INPUT", errors.New("exit status 1"))

	fw := firewall.New(true, cfg, rec)
	_ = fw.Enable(ctx)

	rec.Commands() // ["iptables -L EZIX-INPUT -n", ...]
*/
package cmdrun
