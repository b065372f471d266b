/*
Package modules is the catalog of module kinds this host knows how to manage.

Each kind knows its identity, how to decode its configuration entry and how to
build its module. The catalog provides the canonical registry (one disabled
default per kind, in a fixed order) and builds declared modules for
pkg/config:

	cat := modules.NewCatalog(modules.Env{
		Runner: cmdrun.ExecRunner{},
		Policy: policy.NewSystemWriter(),
	})
	reg, err := cat.Registry()

Tree-shaped kinds (xserver, shell) also expose their node tree for
reconciler.Manager.
*/
package modules
