/*
Package config loads the desired system configuration.

A configuration file is YAML or TOML, chosen by extension. Both carry the same
document:

	apiVersion: ezix/v1
	kind: SystemConfig
	policy: continue-on-error
	modules:
	  - id: firewall
	    enabled: true
	    ports: [22, 80, 443]
	  - id: xserver
	    window_manager: i3
	    desktop: gnome

or, in TOML:

	apiVersion = "ezix/v1"
	kind = "SystemConfig"

	[[modules]]
	id = "firewall"
	enabled = true
	ports = [22, 80, 443]

Every entry needs an id. An entry without "enabled" is enabled. The remaining
keys are decoded by the module kind when the document is turned into a
module.Set, so the loader itself knows nothing about module configuration.
*/
package config
