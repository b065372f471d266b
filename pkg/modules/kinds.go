package modules

import (
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/modules/browser"
	"github.com/ezix/ezix/pkg/modules/controlpanel"
	"github.com/ezix/ezix/pkg/modules/firewall"
	"github.com/ezix/ezix/pkg/modules/shell"
	"github.com/ezix/ezix/pkg/modules/xserver"
)

func builtin() []Kind {
	return []Kind{
		{
			ID:       firewall.ID,
			Summary:  "inbound port allow-list (iptables)",
			Requires: []string{"iptables"},
			build: func(env Env, enabled bool, decode func(any) error) (module.Module, error) {
				var cfg firewall.Config
				if err := decodeValid(decode, &cfg, enabled); err != nil {
					return nil, err
				}
				return firewall.New(enabled, cfg, env.Runner), nil
			},
		},
		{
			ID:      controlpanel.ID,
			Summary: "Control Panel access policy",
			build: func(env Env, enabled bool, decode func(any) error) (module.Module, error) {
				var cfg controlpanel.Config
				if err := decodeValid(decode, &cfg, enabled); err != nil {
					return nil, err
				}
				return controlpanel.New(enabled, cfg, env.Policy), nil
			},
		},
		{
			ID:       xserver.ID,
			Summary:  "X session script and display manager",
			Tree:     true,
			Requires: []string{"systemctl"},
			build: func(env Env, enabled bool, decode func(any) error) (module.Module, error) {
				var cfg xserver.Config
				if err := decodeValid(decode, &cfg, enabled); err != nil {
					return nil, err
				}
				return xserver.New(enabled, cfg, env.Root, env.Runner, env.Options...), nil
			},
			tree: func(env Env, decode func(any) error) (*module.Node, error) {
				var cfg xserver.Config
				if err := decodeValid(decode, &cfg, true); err != nil {
					return nil, err
				}
				return xserver.Build(cfg, env.Root, env.Runner), nil
			},
		},
		{
			ID:      shell.ID,
			Summary: "command-line packages",
			Tree:    true,
			build: func(env Env, enabled bool, decode func(any) error) (module.Module, error) {
				var cfg shell.Config
				if err := decodeValid(decode, &cfg, enabled); err != nil {
					return nil, err
				}
				return shell.New(enabled, cfg, env.Runner, env.Options...), nil
			},
			tree: func(env Env, decode func(any) error) (*module.Node, error) {
				var cfg shell.Config
				if err := decodeValid(decode, &cfg, true); err != nil {
					return nil, err
				}
				return shell.Build(cfg, env.Runner), nil
			},
		},
		{
			ID:      browser.ID,
			Summary: "Zen Browser policies and locked prefs",
			build: func(env Env, enabled bool, decode func(any) error) (module.Module, error) {
				var cfg browser.Config
				if err := decodeValid(decode, &cfg, enabled); err != nil {
					return nil, err
				}
				return browser.New(enabled, cfg, env.Root), nil
			},
		},
	}
}

// decodeValid decodes into cfg and validates it when required
func decodeValid[T interface{ Validate() error }](decode func(any) error, cfg *T, validate bool) error {
	if err := decode(cfg); err != nil {
		return err
	}
	if !validate {
		return nil
	}
	return (*cfg).Validate()
}
