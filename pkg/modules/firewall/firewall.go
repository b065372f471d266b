// Package firewall manages an allow-list of inbound ports with iptables.
//
// Rules live in a dedicated chain jumped to from INPUT, so enabling rewrites
// the chain wholesale and disabling never touches rules it did not create.
package firewall

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/log"
	"github.com/rs/zerolog"
)

const (
	// ID is the module identity
	ID = "firewall"

	// Chain is the iptables chain owned by the module
	Chain = "EZIX-INPUT"
)

// Config is the declared firewall configuration
type Config struct {
	Ports    []int `yaml:"ports" toml:"ports"`
	UDPPorts []int `yaml:"udp_ports" toml:"udp_ports"`
}

// Validate checks port ranges
func (c Config) Validate() error {
	for _, p := range append(append([]int(nil), c.Ports...), c.UDPPorts...) {
		if p < 1 || p > 65535 {
			return fmt.Errorf("invalid port %d: must be between 1 and 65535", p)
		}
	}
	return nil
}

// Firewall is the firewall module
type Firewall struct {
	enabled bool
	cfg     Config
	runner  cmdrun.Runner
	logger  zerolog.Logger
}

// New creates the module. The configuration is copied.
func New(enabled bool, cfg Config, runner cmdrun.Runner) *Firewall {
	return &Firewall{
		enabled: enabled,
		cfg: Config{
			Ports:    append([]int(nil), cfg.Ports...),
			UDPPorts: append([]int(nil), cfg.UDPPorts...),
		},
		runner: runner,
		logger: log.WithModule(ID),
	}
}

func (f *Firewall) ID() string {
	return ID
}

func (f *Firewall) IsEnabled() bool {
	return f.enabled
}

// Config returns the declared configuration
func (f *Firewall) Config() Config {
	return f.cfg
}

// Enable installs one ACCEPT rule per declared port and hooks the chain into
// INPUT
func (f *Firewall) Enable(ctx context.Context) error {
	if f.exists(ctx, "-L", Chain, "-n") {
		if err := f.iptables(ctx, "-F", Chain); err != nil {
			return fmt.Errorf("failed to flush chain: %w", err)
		}
	} else if err := f.iptables(ctx, "-N", Chain); err != nil {
		return fmt.Errorf("failed to create chain: %w", err)
	}

	for _, rule := range f.rules() {
		if err := f.iptables(ctx, rule...); err != nil {
			return fmt.Errorf("failed to add rule: %w", err)
		}
	}

	if !f.exists(ctx, "-C", "INPUT", "-j", Chain) {
		if err := f.iptables(ctx, "-I", "INPUT", "-j", Chain); err != nil {
			return fmt.Errorf("failed to add jump rule: %w", err)
		}
	}

	f.logger.Info().
		Str("tcp", joinPorts(f.cfg.Ports)).
		Str("udp", joinPorts(f.cfg.UDPPorts)).
		Msg("firewall rules installed")
	return nil
}

// Disable unhooks and removes the chain. Each step is skipped when there is
// nothing to remove.
func (f *Firewall) Disable(ctx context.Context) error {
	if f.exists(ctx, "-C", "INPUT", "-j", Chain) {
		if err := f.iptables(ctx, "-D", "INPUT", "-j", Chain); err != nil {
			return fmt.Errorf("failed to remove jump rule: %w", err)
		}
	}

	if !f.exists(ctx, "-L", Chain, "-n") {
		f.logger.Debug().Msg("chain not present, nothing to remove")
		return nil
	}
	if err := f.iptables(ctx, "-F", Chain); err != nil {
		return fmt.Errorf("failed to flush chain: %w", err)
	}
	if err := f.iptables(ctx, "-X", Chain); err != nil {
		return fmt.Errorf("failed to delete chain: %w", err)
	}

	f.logger.Info().Msg("firewall rules removed")
	return nil
}

func (f *Firewall) rules() [][]string {
	var rules [][]string
	add := func(proto string, ports []int) {
		for _, p := range ports {
			rules = append(rules, []string{
				"-A", Chain,
				"-p", proto,
				"--dport", strconv.Itoa(p),
				"-j", "ACCEPT",
			})
		}
	}
	add("tcp", f.cfg.Ports)
	add("udp", f.cfg.UDPPorts)
	return rules
}

// exists runs a probe; any failure means absent
func (f *Firewall) exists(ctx context.Context, args ...string) bool {
	_, err := f.runner.Run(ctx, "iptables", args...)
	return err == nil
}

func (f *Firewall) iptables(ctx context.Context, args ...string) error {
	f.logger.Debug().Str("command", cmdrun.Line("iptables", args...)).Msg("running iptables")
	_, err := f.runner.Run(ctx, "iptables", args...)
	return err
}

func joinPorts(ports []int) string {
	s := make([]string, len(ports))
	for i, p := range ports {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ",")
}
