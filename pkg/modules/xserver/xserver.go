// Package xserver configures the X session: a session script that starts the
// declared window manager and, optionally, the display manager of a desktop
// environment.
//
// The module is a tree. The root node owns the session script; the "desktop"
// child is only reached once the script is in place.
package xserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/log"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/reconciler"
)

// ID is the module identity
const ID = "xserver"

// SessionScript is the session script location relative to the filesystem root
var SessionScript = filepath.Join("etc", "X11", "Xsession.d", "90ezix-session")

var displayManagers = map[string]string{
	"gnome":  "gdm",
	"plasma": "sddm",
	"kde":    "sddm",
	"xfce":   "lightdm",
}

// Config is the declared X session configuration
type Config struct {
	WindowManager  string `yaml:"window_manager" toml:"window_manager"`
	Desktop        string `yaml:"desktop" toml:"desktop"`
	DisplayManager string `yaml:"display_manager" toml:"display_manager"`
}

// Validate checks the configuration of an enabled module
func (c Config) Validate() error {
	if strings.TrimSpace(c.WindowManager) == "" {
		return errors.New("window_manager is required")
	}
	if _, err := c.displayManager(); err != nil {
		return err
	}
	return nil
}

// displayManager resolves the unit to enable; empty when no desktop is set
func (c Config) displayManager() (string, error) {
	if c.DisplayManager != "" {
		return c.DisplayManager, nil
	}
	if c.Desktop == "" {
		return "", nil
	}
	dm, ok := displayManagers[strings.ToLower(c.Desktop)]
	if !ok {
		return "", fmt.Errorf("unknown desktop %q: set display_manager explicitly", c.Desktop)
	}
	return dm, nil
}

// Script renders the session script
func Script(windowManager string) []byte {
	return []byte(fmt.Sprintf("#!/bin/sh\n# Managed by ezix. Local changes are overwritten.\nexec %s\n", windowManager))
}

// Build returns the xserver tree rooted at the filesystem root dir
func Build(cfg Config, root string, runner cmdrun.Runner) *module.Node {
	logger := log.WithModule(ID)
	path := filepath.Join(root, SessionScript)
	script := Script(cfg.WindowManager)

	b := module.NewBuilder(ID).
		WithCheck(func(module.State) bool {
			current, err := os.ReadFile(path)
			return err == nil && bytes.Equal(current, script)
		}).
		WithEnable(func(ctx context.Context, s *module.State) error {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create session directory: %w", err)
			}
			if err := os.WriteFile(path, script, 0755); err != nil {
				return fmt.Errorf("failed to write session script: %w", err)
			}
			logger.Info().Str("path", path).Str("window_manager", cfg.WindowManager).Msg("session script written")
			s.Enabled = true
			return nil
		}).
		WithDisable(func(ctx context.Context, s *module.State) error {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove session script: %w", err)
			}
			logger.Info().Str("path", path).Msg("session script removed")
			s.Enabled = false
			return nil
		})

	if dm, err := cfg.displayManager(); err == nil && dm != "" {
		b.WithChild(desktop(dm, runner))
	}
	return b.Build()
}

// desktop's check reads only its own state: CheckFunc has no context, so
// the systemctl probe runs inside enable where cancellation reaches it.
func desktop(dm string, runner cmdrun.Runner) *module.Node {
	logger := log.WithModule(ID + "/desktop")
	unit := dm + ".service"

	return module.NewBuilder("desktop").
		WithEnable(func(ctx context.Context, s *module.State) error {
			if _, err := runner.Run(ctx, "systemctl", "is-enabled", "--quiet", unit); err == nil {
				logger.Debug().Str("unit", unit).Msg("display manager already enabled")
				s.Enabled = true
				return nil
			}
			if _, err := runner.Run(ctx, "systemctl", "enable", unit); err != nil {
				return fmt.Errorf("failed to enable %s: %w", unit, err)
			}
			logger.Info().Str("unit", unit).Msg("display manager enabled")
			s.Enabled = true
			return nil
		}).
		WithDisable(func(ctx context.Context, s *module.State) error {
			if _, err := runner.Run(ctx, "systemctl", "disable", unit); err != nil {
				return fmt.Errorf("failed to disable %s: %w", unit, err)
			}
			logger.Info().Str("unit", unit).Msg("display manager disabled")
			s.Enabled = false
			return nil
		}).
		Build()
}

// New wraps the tree in the flat module contract
func New(enabled bool, cfg Config, root string, runner cmdrun.Runner, opts ...reconciler.Option) *reconciler.TreeModule {
	return reconciler.NewTreeModule(ID, enabled, Build(cfg, root, runner), opts...)
}
