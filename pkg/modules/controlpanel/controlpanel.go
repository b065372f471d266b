// Package controlpanel toggles access to the Windows Control Panel and
// Settings app through the Explorer policy key.
//
// Enabled, the module lifts NoControlPanel and can narrow what stays
// reachable: Allow lists the Control Panel applets shown (RestrictCPL) and
// SettingsPages the Settings pages shown (SettingsPageVisibility). Disabled,
// it sets NoControlPanel=1, which hides both.
package controlpanel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ezix/ezix/pkg/log"
	"github.com/ezix/ezix/pkg/policy"
	"github.com/rs/zerolog"
)

const (
	// ID is the module identity
	ID = "control_panel"

	// PolicyKey holds the Explorer restrictions
	PolicyKey = `Software\Microsoft\Windows\CurrentVersion\Policies\Explorer`

	// PolicyValue is the restriction this module owns
	PolicyValue = "NoControlPanel"

	// RestrictValue turns on the applet allow-list stored in the
	// RestrictValue subkey
	RestrictValue = "RestrictCPL"

	// SettingsValue limits the Settings app to the listed pages
	SettingsValue = "SettingsPageVisibility"
)

// Config is the declared control panel configuration
type Config struct {
	// Allow holds canonical applet names, e.g. Microsoft.Mouse
	Allow []string `yaml:"allow" toml:"allow"`

	// SettingsPages holds ms-settings page names, e.g. display
	SettingsPages []string `yaml:"settings_pages" toml:"settings_pages"`
}

// Validate rejects empty names
func (c Config) Validate() error {
	for i, name := range c.Allow {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("allow[%d]: empty applet name", i)
		}
	}
	for i, page := range c.SettingsPages {
		if strings.TrimSpace(page) == "" || strings.Contains(page, ";") {
			return fmt.Errorf("settings_pages[%d]: invalid page %q", i, page)
		}
	}
	return nil
}

// ControlPanel is the control panel module
type ControlPanel struct {
	enabled bool
	cfg     Config
	writer  policy.Writer
	logger  zerolog.Logger
}

// New creates the module
func New(enabled bool, cfg Config, writer policy.Writer) *ControlPanel {
	return &ControlPanel{
		enabled: enabled,
		cfg: Config{
			Allow:         append([]string(nil), cfg.Allow...),
			SettingsPages: append([]string(nil), cfg.SettingsPages...),
		},
		writer: writer,
		logger: log.WithModule(ID),
	}
}

func (c *ControlPanel) ID() string {
	return ID
}

func (c *ControlPanel) IsEnabled() bool {
	return c.enabled
}

// Config returns the module configuration
func (c *ControlPanel) Config() Config {
	return c.cfg
}

// Enable lifts the restriction and applies the allow-lists
func (c *ControlPanel) Enable(ctx context.Context) error {
	err := c.writer.DeleteValue(PolicyKey, PolicyValue)
	if c.unsupported(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", PolicyValue, err)
	}

	if err := c.applyAllow(); err != nil {
		return err
	}
	if err := c.applySettingsPages(); err != nil {
		return err
	}
	c.logger.Info().
		Int("applets", len(c.cfg.Allow)).
		Int("settings_pages", len(c.cfg.SettingsPages)).
		Msg("control panel access allowed")
	return nil
}

func (c *ControlPanel) applyAllow() error {
	if len(c.cfg.Allow) == 0 {
		if err := c.writer.DeleteValue(PolicyKey, RestrictValue); err != nil {
			return fmt.Errorf("failed to clear %s: %w", RestrictValue, err)
		}
		return nil
	}
	if err := c.writer.SetStringList(PolicyKey, RestrictValue, c.cfg.Allow); err != nil {
		return fmt.Errorf("failed to set %s list: %w", RestrictValue, err)
	}
	if err := c.writer.SetDWORD(PolicyKey, RestrictValue, 1); err != nil {
		return fmt.Errorf("failed to set %s: %w", RestrictValue, err)
	}
	return nil
}

func (c *ControlPanel) applySettingsPages() error {
	if len(c.cfg.SettingsPages) == 0 {
		if err := c.writer.DeleteValue(PolicyKey, SettingsValue); err != nil {
			return fmt.Errorf("failed to clear %s: %w", SettingsValue, err)
		}
		return nil
	}
	if err := c.writer.SetString(PolicyKey, SettingsValue, SettingsVisibility(c.cfg.SettingsPages)); err != nil {
		return fmt.Errorf("failed to set %s: %w", SettingsValue, err)
	}
	return nil
}

// SettingsVisibility renders the SettingsPageVisibility value for pages
func SettingsVisibility(pages []string) string {
	trimmed := make([]string, len(pages))
	for i, p := range pages {
		trimmed[i] = strings.TrimPrefix(strings.TrimSpace(p), "ms-settings:")
	}
	return "showonly:" + strings.Join(trimmed, ";")
}

// Disable sets NoControlPanel=1
func (c *ControlPanel) Disable(ctx context.Context) error {
	err := c.writer.SetDWORD(PolicyKey, PolicyValue, 1)
	if c.unsupported(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", PolicyValue, err)
	}
	c.logger.Info().Msg("control panel access restricted")
	return nil
}

func (c *ControlPanel) unsupported(err error) bool {
	if !errors.Is(err, policy.ErrUnsupported) {
		return false
	}
	c.logger.Debug().Msg("no policy registry on this host, skipping")
	return true
}
