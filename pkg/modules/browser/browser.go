// Package browser manages Zen Browser enterprise configuration: the
// policies.json document and a locked preference file loaded through
// autoconfig.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ezix/ezix/pkg/log"
	"github.com/rs/zerolog"
)

// ID is the module identity
const ID = "zen_browser"

// Paths of the managed files relative to the install directory
var (
	PoliciesFile   = filepath.Join("distribution", "policies.json")
	AutoconfigFile = filepath.Join("defaults", "pref", "autoconfig.js")
	ConfigFile     = "mozilla.cfg"
)

// DefaultInstallDir returns the platform's install directory
func DefaultInstallDir() string {
	switch runtime.GOOS {
	case "windows":
		return `C:\Program Files\Zen Browser`
	case "darwin":
		return "/Applications/Zen.app/Contents/Resources"
	default:
		return "/opt/zen"
	}
}

// Config is the declared browser configuration
type Config struct {
	InstallDir string   `yaml:"install_dir" toml:"install_dir"`
	Policies   Policies `yaml:"policies" toml:"policies"`
	Prefs      Prefs    `yaml:"prefs" toml:"prefs"`
}

// Policies are enterprise policies. Extra holds any policy without a typed
// field.
type Policies struct {
	DisableAppUpdate        *bool          `yaml:"disable_app_update" toml:"disable_app_update"`
	BackgroundAppUpdate     *bool          `yaml:"background_app_update" toml:"background_app_update"`
	DontCheckDefaultBrowser *bool          `yaml:"dont_check_default_browser" toml:"dont_check_default_browser"`
	NoDefaultBookmarks      *bool          `yaml:"no_default_bookmarks" toml:"no_default_bookmarks"`
	Extra                   map[string]any `yaml:"extra" toml:"extra"`
}

// Prefs are locked preferences
type Prefs struct {
	AppUpdateAuto       *bool   `yaml:"app_update_auto" toml:"app_update_auto"`
	AppUpdateEnabled    *bool   `yaml:"app_update_enabled" toml:"app_update_enabled"`
	CheckDefaultBrowser *bool   `yaml:"check_default_browser" toml:"check_default_browser"`
	StartupHomepage     *string `yaml:"startup_homepage" toml:"startup_homepage"`
	StartupPage         *int64  `yaml:"startup_page" toml:"startup_page"`
	Extra               []Pref  `yaml:"extra" toml:"extra"`
}

// Pref is one named preference
type Pref struct {
	Name  string `yaml:"name" toml:"name"`
	Value any    `yaml:"value" toml:"value"`
}

// Validate renders both documents and reports the first error
func (c Config) Validate() error {
	if _, err := RenderPolicies(c.Policies); err != nil {
		return err
	}
	_, err := RenderConfig(c.Prefs)
	return err
}

// Browser is the zen_browser module
type Browser struct {
	enabled bool
	cfg     Config
	dir     string
	logger  zerolog.Logger
}

// New creates the module. Files are written below root when it is set.
func New(enabled bool, cfg Config, root string) *Browser {
	cfg.Policies.Extra = copyMap(cfg.Policies.Extra)
	cfg.Prefs.Extra = append([]Pref(nil), cfg.Prefs.Extra...)

	dir := cfg.InstallDir
	if dir == "" {
		dir = DefaultInstallDir()
	}
	if root != "" {
		dir = filepath.Join(root, dir[len(filepath.VolumeName(dir)):])
	}

	return &Browser{
		enabled: enabled,
		cfg:     cfg,
		dir:     dir,
		logger:  log.WithModule(ID),
	}
}

func (b *Browser) ID() string {
	return ID
}

func (b *Browser) IsEnabled() bool {
	return b.enabled
}

// Dir returns the resolved install directory
func (b *Browser) Dir() string {
	return b.dir
}

// Enable writes policies.json, autoconfig.js and mozilla.cfg
func (b *Browser) Enable(ctx context.Context) error {
	policies, err := RenderPolicies(b.cfg.Policies)
	if err != nil {
		return err
	}
	cfg, err := RenderConfig(b.cfg.Prefs)
	if err != nil {
		return err
	}

	files := []struct {
		path string
		data []byte
	}{
		{PoliciesFile, policies},
		{AutoconfigFile, RenderAutoconfig()},
		{ConfigFile, cfg},
	}
	for _, f := range files {
		path := filepath.Join(b.dir, f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		b.logger.Debug().Str("path", path).Msg("file written")
	}

	b.logger.Info().Str("dir", b.dir).Msg("browser configuration written")
	return nil
}

// Disable removes the managed files. Missing files are ignored.
func (b *Browser) Disable(ctx context.Context) error {
	for _, f := range []string{PoliciesFile, AutoconfigFile, ConfigFile} {
		path := filepath.Join(b.dir, f)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	b.logger.Info().Str("dir", b.dir).Msg("browser configuration removed")
	return nil
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
