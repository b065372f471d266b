// Package shell installs the user's command-line packages with the host's
// package manager.
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/log"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/reconciler"
)

// ID is the module identity
const ID = "shell"

// PackageManager names a supported package manager
type PackageManager string

const (
	Winget     PackageManager = "winget"
	Scoop      PackageManager = "scoop"
	Chocolatey PackageManager = "chocolatey"
	Apt        PackageManager = "apt"
	Brew       PackageManager = "brew"
)

// ParsePackageManager validates a package manager name. Empty selects Winget.
func ParsePackageManager(s string) (PackageManager, error) {
	switch pm := PackageManager(strings.ToLower(strings.TrimSpace(s))); pm {
	case "":
		return Winget, nil
	case "choco":
		return Chocolatey, nil
	case Winget, Scoop, Chocolatey, Apt, Brew:
		return pm, nil
	default:
		return "", fmt.Errorf("unknown package manager %q", s)
	}
}

// InstallCommand returns the non-interactive install command for pkg
func (pm PackageManager) InstallCommand(pkg string) (string, []string) {
	switch pm {
	case Scoop:
		return "scoop", []string{"install", pkg}
	case Chocolatey:
		return "choco", []string{"install", pkg, "-y", "--no-progress"}
	case Apt:
		return "apt-get", []string{"install", "-y", "--no-install-recommends", pkg}
	case Brew:
		return "brew", []string{"install", pkg}
	default:
		return "winget", []string{"install", "--exact", "--id", pkg, "--silent",
			"--accept-package-agreements", "--accept-source-agreements"}
	}
}

// Config is the declared shell configuration
type Config struct {
	PackageManager string   `yaml:"package_manager" toml:"package_manager"`
	Packages       []string `yaml:"packages" toml:"packages"`
}

// Validate checks the package manager name
func (c Config) Validate() error {
	_, err := ParsePackageManager(c.PackageManager)
	return err
}

// Build returns the single-node shell tree
func Build(cfg Config, runner cmdrun.Runner) *module.Node {
	logger := log.WithModule(ID)
	pm, err := ParsePackageManager(cfg.PackageManager)
	if err != nil {
		pm = Winget
	}
	packages := append([]string(nil), cfg.Packages...)

	return module.NewBuilder(ID).
		WithEnable(func(ctx context.Context, s *module.State) error {
			logger.Info().Str("package_manager", string(pm)).Strs("packages", packages).Msg("ensuring packages are installed")
			for _, pkg := range packages {
				name, args := pm.InstallCommand(pkg)
				if _, err := runner.Run(ctx, name, args...); err != nil {
					return fmt.Errorf("failed to install %s with %s: %w", pkg, pm, err)
				}
			}
			s.Enabled = true
			return nil
		}).
		WithDisable(func(ctx context.Context, s *module.State) error {
			if len(packages) > 0 {
				logger.Info().Strs("packages", packages).Msg("leaving installed packages in place")
			}
			s.Enabled = false
			return nil
		}).
		Build()
}

// New wraps the tree in the flat module contract
func New(enabled bool, cfg Config, runner cmdrun.Runner, opts ...reconciler.Option) *reconciler.TreeModule {
	return reconciler.NewTreeModule(ID, enabled, Build(cfg, runner), opts...)
}
