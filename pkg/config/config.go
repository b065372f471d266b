package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ezix/ezix/pkg/log"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/reconciler"
	"gopkg.in/yaml.v3"
)

const (
	APIVersion = "ezix/v1"
	Kind       = "SystemConfig"
)

// Document is a parsed configuration file
type Document struct {
	APIVersion string
	Kind       string
	Policy     string
	Modules    []Entry
}

// Entry is one declared module. Its kind-specific keys stay undecoded until
// Decode is called, which rejects keys the target type does not declare.
type Entry struct {
	ID      string
	Enabled bool
	decode  func(any) error
}

// Decode decodes the entry's keys into v
func (e Entry) Decode(v any) error {
	if e.decode == nil {
		return nil
	}
	return e.decode(v)
}

// Factory builds modules from entries
type Factory interface {
	Known(id string) bool
	IsTree(id string) bool
	Build(id string, enabled bool, decode func(any) error) (module.Module, error)
	BuildTree(id string, decode func(any) error) (*module.Node, error)
}

// UnknownModuleError reports an entry whose id no module kind handles
type UnknownModuleError struct {
	ID    string
	Index int
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("modules[%d]: unknown module %q", e.Index, e.ID)
}

type header struct {
	ID      string `yaml:"id" toml:"id"`
	Enabled *bool  `yaml:"enabled" toml:"enabled"`
}

func (h header) entry(decode func(any) error) Entry {
	enabled := true
	if h.Enabled != nil {
		enabled = *h.Enabled
	}
	return Entry{ID: strings.TrimSpace(h.ID), Enabled: enabled, decode: decode}
}

// Load reads a .yaml, .yml or .toml file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = ParseYAML(data)
	case ".toml":
		doc, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger := log.WithComponent("config")
	logger.Debug().
		Str("path", path).
		Int("modules", len(doc.Modules)).
		Msg("configuration loaded")
	return doc, nil
}

// ParseYAML parses a YAML document
func ParseYAML(data []byte) (*Document, error) {
	var raw struct {
		APIVersion string      `yaml:"apiVersion"`
		Kind       string      `yaml:"kind"`
		Policy     string      `yaml:"policy"`
		Modules    []yaml.Node `yaml:"modules"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	doc := &Document{APIVersion: raw.APIVersion, Kind: raw.Kind, Policy: raw.Policy}
	for i := range raw.Modules {
		node := &raw.Modules[i]
		var h header
		if err := node.Decode(&h); err != nil {
			return nil, fmt.Errorf("modules[%d]: %w", i, err)
		}
		doc.Modules = append(doc.Modules, h.entry(yamlBody(node)))
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseTOML parses a TOML document
func ParseTOML(data []byte) (*Document, error) {
	var raw struct {
		APIVersion string           `toml:"apiVersion"`
		Kind       string           `toml:"kind"`
		Policy     string           `toml:"policy"`
		Modules    []toml.Primitive `toml:"modules"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	doc := &Document{APIVersion: raw.APIVersion, Kind: raw.Kind, Policy: raw.Policy}
	for i, prim := range raw.Modules {
		var h header
		if err := md.PrimitiveDecode(prim, &h); err != nil {
			return nil, fmt.Errorf("modules[%d]: %w", i, err)
		}
		doc.Modules = append(doc.Modules, h.entry(tomlBody(md, prim)))
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	if d.APIVersion != APIVersion {
		return fmt.Errorf("unsupported apiVersion %q (want %q)", d.APIVersion, APIVersion)
	}
	if d.Kind != Kind {
		return fmt.Errorf("unsupported kind %q (want %q)", d.Kind, Kind)
	}
	for i, e := range d.Modules {
		if e.ID == "" {
			return fmt.Errorf("modules[%d]: id is required", i)
		}
	}
	return nil
}

// IDs returns the declared ids in file order, duplicates included
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Modules))
	for i, e := range d.Modules {
		ids[i] = e.ID
	}
	return ids
}

// Set builds the desired configuration set. Later entries replace earlier
// ones with the same id.
func (d *Document) Set(f Factory) (*module.Set, error) {
	set := module.NewSet()
	for i, e := range d.Modules {
		if !f.Known(e.ID) {
			return nil, &UnknownModuleError{ID: e.ID, Index: i}
		}
		m, err := f.Build(e.ID, e.Enabled, e.decode)
		if err != nil {
			return nil, fmt.Errorf("modules[%d]: %w", i, err)
		}
		set.With(m)
	}
	return set, nil
}

// Manager builds a tree manager from the tree-shaped entries that are
// enabled after duplicates are resolved. Later entries replace earlier ones
// with the same id, as in Set; flat and disabled entries are left out.
func (d *Document) Manager(f Factory, opts ...reconciler.Option) (*reconciler.Manager, error) {
	logger := log.WithComponent("config")
	m := reconciler.NewManager(opts...)

	for _, i := range d.final() {
		e := d.Modules[i]
		if !f.Known(e.ID) {
			return nil, &UnknownModuleError{ID: e.ID, Index: i}
		}
		if !e.Enabled {
			continue
		}
		if !f.IsTree(e.ID) {
			logger.Debug().Str("module", e.ID).Msg("not tree-shaped, skipping")
			continue
		}
		root, err := f.BuildTree(e.ID, e.decode)
		if err != nil {
			return nil, fmt.Errorf("modules[%d]: %w", i, err)
		}
		m.AddModule(e.ID, root)
	}
	return m, nil
}

// final returns, per id in order of first declaration, the index of the
// last entry declaring it
func (d *Document) final() []int {
	pos := make(map[string]int)
	var out []int
	for i, e := range d.Modules {
		if p, ok := pos[e.ID]; ok {
			out[p] = i
			continue
		}
		pos[e.ID] = len(out)
		out = append(out, i)
	}
	return out
}
