// Package project reads configure.yaml, the per-project description of what
// the configure step has to discover and define.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/goplus/mkconf/pkgs/configure"
)

// FileName is looked up in the source directory.
const FileName = "configure.yaml"

// Project matches configure.yaml.
type Project struct {
	Output   string            `yaml:"output"`
	PreferCC []string          `yaml:"prefer_cc"`
	Require  []Requirement     `yaml:"require"`
	Defs     map[string]string `yaml:"defs"`
	Append   Flags             `yaml:"append"`
	Modes    Modes             `yaml:"modes"`
}

// Requirement is one Require call.
type Requirement struct {
	Lib        string `yaml:"lib"`
	Program    string `yaml:"program"`
	MinVersion string `yaml:"min_version"`
}

// Flags maps a category name to the values appended to it, in order.
type Flags map[string][]string

// Modes holds extra flags for each build mode.
type Modes struct {
	Debug    Flags `yaml:"debug"`
	Profile  Flags `yaml:"profile"`
	Optimize Flags `yaml:"optimize"`
}

// Load reads FileName from dir. A missing file yields an empty Project.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Project{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes a project description; name is used in error messages.
func Parse(data []byte, name string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	for i, r := range p.Require {
		if r.MinVersion != "" && r.Lib == "" {
			return nil, fmt.Errorf("parse %s: require[%d]: min_version needs lib", name, i)
		}
	}
	return &p, nil
}

// Apply feeds the project into b: preferred compiler, requirements,
// appended flags, flags of the active modes, then definitions.
func (p *Project) Apply(ctx context.Context, b *configure.Builder) error {
	for _, cc := range p.PreferCC {
		if b.PreferCC(ctx, cc) {
			break
		}
	}
	for _, r := range p.Require {
		if err := b.RequireVersion(ctx, r.Lib, r.Program, r.MinVersion); err != nil {
			return err
		}
	}
	if err := p.Append.apply(b); err != nil {
		return err
	}

	mode := b.Mode()
	for _, m := range []struct {
		on    bool
		flags Flags
	}{
		{mode.Debug, p.Modes.Debug},
		{mode.Optimize, p.Modes.Optimize},
		{mode.Profile, p.Modes.Profile},
	} {
		if !m.on {
			continue
		}
		if err := m.flags.apply(b); err != nil {
			return err
		}
	}

	for k, v := range p.Defs {
		b.Config(k, v)
	}
	return nil
}

// knownCategories fixes the order in which Flags are applied.
var knownCategories = []configure.Category{configure.CFlags, configure.LDFlags, configure.Libs}

func (f Flags) apply(b *configure.Builder) error {
	for _, cat := range knownCategories {
		for _, v := range f[string(cat)] {
			if err := b.Append(cat, v); err != nil {
				return err
			}
		}
	}
	for name, values := range f {
		if slices.Contains(knownCategories, configure.Category(name)) {
			continue
		}
		for _, v := range values {
			if err := b.Append(configure.Category(name), v); err != nil {
				return fmt.Errorf("%s: %w", FileName, err)
			}
		}
	}
	return nil
}
