// Package configure accumulates build flags and preprocessor definitions for
// a make-based C project and writes them out as config.mk and config.h.
package configure

import (
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/goplus/mkconf/internal/env"
)

const (
	// DefaultFlagsFile is written by Generate when no filename is given.
	DefaultFlagsFile = "config.mk"

	// HeaderFile holds the #define lines.
	HeaderFile = "config.h"

	// TemplateFile is copied from the source directory on out-of-tree builds.
	TemplateFile = "Makefile"

	// DefaultPkgConfig is the discovery program used by Require.
	DefaultPkgConfig = "pkg-config"

	// DefaultLDFlags seeds the ldflags category.
	DefaultLDFlags = "-lrt"

	// ProfileFlag is appended to cflags by Generate in profile mode.
	ProfileFlag = "-DPROFILE"
)

// Mode holds the build-mode switches given on the command line.
type Mode struct {
	Debug    bool
	Profile  bool
	Optimize bool
}

// Options configures a Builder. Zero fields get defaults.
type Options struct {
	Mode Mode

	// SourceDir contains the Makefile template; defaults to ".".
	SourceDir string

	// WorkDir receives the generated files; defaults to ".".
	WorkDir string

	// PkgConfigPath is exported to every command run by the default runner.
	// Defaults to env.DefaultPkgConfigPath(). It is ignored when Runner is
	// set; a custom Runner chooses its own environment.
	PkgConfigPath string

	// Runner executes discovery commands; defaults to a ShellRunner.
	Runner Runner

	Logger *zap.Logger

	// Stdout receives non-fatal warnings.
	Stdout io.Writer

	Now func() time.Time
}

// Builder accumulates configuration and materializes it with Generate.
// A Builder is not safe for concurrent use.
type Builder struct {
	env  map[Category]string
	defs map[string]string
	mode Mode

	sourceDir string
	workDir   string

	runner Runner
	logger *zap.Logger
	stdout io.Writer

	profiled bool
}

// New returns a Builder with cflags, ldflags and libs initialized and the
// "year" definition set.
func New(opts Options) *Builder {
	if opts.SourceDir == "" {
		opts.SourceDir = "."
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Runner == nil {
		if opts.PkgConfigPath == "" {
			opts.PkgConfigPath = env.DefaultPkgConfigPath()
		}
		opts.Runner = &ShellRunner{
			Env: env.Merge(os.Environ(), map[string]string{
				env.PkgConfigPathVar: opts.PkgConfigPath,
			}),
		}
	}

	return &Builder{
		env: map[Category]string{
			CFlags:  "",
			LDFlags: DefaultLDFlags,
			Libs:    "",
		},
		defs: map[string]string{
			"year": fmt.Sprintf("%04d", opts.Now().Year()),
		},
		mode:      opts.Mode,
		sourceDir: opts.SourceDir,
		workDir:   opts.WorkDir,
		runner:    opts.Runner,
		logger:    opts.Logger,
		stdout:    opts.Stdout,
	}
}

// Mode returns the build-mode switches the Builder was created with.
func (b *Builder) Mode() Mode { return b.mode }

// Config sets the definition key to value. Neither is escaped when written.
func (b *Builder) Config(key, value string) {
	b.defs[key] = value
}

// Defs returns a copy of the definitions.
func (b *Builder) Defs() map[string]string {
	return maps.Clone(b.defs)
}

// Append adds value to category, separated by a space. The category must
// already exist; unlike Require, Append does not create it.
func (b *Builder) Append(cat Category, value string) error {
	cur, ok := b.env[cat]
	if !ok {
		return fmt.Errorf("append %q: %w", value, &unknownCategory{cat})
	}
	b.env[cat] = cur + " " + value
	return nil
}

// Set creates category or replaces its value.
func (b *Builder) Set(cat Category, value string) {
	b.env[cat] = value
}

// Value returns the accumulated value of category.
func (b *Builder) Value(cat Category) (string, bool) {
	v, ok := b.env[cat]
	return v, ok
}

// appendLoose is Append with a missing category treated as empty.
func (b *Builder) appendLoose(cat Category, value string) {
	b.env[cat] += " " + value
}
