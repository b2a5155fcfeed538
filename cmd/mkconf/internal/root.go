package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goplus/mkconf/internal/env"
	"github.com/goplus/mkconf/internal/project"
	"github.com/goplus/mkconf/pkgs/configure"
)

var (
	buildMode configure.Mode

	srcDir    string
	output    string
	pkgConfig string
	preferCC  string
	requires  []string
	defines   []string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "mkconf",
	Short: "mkconf writes config.mk and config.h for a make-based C project",
	Long: `mkconf queries pkg-config for the compiler and linker flags of the required
libraries, writes them to config.mk, writes build-time definitions to config.h
and, when run outside the source directory, copies the Makefile template into
the current directory.

Requirements and definitions are read from configure.yaml in the source
directory and from the command line.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runConfigure,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&buildMode.Debug, "debug", false, "Enable debug build flags")
	flags.BoolVar(&buildMode.Profile, "profile", false, "Enable profiling build flags")
	flags.BoolVar(&buildMode.Optimize, "optimize", false, "Enable optimized build flags")
	flags.StringVar(&srcDir, "srcdir", "", "Source directory holding the Makefile template (default: directory of this program)")
	flags.StringVarP(&output, "output", "o", "", "Flags fragment to write (default: config.mk)")
	flags.StringVar(&pkgConfig, "pkg-config", configure.DefaultPkgConfig, "Package-config program used for --require")
	flags.StringVar(&preferCC, "prefer-cc", "", "Use this C compiler if it is installed")
	flags.StringArrayVar(&requires, "require", nil, "Require a library, optionally as lib>=version (repeatable)")
	flags.StringArrayVarP(&defines, "define", "D", nil, "Add a config.h definition key=value (repeatable)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every command that is run")
}

// Execute runs the root command and exits with status 1 on failure.
// This is called by main.main().
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	// Reject malformed flags before anything is probed.
	type requirement struct{ lib, minVersion string }
	reqs := make([]requirement, 0, len(requires))
	for _, arg := range requires {
		lib, minVersion, err := parseRequire(arg)
		if err != nil {
			return err
		}
		reqs = append(reqs, requirement{lib, minVersion})
	}
	defs := make(map[string]string, len(defines))
	for _, def := range defines {
		key, value, ok := strings.Cut(def, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid definition %q, want key=value", def)
		}
		defs[key] = value
	}

	dir := srcDir
	if dir == "" {
		if dir, err = programDir(); err != nil {
			return err
		}
	}
	proj, err := project.Load(dir)
	if err != nil {
		return err
	}

	b := configure.New(configure.Options{
		Mode:          buildMode,
		SourceDir:     dir,
		PkgConfigPath: env.DefaultPkgConfigPath(),
		Logger:        logger,
		Stdout:        cmd.OutOrStdout(),
	})
	logger.Debug("configure", zap.String("srcdir", dir), zap.Any("mode", buildMode))

	if err := proj.Apply(ctx, b); err != nil {
		return err
	}
	if preferCC != "" {
		b.PreferCC(ctx, preferCC)
	}
	for _, r := range reqs {
		if err := b.RequireVersion(ctx, r.lib, pkgConfig, r.minVersion); err != nil {
			return err
		}
	}
	for key, value := range defs {
		b.Config(key, value)
	}

	out := output
	if out == "" {
		out = proj.Output
	}
	return b.Generate(out)
}

// parseRequire splits "lib>=version" into its parts. A version needs a lib.
func parseRequire(arg string) (lib, minVersion string, err error) {
	lib = strings.TrimSpace(arg)
	if i := strings.Index(arg, ">="); i >= 0 {
		lib, minVersion = strings.TrimSpace(arg[:i]), strings.TrimSpace(arg[i+2:])
		if lib == "" {
			return "", "", fmt.Errorf("invalid requirement %q: a version needs a library name", arg)
		}
	}
	return lib, minVersion, nil
}

// programDir is where the Makefile template lives next to the invoked
// program. A bare name found through PATH falls back to the resolved
// executable.
func programDir() (string, error) {
	if strings.ContainsRune(os.Args[0], filepath.Separator) {
		return filepath.Abs(filepath.Dir(os.Args[0]))
	}
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config = zap.NewDevelopmentConfig()
		if isatty.IsTerminal(os.Stderr.Fd()) {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	return config.Build()
}
