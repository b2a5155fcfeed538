package configure

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// lookupCmd resolves a program name through the shell.
const lookupCmd = "command -v"

// PreferCC selects candidate as the C compiler if the shell can resolve it.
// Otherwise it prints a warning and leaves cc unset so the Makefile default
// applies.
func (b *Builder) PreferCC(ctx context.Context, candidate string) bool {
	if b.lookup(ctx, candidate) == "" {
		fmt.Fprintf(b.stdout, "warning: preferred compiler %q not found, using default\n", candidate)
		return false
	}
	b.env[CC] = candidate
	return true
}

// Require queries program (pkg-config when empty) for the flags of lib and
// appends them to cflags, libs and ldflags. An empty lib skips the existence
// check and queries the program without a library argument.
//
// A missing program yields *ToolNotFoundError and a missing library
// *LibraryNotFoundError; nothing is appended in either case.
func (b *Builder) Require(ctx context.Context, lib, program string) error {
	return b.require(ctx, lib, program, "")
}

// RequireVersion is Require with an additional "--modversion" check: the
// reported version must be at least minVersion. It yields *VersionError otherwise.
func (b *Builder) RequireVersion(ctx context.Context, lib, program, minVersion string) error {
	return b.require(ctx, lib, program, minVersion)
}

func (b *Builder) require(ctx context.Context, lib, program, minVersion string) error {
	if program == "" {
		program = DefaultPkgConfig
	}
	if b.lookup(ctx, program) == "" {
		return &ToolNotFoundError{Program: program}
	}

	var arg string
	if lib != "" {
		arg = " " + shellQuote(lib)
		if code := b.status(ctx, program+" --exists"+arg); code != 0 {
			return &LibraryNotFoundError{Library: lib, Program: program, ExitCode: code}
		}
	}

	if minVersion != "" {
		have := strings.TrimSpace(b.output(ctx, program+" --modversion"+arg))
		ok, err := AtLeast(have, minVersion)
		if err != nil {
			return fmt.Errorf("require %s: %w", lib, err)
		}
		if !ok {
			return &VersionError{Library: lib, Have: have, Want: minVersion}
		}
	}

	for _, info := range infoCategories {
		out := b.output(ctx, program+" --"+string(info)+arg)
		b.appendLoose(info, strings.TrimRightFunc(out, unicode.IsSpace))
	}
	b.logger.Info("required", zap.String("lib", lib), zap.String("program", program))
	return nil
}

func (b *Builder) lookup(ctx context.Context, program string) string {
	return strings.TrimSpace(b.output(ctx, lookupCmd+" "+program))
}

func (b *Builder) output(ctx context.Context, cmdline string) string {
	out := b.runner.Output(ctx, cmdline)
	b.logger.Debug("run", zap.String("cmd", cmdline), zap.Int("bytes", len(out)))
	return out
}

func (b *Builder) status(ctx context.Context, cmdline string) int {
	code := b.runner.Status(ctx, cmdline)
	b.logger.Debug("run", zap.String("cmd", cmdline), zap.Int("status", code))
	return code
}

// shellQuote wraps s in single quotes for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
