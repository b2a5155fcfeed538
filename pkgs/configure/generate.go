package configure

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

const headerGuard = "CONFIG_H"

// Generate writes the flags fragment (DefaultFlagsFile when filename is
// empty) and HeaderFile into the work directory. When the work directory is
// not the source directory it also copies TemplateFile from the source
// directory. Existing files are replaced, never appended to.
//
// Every output is staged before any is replaced, so an error leaves the work
// directory as it was.
func (b *Builder) Generate(filename string) error {
	if filename == "" {
		filename = DefaultFlagsFile
	}

	outOfTree, err := b.outOfTree()
	if err != nil {
		return err
	}
	var template []byte
	if outOfTree {
		src := filepath.Join(b.sourceDir, TemplateFile)
		if template, err = os.ReadFile(src); err != nil {
			return fmt.Errorf("copy %s: %w", TemplateFile, err)
		}
	}

	if b.mode.Profile && !b.profiled {
		b.appendLoose(CFlags, ProfileFlag)
		b.profiled = true
	}

	outputs := []output{
		{b.path(filename), b.flagsFragment()},
		{b.path(HeaderFile), b.header()},
	}
	if outOfTree {
		outputs = append(outputs, output{b.path(TemplateFile), template})
	}
	if err := commit(outputs); err != nil {
		return err
	}
	b.logger.Debug("generated", zap.String("dir", b.workDir), zap.Bool("outOfTree", outOfTree))
	return nil
}

func (b *Builder) flagsFragment() []byte {
	var buf bytes.Buffer
	for _, cat := range orderedCategories(b.env) {
		fmt.Fprintf(&buf, "%s := %s\n", cat.Variable(), strings.TrimSpace(b.env[cat]))
	}
	return buf.Bytes()
}

func (b *Builder) header() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#ifndef %s\n#define %s\n\n", headerGuard, headerGuard)
	keys := make([]string, 0, len(b.defs))
	for k := range b.defs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, "#define %s \"%s\"\n", macroName(k), b.defs[k])
	}
	fmt.Fprintf(&buf, "\n#endif\n")
	return buf.Bytes()
}

// macroName turns a definition key into a preprocessor identifier.
func macroName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// outOfTree compares directories by identity, not by path.
func (b *Builder) outOfTree() (bool, error) {
	work, err := os.Stat(b.workDir)
	if err != nil {
		return false, err
	}
	src, err := os.Stat(b.sourceDir)
	if err != nil {
		return false, err
	}
	return !os.SameFile(work, src), nil
}

func (b *Builder) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(b.workDir, name)
}

type output struct {
	path string
	data []byte
}

// commit stages every output as a pending file and only then renames them
// into place.
func commit(outputs []output) error {
	pending := make([]*renameio.PendingFile, 0, len(outputs))
	defer func() {
		for _, pf := range pending {
			pf.Cleanup()
		}
	}()

	for _, o := range outputs {
		pf, err := renameio.NewPendingFile(o.path, renameio.WithPermissions(0o644))
		if err != nil {
			return err
		}
		pending = append(pending, pf)
		if _, err := pf.Write(o.data); err != nil {
			return fmt.Errorf("write %s: %w", o.path, err)
		}
	}
	for _, pf := range pending {
		if err := pf.CloseAtomicallyReplace(); err != nil {
			return err
		}
	}
	return nil
}
