package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const outputExt = ".asm"

// Batch is a set of vm files translated into one output file.
type Batch struct {
	Sources []string
	Output  string
}

// ResolveBatch resolves the input path given to the translator. A directory
// translates every .vm file directly inside it, sorted by name, into
// dir/dirname.asm. A .vm file translates into the .asm file next to it.
func ResolveBatch(path string) (*Batch, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if filepath.Ext(path) != sourceExt {
			return nil, fmt.Errorf("%w: %s", ErrNotVMFile, path)
		}
		return &Batch{
			Sources: []string{path},
			Output:  strings.TrimSuffix(path, sourceExt) + outputExt,
		}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var sources []string
	for _, entry := range entries {
		// Ignore sub directories.
		if entry.IsDir() || filepath.Ext(entry.Name()) != sourceExt {
			continue
		}
		sources = append(sources, filepath.Join(path, entry.Name()))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, path)
	}
	sort.Strings(sources)
	dir := filepath.Clean(path)
	name := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		name = filepath.Base(abs)
	}
	return &Batch{Sources: sources, Output: filepath.Join(dir, name+outputExt)}, nil
}

// OpenFunc opens an input unit for reading.
type OpenFunc func(path string) (io.ReadCloser, error)

func OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// TranslateBatch translates the sources of the batch in order and ends the
// program. It stops at the first unit which fails.
func TranslateBatch(b *Batch, t *Translator, open OpenFunc) ([]UnitStats, error) {
	var all []UnitStats
	for _, source := range b.Sources {
		stats, err := translateSource(t, source, open)
		all = append(all, stats)
		if err != nil {
			return all, err
		}
	}
	return all, t.Close()
}

func translateSource(t *Translator, source string, open OpenFunc) (UnitStats, error) {
	rd, err := open(source)
	if err != nil {
		return UnitStats{Name: source}, err
	}
	defer rd.Close()
	return t.TranslateUnit(source, rd)
}
