package api

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	sourceExt = ".vm"
	outputExt = ".asm"
)

// ErrNotVMFile is returned for inputs that are neither a .vm file nor a
// directory holding .vm files.
var ErrNotVMFile = errors.New("not a .vm source")

// SourceFiles lists the files to translate for path: the file itself, or the
// .vm files directly inside a directory sorted by name.
func SourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat input")
	}

	if !info.IsDir() {
		if filepath.Ext(path) != sourceExt {
			return nil, errors.Wrapf(ErrNotVMFile, "%s", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "read input directory")
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != sourceExt {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}

	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNotVMFile, "no %s files in %s", sourceExt, path)
	}

	sort.Strings(files)

	return files, nil
}

// OutputPath returns where the assembly for path goes: Foo.vm becomes
// Foo.asm next to it, and a directory Prog becomes Prog/Prog.asm.
func OutputPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(err, "stat input")
	}

	if info.IsDir() {
		dir := filepath.Clean(path)
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", errors.Wrap(err, "resolve input directory")
		}
		return filepath.Join(dir, filepath.Base(abs)+outputExt), nil
	}

	if filepath.Ext(path) != sourceExt {
		return "", errors.Wrapf(ErrNotVMFile, "%s", path)
	}

	return strings.TrimSuffix(path, sourceExt) + outputExt, nil
}
