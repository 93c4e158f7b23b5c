// Package resolver resolves relative file references between test
// documents and locates test files on disk.
package resolver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/doc"
)

// TestFileSuffix is the document file naming convention.
const TestFileSuffix = ".test.json"

// Source abstracts where document bytes come from, so bundled assets or
// in-memory documents resolve the same way as files on disk.
type Source interface {
	ReadFile(name string) ([]byte, error)
	Exists(name string) bool
}

type osSource struct{}

func (osSource) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //#nosec G304 -- name is a resolved test file path
}

func (osSource) Exists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

// OSSource returns a Source backed by the local filesystem.
func OSSource() Source { return osSource{} }

// Context carries the resolution state for one document: the base
// directory its references are relative to, and the source its bytes
// come from. It is an explicit value threaded into resolution calls, so
// loading unrelated documents never leaks state between them. A zero
// Context has no base directory and fails resolution with
// base_path_unset.
type Context struct {
	BaseDir string
	Source  Source
}

// NewContext returns a Context rooted at baseDir, reading from disk.
func NewContext(baseDir string) Context {
	return Context{BaseDir: baseDir, Source: osSource{}}
}

// ForFile returns a Context rooted at the file's containing directory.
func ForFile(path string) Context {
	return NewContext(filepath.Dir(path))
}

func (c Context) source() Source {
	if c.Source != nil {
		return c.Source
	}
	return osSource{}
}

// Candidate suffixes tried in order: the naming convention first, then a
// plain .json file, then the reference taken literally.
var refSuffixes = []string{TestFileSuffix, ".json", ""}

// ResolveFile resolves a relative document reference to a path, trying
// each suffix candidate against the base directory and returning the
// first that exists.
func (c Context) ResolveFile(ref string) (string, error) {
	if c.BaseDir == "" {
		return "", core.ErrBasePathUnset.WithMessagef("cannot resolve %q: no base directory known", ref)
	}

	src := c.source()
	for _, suffix := range refSuffixes {
		candidate := filepath.Join(c.BaseDir, ref+suffix)
		if src.Exists(candidate) {
			return candidate, nil
		}
	}

	return "", core.ErrReferenceNotFound.WithMessagef("no document found for reference %q under %s", ref, c.BaseDir)
}

// Load resolves and parses a referenced document.
func (c Context) Load(ref string) (*doc.LoadedTest, error) {
	path, err := c.ResolveFile(ref)
	if err != nil {
		return nil, err
	}
	data, err := c.source().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return doc.Parse(data, path)
}

// ResolveCases loads the referenced screen test and returns the selected
// cases: exactly caseName if given, each of caseNames in order if given,
// otherwise all cases in their declared order.
func (c Context) ResolveCases(ref, caseName string, caseNames []string) ([]doc.TestCase, error) {
	loaded, err := c.Load(ref)
	if err != nil {
		return nil, err
	}
	if loaded.Kind != doc.KindScreen {
		return nil, core.ErrWrongDocumentKind.WithMessagef("reference %q resolved to a %s test, expected a screen test", ref, loaded.Kind)
	}
	screen := loaded.Screen

	if caseName != "" {
		tc, ok := screen.Case(caseName)
		if !ok {
			return nil, core.ErrCaseNotFound.WithMessagef("case %q not found in %s", caseName, loaded.Path)
		}
		return []doc.TestCase{*tc}, nil
	}

	if len(caseNames) > 0 {
		cases := make([]doc.TestCase, 0, len(caseNames))
		for _, name := range caseNames {
			tc, ok := screen.Case(name)
			if !ok {
				return nil, core.ErrCaseNotFound.WithMessagef("case %q not found in %s", name, loaded.Path)
			}
			cases = append(cases, *tc)
		}
		return cases, nil
	}

	return screen.Cases, nil
}

// Discover lists every *.test.json file under dir, recursively, in
// lexical order.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), TestFileSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return files, nil
}
