package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/pkg/solution"
	"go.uber.org/zap"
)

var legacyDirectories = []string{constants.LegacyTestDirectoryName, constants.LegacyTestsDirectoryName}

type Discoverer interface {
	// Discover lists the cases of a single directory, sorted by name.
	Discover(dir string) ([]solution.TestCase, error)
	// DiscoverGroups discovers dir and each of its subdirectories. Cases from a
	// subdirectory are prefixed with its name.
	DiscoverGroups(dir string) ([]solution.TestCase, error)
	// DiscoverPaths builds cases from explicitly given input files.
	DiscoverPaths(paths []string) ([]solution.TestCase, error)
	// FindTestCases uses the explicit paths when given, otherwise dir with a
	// fallback to the legacy test directories. Finding nothing is an error.
	FindTestCases(dir string, paths []string) ([]solution.TestCase, error)
}

type discoverer struct {
	pattern      *NamePattern
	ignoreBackup bool
	logger       *zap.SugaredLogger
}

func NewDiscoverer(pattern string, ignoreBackup bool) (Discoverer, error) {
	if pattern == "" {
		pattern = constants.DefaultNamePattern
	}
	p, err := ParseNamePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &discoverer{
		pattern:      p,
		ignoreBackup: ignoreBackup,
		logger:       logger.NewNamedLogger("discovery"),
	}, nil
}

func (d *discoverer) Discover(dir string) ([]solution.TestCase, error) {
	paths, err := filepath.Glob(d.pattern.Glob(dir))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrInvalidNamePattern, err)
	}
	sort.Strings(paths)

	files := make(map[string]map[string]string)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if d.ignoreBackup && IsBackupOrHidden(path) {
			d.logger.Warnf("Ignoring backup file: %s", path)
			continue
		}

		name, ext, ok := d.pattern.Match(dir, path)
		if !ok {
			d.logger.Warnf("Unrecognizable file found: %s does not match %s", path, d.pattern)
			continue
		}
		d.logger.Debugf("Matched file %s to case %s", path, name)
		if files[name] == nil {
			files[name] = make(map[string]string)
		}
		files[name][ext] = path
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	cases := make([]solution.TestCase, 0, len(files))
	for _, name := range names {
		byExt := files[name]
		input, ok := byExt[constants.InputExt]
		if !ok {
			dangling := byExt[constants.AnswerExt]
			if dangling == "" {
				dangling = byExt[constants.LegacyOutputExt]
			}
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrDanglingFixture, dangling)
		}

		tc := solution.TestCase{Name: name, InputPath: input}
		if answer, ok := byExt[constants.AnswerExt]; ok {
			tc.ExpectedOutputPath = answer
			if legacy, ok := byExt[constants.LegacyOutputExt]; ok {
				d.logger.Warnf("Both %s and %s exist, using %s", answer, legacy, answer)
			}
		} else if legacy, ok := byExt[constants.LegacyOutputExt]; ok {
			tc.ExpectedOutputPath = legacy
		}
		cases = append(cases, tc)
	}

	sortCases(cases)
	return cases, nil
}

func (d *discoverer) DiscoverGroups(dir string) ([]solution.TestCase, error) {
	cases, err := d.Discover(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read test directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || (d.ignoreBackup && IsBackupOrHidden(entry.Name())) {
			continue
		}
		group, err := d.Discover(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if len(group) > 0 {
			d.logger.Infof("Found %d cases in %s", len(group), filepath.Join(dir, entry.Name()))
		}
		for _, tc := range group {
			tc.Name = entry.Name() + constants.GroupNameSeparator + tc.Name
			cases = append(cases, tc)
		}
	}

	sortCases(cases)
	return cases, checkUnique(cases)
}

func (d *discoverer) DiscoverPaths(paths []string) ([]solution.TestCase, error) {
	cases := make([]solution.TestCase, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("test input %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("test input %s is a directory", path)
		}

		stem := strings.TrimSuffix(path, filepath.Ext(path))
		tc := solution.TestCase{Name: filepath.Base(stem), InputPath: path}
		for _, ext := range []string{constants.AnswerExt, constants.LegacyOutputExt} {
			candidate := stem + "." + ext
			if candidate == path {
				continue
			}
			if _, err := os.Stat(candidate); err == nil {
				tc.ExpectedOutputPath = candidate
				break
			}
		}
		cases = append(cases, tc)
	}
	return cases, checkUnique(cases)
}

func (d *discoverer) FindTestCases(dir string, paths []string) ([]solution.TestCase, error) {
	if len(paths) > 0 {
		cases, err := d.DiscoverPaths(paths)
		if err != nil {
			return nil, err
		}
		return nonEmpty(cases)
	}

	if _, err := os.Stat(dir); err == nil {
		cases, err := d.DiscoverGroups(dir)
		if err != nil {
			return nil, err
		}
		return nonEmpty(cases)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to access test directory %s: %w", dir, err)
	}

	d.logger.Warnf("Directory not found: %s", dir)
	for _, legacy := range legacyDirectories {
		legacyDir := filepath.Join(filepath.Dir(dir), legacy)
		if _, err := os.Stat(legacyDir); err != nil {
			continue
		}
		d.logger.Warnf("Trying old directory structure: %s", legacyDir)
		cases, err := d.DiscoverGroups(legacyDir)
		if err != nil {
			return nil, err
		}
		return nonEmpty(cases)
	}
	return nil, fmt.Errorf("%w: %s", pkgerrors.ErrNoTestCases, dir)
}

// IsBackupOrHidden reports editor backups (name~, #name#) and dotfiles.
func IsBackupOrHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		(len(base) > 1 && strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) ||
		strings.HasPrefix(base, ".")
}

func nonEmpty(cases []solution.TestCase) ([]solution.TestCase, error) {
	if len(cases) == 0 {
		return nil, pkgerrors.ErrNoTestCases
	}
	return cases, nil
}

func sortCases(cases []solution.TestCase) {
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
}

func checkUnique(cases []solution.TestCase) error {
	seen := make(map[string]string, len(cases))
	for _, tc := range cases {
		if other, ok := seen[tc.Name]; ok {
			return fmt.Errorf("%w: %s (%s and %s)", pkgerrors.ErrDuplicateCase, tc.Name, other, tc.InputPath)
		}
		seen[tc.Name] = tc.InputPath
	}
	return nil
}
