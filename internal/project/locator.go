package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ManifestFile is the file that marks a directory as a dbt project root.
const ManifestFile = "dbt_project.yml"

// nestedPattern matches the dbt/<name>/dbt_project.yml layout anywhere below a directory.
const nestedPattern = "**/dbt/*/" + ManifestFile

// ErrNotFound is returned when no dbt project can be located.
var ErrNotFound = errors.New("no dbt projects available")

// Directory is the absolute path of a dbt project root.
type Directory string

// String returns the directory path.
func (d Directory) String() string {
	return string(d)
}

// Join joins path elements onto the project directory.
func (d Directory) Join(elem ...string) string {
	return filepath.Join(append([]string{string(d)}, elem...)...)
}

// ManifestPath returns the path of the project's dbt_project.yml.
func (d Directory) ManifestPath() string {
	return d.Join(ManifestFile)
}

// Locator finds the dbt project that a command should operate on.
type Locator struct {
	chooser Chooser
	logger  *slog.Logger
	ceiling string
}

// Option configures a Locator.
type Option func(*Locator)

// WithChooser sets the chooser used when several nested projects match.
func WithChooser(c Chooser) Option {
	return func(l *Locator) {
		l.chooser = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// WithCeiling stops both upward walks after dir has been examined.
// An empty dir walks up to the filesystem root.
func WithCeiling(dir string) Option {
	return func(l *Locator) {
		if dir == "" {
			l.ceiling = ""
			return
		}
		if abs, err := filepath.Abs(dir); err == nil {
			l.ceiling = abs
			return
		}
		l.ceiling = filepath.Clean(dir)
	}
}

// NewLocator creates a Locator. Without a chooser the first candidate is selected.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		chooser: ChooseFirst,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsProject reports whether dir directly contains a dbt_project.yml file.
func IsProject(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestFile))
	return err == nil && !info.IsDir()
}

// Find returns the dbt project for startDir.
//
// The closest ancestor holding a dbt_project.yml wins. Otherwise the first
// ancestor whose subtree contains dbt/<name>/dbt_project.yml files is used.
// ErrNotFound is returned when neither search succeeds.
func (l *Locator) Find(startDir string) (Directory, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}

	levels := l.ancestors(start)

	for _, dir := range levels {
		if IsProject(dir) {
			l.logger.Debug("found enclosing dbt project", "dir", dir)
			return Directory(dir), nil
		}
	}

	for _, dir := range levels {
		candidates, err := nestedProjects(dir)
		if err != nil {
			return "", err
		}
		if len(candidates) == 0 {
			continue
		}

		l.logger.Debug("found nested dbt projects", "dir", dir, "count", len(candidates))
		if len(candidates) == 1 {
			return Directory(candidates[0]), nil
		}

		idx, err := l.chooser.Choose(candidates)
		if err != nil {
			return "", fmt.Errorf("select dbt project: %w", err)
		}
		if idx < 0 || idx >= len(candidates) {
			return "", fmt.Errorf("select dbt project: %w", ErrInvalidChoice)
		}
		return Directory(candidates[idx]), nil
	}

	return "", ErrNotFound
}

// ancestors lists start and its parents, stopping before the filesystem root
// or after the ceiling directory.
func (l *Locator) ancestors(start string) []string {
	var dirs []string
	dir := start
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dirs = append(dirs, dir)
		if l.ceiling != "" && dir == l.ceiling {
			break
		}
		dir = parent
	}
	return dirs
}

// nestedProjects returns the sorted project directories matching the nested
// layout below dir.
func nestedProjects(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), nestedPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("search %s for dbt projects: %w", dir, err)
	}

	projects := make([]string, 0, len(matches))
	for _, m := range matches {
		projects = append(projects, filepath.Dir(filepath.Join(dir, filepath.FromSlash(m))))
	}
	sort.Strings(projects)
	return projects, nil
}
