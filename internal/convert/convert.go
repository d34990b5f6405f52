// Package convert drives the conversion of one CDT project into a CMakeLists.txt.
package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2/maybe"

	"github.com/qobs-build/cdt2cmake/internal/cdt"
	"github.com/qobs-build/cdt2cmake/internal/cmake"
	"github.com/qobs-build/cdt2cmake/internal/msg"
	"github.com/qobs-build/cdt2cmake/internal/sources"
)

const ListsFilename = "CMakeLists.txt"

// Mode selects what happens to the generated text
type Mode int

const (
	// ModePrint writes the text to Options.Stdout
	ModePrint Mode = iota
	// ModeGenerate replaces <root>/CMakeLists.txt
	ModeGenerate
	// ModeDiff prints the difference to the existing <root>/CMakeLists.txt
	ModeDiff
)

type Options struct {
	Mode Mode
	// ConfigPath overrides the per-project config lookup
	ConfigPath string
	Stdout     io.Writer
}

// Result is the converted text of one project
type Result struct {
	// Path is where the text belongs, <root>/CMakeLists.txt
	Path    string
	Content string
}

var errNoConfigurations = errors.New("no cconfiguration with an id found")

// Convert reads the project at root and builds its CMakeLists.txt in memory
func Convert(root string, cfg *Config) (*Result, error) {
	project, err := cdt.Open(root)
	if err != nil {
		return nil, err
	}
	name, err := project.Name()
	if err != nil {
		return nil, err
	}
	if !project.IsCDT() {
		msg.Warn("%s: project %q does not have the %s nature", root, name, cdt.CNature)
	}

	if len(project.CConfigurations()) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Join(root, cdt.CProjectFilename), errNoConfigurations)
	}

	merger := cdt.NewMerger()
	err = eachConfiguration(project, cfg, func(_ string, raw *cdt.Configuration, selected bool) {
		if selected {
			merger.Add(raw)
		}
	})
	if err != nil {
		return nil, err
	}
	if merger.Len() == 0 {
		msg.Warn("%s: no configuration matches %q", root, cfg.Select)
	}
	warnSharedTargets(root, merger.Configurations())

	files, err := sources.Discover(root, sources.IsSource, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	info := cmake.Project{
		Name:       name,
		Comment:    project.Comment(),
		References: project.ReferencedProjects(),
	}
	if cfg.RecordRevision {
		if rev, err := headRevision(root); err != nil {
			msg.Warn("%s: %v", root, err)
		} else {
			info.Revision = rev
		}
	}

	var sb strings.Builder
	if err := cmake.Generate(&sb, info, merger.Configurations(), files, cfg.CMakeOptions()); err != nil {
		return nil, err
	}

	return &Result{
		Path:    filepath.Join(root, ListsFilename),
		Content: sb.String(),
	}, nil
}

// warnSharedTargets warns about artifacts of different types with the same name,
// which CMake refuses as duplicate targets
func warnSharedTargets(root string, configs []*cdt.Configuration) {
	seen := make(map[string]bool)
	for _, c := range configs {
		if seen[c.Artifact] {
			msg.Warn("%s: target name %q is used by more than one artifact", root, c.Artifact)
			continue
		}
		seen[c.Artifact] = true
	}
}

// Write atomically replaces the file at r.Path
func (r *Result) Write() error {
	if err := maybe.WriteFile(r.Path, []byte(r.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Path, err)
	}
	return nil
}

// Process converts the project at root and handles the result according to opts.Mode
func Process(root string, opts Options) error {
	cfg, err := LoadConfig(root, opts.ConfigPath)
	if err != nil {
		return err
	}

	res, err := Convert(root, cfg)
	if err != nil {
		return err
	}

	switch opts.Mode {
	case ModeGenerate:
		if err := res.Write(); err != nil {
			return err
		}
		msg.Info("wrote %s", res.Path)
	case ModeDiff:
		existing, err := os.ReadFile(res.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		changed, err := WriteDiff(opts.Stdout, res.Path, string(existing), res.Content)
		if err != nil {
			return err
		}
		if !changed {
			msg.Info("%s is up to date", res.Path)
		}
	default:
		msg.Info("%s", res.Path)
		if _, err := io.WriteString(opts.Stdout, res.Content); err != nil {
			return err
		}
	}
	return nil
}
