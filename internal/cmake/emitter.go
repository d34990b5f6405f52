// Package cmake renders merged CDT configurations as a CMakeLists.txt.
package cmake

import (
	"fmt"
	"io"
	"strings"

	"github.com/qobs-build/cdt2cmake/internal/cdt"
	"github.com/qobs-build/cdt2cmake/internal/sources"
)

const (
	DefaultMinimumVersion = "2.8"
	DefaultWrapThreshold  = 3

	indent = "    "
)

// Project is the project-level information printed before the targets
type Project struct {
	Name       string
	Comment    string
	References []string
	// Revision is the VCS revision the project was converted at, if known
	Revision string
}

type Options struct {
	// MinimumVersion goes into cmake_minimum_required
	MinimumVersion string
	// WrapThreshold is the number of files a directory may have before its
	// sources are listed one per line
	WrapThreshold int
}

func DefaultOptions() Options {
	return Options{
		MinimumVersion: DefaultMinimumVersion,
		WrapThreshold:  DefaultWrapThreshold,
	}
}

// Generate renders the CMakeLists.txt for project, checks that it is well formed and
// writes it to w in a single call
func Generate(w io.Writer, project Project, configs []*cdt.Configuration, files []sources.File, opts Options) error {
	content := Render(project, configs, files, opts)
	if err := Lint(content); err != nil {
		return fmt.Errorf("generated CMakeLists.txt is malformed: %w", err)
	}
	_, err := io.WriteString(w, content)
	return err
}

type emitter struct {
	sb      strings.Builder
	opts    Options
	subdirs map[string]struct{}
}

// Render returns the CMakeLists.txt text without checking it
func Render(project Project, configs []*cdt.Configuration, files []sources.File, opts Options) string {
	if opts.MinimumVersion == "" {
		opts.MinimumVersion = DefaultMinimumVersion
	}
	e := &emitter{opts: opts, subdirs: make(map[string]struct{})}

	e.writePreamble(project)
	for _, cfg := range configs {
		writeln(&e.sb)
		e.writeArtifact(cfg, ArtifactSources(cfg, files))
	}
	return e.sb.String()
}

func (e *emitter) writePreamble(project Project) {
	sb := &e.sb
	writeln(sb, "cmake_minimum_required (VERSION ", arg(e.opts.MinimumVersion), ")")
	writeln(sb, "project (", arg(project.Name), ")")
	if project.Comment != "" {
		writeComment(sb, "# ", project.Comment)
	}
	if len(project.References) > 0 {
		writeComment(sb, "# references: ", strings.Join(project.References, ", "))
	}
	if project.Revision != "" {
		writeComment(sb, "# source revision: ", project.Revision)
	}
}

func (e *emitter) writeArtifact(cfg *cdt.Configuration, files []sources.File) {
	sb := &e.sb
	name := arg(cfg.Artifact)

	e.writeTarget(cfg, files)

	if cfg.PreBuild != "" {
		writeComment(sb, "# prebuild: ", cfg.PreBuild)
	}
	if cfg.PostBuild != "" {
		writeComment(sb, "# postbuild: ", cfg.PostBuild)
	}

	if root := cfg.RootFolder(); root != nil {
		hasC, hasCXX := sources.Languages(files)

		var includes []string
		var options []string
		linker := root.C.Linker
		if hasC {
			includes = append(includes, root.C.Compiler.Includes...)
			options = append(options, root.C.Compiler.Options)
		}
		if hasCXX {
			includes = append(includes, root.CPP.Compiler.Includes...)
			options = append(options, root.CPP.Compiler.Options)
			linker = root.CPP.Linker
		}

		if dirs := NormalizeIncludes(includes); len(dirs) > 0 {
			writeln(sb, "set_target_properties (", name, " PROPERTIES INCLUDE_DIRECTORIES ", quote(strings.Join(dirs, ";")), ")")
		}
		if flags := SplitFlags(options...); len(flags) > 0 {
			writeln(sb, "set_target_properties (", name, " PROPERTIES COMPILE_FLAGS ", quote(joinFlags(flags)), ")")
		}
		if flags := SplitFlags(linker.Flags); len(flags) > 0 {
			writeln(sb, "set_target_properties (", name, " PROPERTIES LINK_FLAGS ", quote(joinFlags(flags)), ")")
		}
		if dirs := NormalizeLibPaths(linker.LibPaths); len(dirs) > 0 {
			writeln(sb, "link_directories (", strings.Join(args(dirs), " "), ")")
		}
		if libs := DedupLibs(linker.Libs); len(libs) > 0 {
			writeln(sb, "target_link_libraries (", name, " ", strings.Join(args(libs), " "), ")")
		}
	}

	for _, folder := range cfg.Folders {
		dir := strings.Trim(folder.Path, "/")
		if dir == "" {
			continue
		}
		if _, ok := e.subdirs[dir]; ok {
			continue
		}
		e.subdirs[dir] = struct{}{}
		writeln(sb, "add_subdirectory (", arg(dir), ")")
	}

	for _, file := range cfg.Files {
		writeComment(sb, "# custom build step for ", file.File+" is not translated")
		if file.Command != "" {
			writeComment(sb, "#   command: ", file.Command)
		}
	}
}

// writeTarget writes the add_executable/add_library command with its sources
func (e *emitter) writeTarget(cfg *cdt.Configuration, files []sources.File) {
	sb := &e.sb

	var head string
	switch cfg.Type {
	case cdt.StaticLibrary:
		head = "add_library (" + arg(cfg.Artifact) + " STATIC"
	case cdt.SharedLibrary:
		head = "add_library (" + arg(cfg.Artifact) + " SHARED"
	default:
		head = "add_executable (" + arg(cfg.Artifact)
	}

	groups := sources.GroupByDir(files)
	switch {
	case len(groups) == 0:
		writeln(sb, head, ")")
		return
	case len(groups) == 1 && len(groups[0].Files) <= e.opts.WrapThreshold:
		writeln(sb, head, " ", strings.Join(groupPaths(groups[0]), " "), ")")
		return
	}

	writeln(sb, head)
	for _, group := range groups {
		paths := groupPaths(group)
		if len(paths) > e.opts.WrapThreshold {
			for _, p := range paths {
				writeln(sb, indent, p)
			}
		} else {
			writeln(sb, indent, strings.Join(paths, " "))
		}
	}
	writeln(sb, ")")
}

func groupPaths(group sources.Group) []string {
	paths := make([]string, len(group.Files))
	for i, f := range group.Files {
		paths[i] = arg(f.Path())
	}
	return paths
}

// writeComment writes text as comment lines, the first one starting with prefix
func writeComment(sb *strings.Builder, prefix, text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if i == 0 {
			writeln(sb, strings.TrimRight(prefix+line, " "))
		} else {
			writeln(sb, strings.TrimRight("#   "+line, " "))
		}
	}
}

// ArtifactSources narrows files to the ones the configuration's source entries
// build. Without sourcePath entries every file is kept.
func ArtifactSources(cfg *cdt.Configuration, files []sources.File) []sources.File {
	if cfg.AllSources {
		return files
	}
	var entries []cdt.SourceEntry
	for _, entry := range cfg.SourceEntries {
		if entry.IsSourcePath() {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return files
	}

	var kept []sources.File
	for _, f := range files {
		for _, entry := range entries {
			rel, ok := relativeTo(f.Path(), entry.Name)
			if ok && !sources.Excluded(rel, entry.Excluding) {
				kept = append(kept, f)
				break
			}
		}
	}
	return kept
}

func relativeTo(p, dir string) (string, bool) {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return p, true
	}
	if rest, ok := strings.CutPrefix(p, dir+"/"); ok {
		return rest, true
	}
	return "", false
}
