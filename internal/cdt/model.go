package cdt

import (
	"fmt"
	"strings"
)

// ArtifactType is the kind of output a configuration builds
type ArtifactType int

const (
	Executable ArtifactType = iota
	StaticLibrary
	SharedLibrary
)

const (
	artefactTypeExe       = "org.eclipse.cdt.build.core.buildArtefactType.exe"
	artefactTypeStaticLib = "org.eclipse.cdt.build.core.buildArtefactType.staticLib"
	artefactTypeSharedLib = "org.eclipse.cdt.build.core.buildArtefactType.sharedLib"
)

func (t ArtifactType) String() string {
	switch t {
	case Executable:
		return "Executable"
	case StaticLibrary:
		return "StaticLibrary"
	case SharedLibrary:
		return "SharedLibrary"
	default:
		return fmt.Sprintf("ArtifactType(%d)", int(t))
	}
}

// ParseArtifactType maps a buildArtefactType identifier to an ArtifactType
func ParseArtifactType(id string) (ArtifactType, error) {
	switch id {
	case artefactTypeExe:
		return Executable, nil
	case artefactTypeStaticLib:
		return StaticLibrary, nil
	case artefactTypeSharedLib:
		return SharedLibrary, nil
	}
	return 0, fmt.Errorf("unknown artifact type: %s", id)
}

// artifactTypeFromParent guesses the artifact type from a configuration's parent id,
// e.g. cdt.managedbuild.config.gnu.so.debug
func artifactTypeFromParent(parent string) (ArtifactType, bool) {
	switch {
	case strings.Contains(parent, ".gnu.exe."):
		return Executable, true
	case strings.Contains(parent, ".gnu.lib."):
		return StaticLibrary, true
	case strings.Contains(parent, ".gnu.so."):
		return SharedLibrary, true
	}
	return 0, false
}

type CompilerSettings struct {
	Includes []string
	Options  string
}

type LinkerSettings struct {
	Flags    string
	Libs     []string
	LibPaths []string
}

// ToolSettings holds the compiler and linker settings of one language
type ToolSettings struct {
	Compiler CompilerSettings
	Linker   LinkerSettings
}

// BuildFolder carries the tool settings of one folderInfo. An empty Path is the project root.
type BuildFolder struct {
	Path string
	C    ToolSettings
	CPP  ToolSettings
}

func (f *BuildFolder) IsRoot() bool { return f.Path == "" }

// BuildFile is a file with a custom build step
type BuildFile struct {
	File    string
	Command string
	Inputs  string
	Outputs string
}

// SourceEntry is one sourceEntries/entry element
type SourceEntry struct {
	Kind      string
	Name      string
	Excluding []string
}

const sourcePathKind = "sourcePath"

func (e SourceEntry) IsSourcePath() bool { return e.Kind == sourcePathKind }

// Configuration is one CDT build configuration, or several merged ones targeting the same artifact
type Configuration struct {
	Name      string
	Artifact  string
	Type      ArtifactType
	PreBuild  string
	PostBuild string

	Folders       []BuildFolder
	Files         []BuildFile
	SourceEntries []SourceEntry
	// AllSources is set when a merged-in configuration has no sourcePath entry
	AllSources bool
}

// Key is the merge key: configurations with the same key build the same artifact
func (c *Configuration) Key() string {
	return c.Artifact + c.Type.String()
}

// RootFolder returns the folder with an empty path, or nil
func (c *Configuration) RootFolder() *BuildFolder {
	for i := range c.Folders {
		if c.Folders[i].IsRoot() {
			return &c.Folders[i]
		}
	}
	return nil
}

func (c *Configuration) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name: %q\nartifact: %q\ntype: %s\n", c.Name, c.Artifact, c.Type)
	fmt.Fprintf(&sb, "prebuild: %q\npostbuild: %q\n", c.PreBuild, c.PostBuild)
	for _, f := range c.Folders {
		fmt.Fprintf(&sb, "folder %q\n", f.Path)
		fmt.Fprintf(&sb, "  c:   includes=%v options=%q flags=%q libs=%v lib_paths=%v\n",
			f.C.Compiler.Includes, f.C.Compiler.Options, f.C.Linker.Flags, f.C.Linker.Libs, f.C.Linker.LibPaths)
		fmt.Fprintf(&sb, "  cpp: includes=%v options=%q flags=%q libs=%v lib_paths=%v\n",
			f.CPP.Compiler.Includes, f.CPP.Compiler.Options, f.CPP.Linker.Flags, f.CPP.Linker.Libs, f.CPP.Linker.LibPaths)
	}
	for _, f := range c.Files {
		fmt.Fprintf(&sb, "file %q command=%q inputs=%q outputs=%q\n", f.File, f.Command, f.Inputs, f.Outputs)
	}
	return sb.String()
}
