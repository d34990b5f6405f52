package cmake

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qobs-build/cdt2cmake/internal/cdt"
	"github.com/qobs-build/cdt2cmake/internal/sources"
)

func files(paths ...string) []sources.File {
	var out []sources.File
	for _, p := range paths {
		dir, name := "", p
		if i := strings.LastIndex(p, "/"); i >= 0 {
			dir, name = p[:i], p[i+1:]
		}
		out = append(out, sources.File{Name: name, Dir: dir})
	}
	sources.Sort(out)
	return out
}

func demoConfig() *cdt.Configuration {
	return &cdt.Configuration{
		Name:     "Debug",
		Artifact: "demo",
		Type:     cdt.Executable,
		Folders: []cdt.BuildFolder{{
			CPP: cdt.ToolSettings{
				Compiler: cdt.CompilerSettings{Includes: []string{"../../inc"}},
				Linker:   cdt.LinkerSettings{Libs: []string{"m"}},
			},
		}},
	}
}

func TestGenerateDemo(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, Project{Name: "demo"}, []*cdt.Configuration{demoConfig()}, files("a.cpp", "b.cpp"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, `cmake_minimum_required (VERSION 2.8)
project (demo)

add_executable (demo a.cpp b.cpp)
set_target_properties (demo PROPERTIES INCLUDE_DIRECTORIES "${PROJECT_SOURCE_DIR}/inc/")
target_link_libraries (demo m)
`, buf.String())
}

func TestRenderPreamble(t *testing.T) {
	out := Render(Project{
		Name:       "demo",
		Comment:    "first line\nsecond line",
		References: []string{"libfoo", "libbar"},
		Revision:   "0123abcd",
	}, nil, nil, Options{MinimumVersion: "3.10"})

	assert.Equal(t, `cmake_minimum_required (VERSION 3.10)
project (demo)
# first line
#   second line
# references: libfoo, libbar
# source revision: 0123abcd
`, out)
	assert.NoError(t, Lint(out))
}

func TestRenderWrapsLargeGroups(t *testing.T) {
	cfg := &cdt.Configuration{Artifact: "core", Type: cdt.StaticLibrary}
	out := Render(Project{Name: "core"}, []*cdt.Configuration{cfg},
		files("d.c", "a.c", "c.c", "b.c", "sub/y.cpp", "sub/x.cpp"), DefaultOptions())

	assert.Contains(t, out, `add_library (core STATIC
    a.c
    b.c
    c.c
    d.c
    sub/x.cpp sub/y.cpp
)
`)
	assert.NoError(t, Lint(out))
}

func TestRenderSmallGroupsInSeveralDirs(t *testing.T) {
	cfg := &cdt.Configuration{Artifact: "plug", Type: cdt.SharedLibrary}
	out := Render(Project{Name: "plug"}, []*cdt.Configuration{cfg}, files("main.c", "util/u.c"), DefaultOptions())

	assert.Contains(t, out, "add_library (plug SHARED\n    main.c\n    util/u.c\n)\n")
}

func TestRenderWrapThreshold(t *testing.T) {
	cfg := &cdt.Configuration{Artifact: "demo"}
	out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, files("a.c", "b.c"), Options{WrapThreshold: 1})

	assert.Contains(t, out, "add_executable (demo\n    a.c\n    b.c\n)\n")
	assert.Contains(t, out, "cmake_minimum_required (VERSION 2.8)")
}

func TestRenderNoSources(t *testing.T) {
	cfg := &cdt.Configuration{Artifact: "empty"}
	out := Render(Project{Name: "empty"}, []*cdt.Configuration{cfg}, nil, DefaultOptions())
	assert.Contains(t, out, "add_executable (empty)\n")
}

func TestRenderLanguageGating(t *testing.T) {
	cfg := &cdt.Configuration{
		Artifact: "demo",
		Folders: []cdt.BuildFolder{{
			C: cdt.ToolSettings{
				Compiler: cdt.CompilerSettings{Includes: []string{"cinc"}, Options: "-std=c99 -Wall"},
				Linker:   cdt.LinkerSettings{Libs: []string{"clib"}, LibPaths: []string{"/c/lib"}, Flags: "-static"},
			},
			CPP: cdt.ToolSettings{
				Compiler: cdt.CompilerSettings{Includes: []string{"cppinc", "cinc"}, Options: "-Wall -std=c++11"},
				Linker:   cdt.LinkerSettings{Libs: []string{"stdc++", "m", "stdc++"}, LibPaths: []string{"../../libs", "/cpp/lib"}},
			},
		}},
	}

	t.Run("c only", func(t *testing.T) {
		out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, files("main.c"), DefaultOptions())
		assert.Contains(t, out, `set_target_properties (demo PROPERTIES INCLUDE_DIRECTORIES "cinc/")`)
		assert.Contains(t, out, `set_target_properties (demo PROPERTIES COMPILE_FLAGS "-std=c99 -Wall")`)
		assert.Contains(t, out, `set_target_properties (demo PROPERTIES LINK_FLAGS "-static")`)
		assert.Contains(t, out, "link_directories (/c/lib/)\n")
		assert.Contains(t, out, "target_link_libraries (demo clib)\n")
		assert.NotContains(t, out, "cppinc")
	})

	t.Run("c++ only", func(t *testing.T) {
		out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, files("main.cpp"), DefaultOptions())
		assert.Contains(t, out, `set_target_properties (demo PROPERTIES INCLUDE_DIRECTORIES "cppinc/;cinc/")`)
		assert.Contains(t, out, `set_target_properties (demo PROPERTIES COMPILE_FLAGS "-Wall -std=c++11")`)
		assert.NotContains(t, out, "LINK_FLAGS")
		assert.Contains(t, out, "link_directories (/cpp/lib/)\n")
		assert.Contains(t, out, "target_link_libraries (demo stdc++ m)\n")
	})

	t.Run("mixed uses the c++ linker", func(t *testing.T) {
		out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, files("main.cpp", "legacy.c"), DefaultOptions())
		assert.Contains(t, out, `INCLUDE_DIRECTORIES "cinc/;cppinc/"`)
		assert.Contains(t, out, `COMPILE_FLAGS "-std=c99 -Wall -std=c++11"`)
		assert.Contains(t, out, "target_link_libraries (demo stdc++ m)\n")
		assert.NotContains(t, out, "clib")
		assert.NoError(t, Lint(out))
	})

	t.Run("no sources", func(t *testing.T) {
		out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, nil, DefaultOptions())
		assert.NotContains(t, out, "INCLUDE_DIRECTORIES")
		assert.NotContains(t, out, "COMPILE_FLAGS")
		assert.Contains(t, out, "target_link_libraries (demo clib)\n")
	})
}

func TestRenderLibraryPathDrop(t *testing.T) {
	cfg := &cdt.Configuration{
		Artifact: "demo",
		Folders: []cdt.BuildFolder{{
			CPP: cdt.ToolSettings{
				Compiler: cdt.CompilerSettings{Includes: []string{"../../libs"}},
				Linker:   cdt.LinkerSettings{LibPaths: []string{"../../libs"}},
			},
		}},
	}
	out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, files("a.cpp"), DefaultOptions())
	assert.Contains(t, out, `INCLUDE_DIRECTORIES "${PROJECT_SOURCE_DIR}/libs/"`)
	assert.NotContains(t, out, "link_directories")
}

func TestRenderStepsSubdirsAndBuildFiles(t *testing.T) {
	debug := &cdt.Configuration{
		Artifact:  "demo",
		PreBuild:  "make gen\nmake more",
		PostBuild: "strip demo",
		Folders:   []cdt.BuildFolder{{Path: ""}, {Path: "sub"}, {Path: "lib/"}},
		Files:     []cdt.BuildFile{{File: "src/gen.c", Command: "python gen.py"}},
	}
	lib := &cdt.Configuration{
		Artifact: "demo",
		Type:     cdt.StaticLibrary,
		Folders:  []cdt.BuildFolder{{Path: "sub"}},
	}

	out := Render(Project{Name: "demo"}, []*cdt.Configuration{debug, lib}, files("main.c"), DefaultOptions())

	assert.Equal(t, `cmake_minimum_required (VERSION 2.8)
project (demo)

add_executable (demo main.c)
# prebuild: make gen
#   make more
# postbuild: strip demo
add_subdirectory (sub)
add_subdirectory (lib)
# custom build step for src/gen.c is not translated
#   command: python gen.py

add_library (demo STATIC main.c)
`, out)
	assert.NoError(t, Lint(out))
}

func TestRenderQuotesSpecialArguments(t *testing.T) {
	cfg := &cdt.Configuration{
		Artifact: "my app",
		Folders: []cdt.BuildFolder{{
			C: cdt.ToolSettings{
				Compiler: cdt.CompilerSettings{Options: `-DNAME="a b"`},
				Linker:   cdt.LinkerSettings{Libs: []string{"odd(lib)"}},
			},
		}},
	}
	out := Render(Project{Name: "demo"}, []*cdt.Configuration{cfg}, files("dir one/a.c"), DefaultOptions())

	assert.Contains(t, out, `add_executable ("my app" "dir one/a.c")`)
	assert.Contains(t, out, `set_target_properties ("my app" PROPERTIES COMPILE_FLAGS "\"-DNAME=a b\"")`)
	assert.Contains(t, out, `target_link_libraries ("my app" "odd(lib)")`)
	assert.NoError(t, Lint(out))
}

func TestArtifactSources(t *testing.T) {
	all := files("a.c", "old.c", "test/t.c", "src/x.c", "src/old.c")

	t.Run("no entries", func(t *testing.T) {
		assert.Equal(t, all, ArtifactSources(&cdt.Configuration{}, all))
	})

	t.Run("root entry with exclusions", func(t *testing.T) {
		cfg := &cdt.Configuration{SourceEntries: []cdt.SourceEntry{
			{Kind: "sourcePath", Name: "", Excluding: []string{"test/", "old.c"}},
		}}
		assert.Equal(t, files("a.c", "src/x.c", "src/old.c"), ArtifactSources(cfg, all))
	})

	t.Run("folder entry", func(t *testing.T) {
		cfg := &cdt.Configuration{SourceEntries: []cdt.SourceEntry{
			{Kind: "sourcePath", Name: "src", Excluding: []string{"old.c"}},
			{Kind: "outputPath", Name: ""},
		}}
		assert.Equal(t, files("src/x.c"), ArtifactSources(cfg, all))
	})

	t.Run("merged with an unrestricted configuration", func(t *testing.T) {
		debug := &cdt.Configuration{Artifact: "demo", SourceEntries: []cdt.SourceEntry{
			{Kind: "sourcePath", Name: "", Excluding: []string{"test"}},
		}}
		release := &cdt.Configuration{Artifact: "demo"}
		all := files("main.cpp", "test/t.cpp")

		for _, order := range [][]*cdt.Configuration{{debug, release}, {release, debug}} {
			m := cdt.NewMerger()
			for _, cfg := range order {
				m.Add(cfg)
			}
			assert.Equal(t, all, ArtifactSources(m.Configurations()[0], all))
		}
		assert.Equal(t, files("main.cpp"), ArtifactSources(debug, all))
	})
}

func TestGenerateWithoutArtifacts(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, Project{Name: "demo"}, nil, nil, Options{MinimumVersion: "2.8", WrapThreshold: 3})
	require.NoError(t, err)
	assert.Equal(t, "cmake_minimum_required (VERSION 2.8)\nproject (demo)\n", buf.String())
}
