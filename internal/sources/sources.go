// Package sources finds the C and C++ translation units of a project tree.
package sources

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is a discovered source file. Dir is slash-separated and relative to the
// project root, empty for files in the root itself.
type File struct {
	Name string
	Dir  string
}

// Path returns the file path relative to the project root
func (f File) Path() string {
	if f.Dir == "" {
		return f.Name
	}
	return f.Dir + "/" + f.Name
}

var (
	cExtensions   = []string{".c", ".C"}
	cxxExtensions = []string{".cc", ".cpp", ".cxx"}
)

// IsC reports whether name is a C source file. Extensions are case-sensitive.
func IsC(name string) bool {
	return slices.Contains(cExtensions, path.Ext(name))
}

// IsCXX reports whether name is a C++ source file
func IsCXX(name string) bool {
	return slices.Contains(cxxExtensions, path.Ext(name))
}

func IsSource(name string) bool {
	return IsC(name) || IsCXX(name)
}

// Discover walks root and returns every file accepted by predicate that no exclude
// pattern matches, sorted by directory and then by name
func Discover(root string, predicate func(name string) bool, excludes []string) ([]File, error) {
	for _, pat := range excludes {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("while discovering sources in %s: %w", root, err)
	}

	var files []File
	for _, match := range matches {
		dir, name := path.Split(match)
		if !predicate(name) || Excluded(match, excludes) {
			continue
		}
		files = append(files, File{Name: name, Dir: strings.TrimSuffix(dir, "/")})
	}
	Sort(files)
	return files, nil
}

// Excluded reports whether p, or any directory above it, matches one of patterns.
// Patterns may name a directory with a trailing slash.
func Excluded(p string, patterns []string) bool {
	for _, pat := range patterns {
		pat = strings.TrimSuffix(pat, "/")
		if pat == "" {
			continue
		}
		if ok, _ := doublestar.Match(pat, p); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat+"/**", p); ok {
			return true
		}
	}
	return false
}

// Sort orders files by directory, root first, and then by name
func Sort(files []File) {
	slices.SortFunc(files, func(a, b File) int {
		if c := strings.Compare(a.Dir, b.Dir); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Group is the files of one directory
type Group struct {
	Dir   string
	Files []File
}

// GroupByDir splits sorted files into per-directory groups, keeping their order
func GroupByDir(files []File) []Group {
	var groups []Group
	for _, f := range files {
		if n := len(groups); n > 0 && groups[n-1].Dir == f.Dir {
			groups[n-1].Files = append(groups[n-1].Files, f)
			continue
		}
		groups = append(groups, Group{Dir: f.Dir, Files: []File{f}})
	}
	return groups
}

// Languages reports which languages occur in files
func Languages(files []File) (hasC, hasCXX bool) {
	for _, f := range files {
		hasC = hasC || IsC(f.Name)
		hasCXX = hasCXX || IsCXX(f.Name)
	}
	return hasC, hasCXX
}
