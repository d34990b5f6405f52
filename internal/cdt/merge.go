package cdt

import (
	"slices"
	"strings"
)

const (
	// separates build steps and commands merged from different configurations
	stepSeparator = "\n"
	// separates merged input/output path lists
	listSeparator = ";"
)

// Merger folds raw configurations into one configuration per artifact (name + type).
// Folders, files and source entries are found by linear scan, which is fine for the
// handful of entries a CDT project has.
type Merger struct {
	index   map[string]int
	configs []*Configuration
	// flag blobs already accumulated, per artifact, folder, language and setting
	blobs map[string][]string
}

func NewMerger() *Merger {
	return &Merger{
		index: make(map[string]int),
		blobs: make(map[string][]string),
	}
}

// Add merges raw into the configuration sharing its key, creating it on first sight
func (m *Merger) Add(raw *Configuration) {
	key := raw.Key()
	i, ok := m.index[key]
	if !ok {
		m.configs = append(m.configs, &Configuration{})
		i = len(m.configs) - 1
		m.index[key] = i
	}
	dst := m.configs[i]

	dst.Name = raw.Name
	dst.Artifact = raw.Artifact
	dst.Type = raw.Type
	dst.PreBuild = concatDistinct(dst.PreBuild, raw.PreBuild, stepSeparator)
	dst.PostBuild = concatDistinct(dst.PostBuild, raw.PostBuild, stepSeparator)

	for _, folder := range raw.Folders {
		j := slices.IndexFunc(dst.Folders, func(f BuildFolder) bool { return f.Path == folder.Path })
		if j < 0 {
			dst.Folders = append(dst.Folders, BuildFolder{Path: folder.Path})
			j = len(dst.Folders) - 1
		}
		scope := key + "\x00" + folder.Path + "\x00"
		m.mergeTools(scope+"c", &dst.Folders[j].C, folder.C)
		m.mergeTools(scope+"cpp", &dst.Folders[j].CPP, folder.CPP)
	}

	for _, file := range raw.Files {
		j := slices.IndexFunc(dst.Files, func(f BuildFile) bool { return f.File == file.File })
		if j < 0 {
			dst.Files = append(dst.Files, BuildFile{File: file.File})
			j = len(dst.Files) - 1
		}
		f := &dst.Files[j]
		f.Command = concatDistinct(f.Command, file.Command, stepSeparator)
		f.Inputs = concatDistinct(f.Inputs, file.Inputs, listSeparator)
		f.Outputs = concatDistinct(f.Outputs, file.Outputs, listSeparator)
	}

	// without a sourcePath entry CDT builds the whole project, and so does the artifact
	if !slices.ContainsFunc(raw.SourceEntries, SourceEntry.IsSourcePath) {
		dst.AllSources = true
	}
	for _, entry := range raw.SourceEntries {
		j := slices.IndexFunc(dst.SourceEntries, func(e SourceEntry) bool {
			return e.Kind == entry.Kind && e.Name == entry.Name
		})
		if j < 0 {
			dst.SourceEntries = append(dst.SourceEntries, SourceEntry{
				Kind:      entry.Kind,
				Name:      entry.Name,
				Excluding: slices.Clone(entry.Excluding),
			})
			continue
		}
		// a file built by any configuration stays in the artifact
		e := &dst.SourceEntries[j]
		e.Excluding = slices.DeleteFunc(e.Excluding, func(pat string) bool {
			return !slices.Contains(entry.Excluding, pat)
		})
	}
}

// Configurations returns the merged configurations in the order their artifacts were first seen
func (m *Merger) Configurations() []*Configuration {
	return m.configs
}

func (m *Merger) Len() int { return len(m.configs) }

func (m *Merger) mergeTools(scope string, dst *ToolSettings, src ToolSettings) {
	dst.Compiler.Includes = appendUnique(dst.Compiler.Includes, src.Compiler.Includes...)
	dst.Compiler.Options = m.appendBlob(scope+"\x00options", dst.Compiler.Options, src.Compiler.Options)

	dst.Linker.Flags = m.appendBlob(scope+"\x00flags", dst.Linker.Flags, src.Linker.Flags)
	dst.Linker.Libs = appendUnique(dst.Linker.Libs, src.Linker.Libs...)
	dst.Linker.LibPaths = appendUnique(dst.Linker.LibPaths, src.Linker.LibPaths...)
}

// appendBlob adds blob to acc unless the same blob was already added under scope.
// Flags inside different blobs are left alone.
func (m *Merger) appendBlob(scope, acc, blob string) string {
	blob = strings.TrimSpace(blob)
	if blob == "" || slices.Contains(m.blobs[scope], blob) {
		return acc
	}
	m.blobs[scope] = append(m.blobs[scope], blob)
	return joinBlob(acc, blob)
}

// appendUnique appends the values not yet in dst, keeping first-seen order
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// joinBlob appends a flag blob to a space-joined accumulator
func joinBlob(acc, blob string) string {
	blob = strings.TrimSpace(blob)
	switch {
	case blob == "":
		return acc
	case acc == "":
		return blob
	}
	return acc + " " + blob
}

// concatDistinct joins incoming onto stored with sep, unless it is empty or already one of the parts
func concatDistinct(stored, incoming, sep string) string {
	switch {
	case incoming == "":
		return stored
	case stored == "":
		return incoming
	case slices.Contains(strings.Split(stored, sep), incoming):
		return stored
	}
	return stored + sep + incoming
}
