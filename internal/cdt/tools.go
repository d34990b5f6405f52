package cdt

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// toolRole is the closed set of tools whose options are read
type toolRole int

const (
	roleNone toolRole = iota
	roleCPPCompiler
	roleCCompiler
	roleCPPLinker
	roleCLinker
)

func (r toolRole) String() string {
	switch r {
	case roleCPPCompiler:
		return "cpp-compiler"
	case roleCCompiler:
		return "c-compiler"
	case roleCPPLinker:
		return "cpp-linker"
	case roleCLinker:
		return "c-linker"
	default:
		return "none"
	}
}

// classifyTool resolves a tool superClass such as cdt.managedbuild.tool.gnu.cpp.compiler.exe.debug
func classifyTool(superClass string) toolRole {
	switch {
	case strings.Contains(superClass, "cpp.compiler"):
		return roleCPPCompiler
	case strings.Contains(superClass, "c.compiler"):
		return roleCCompiler
	case strings.Contains(superClass, "cpp.linker"):
		return roleCPPLinker
	case strings.Contains(superClass, "c.linker"):
		return roleCLinker
	default:
		return roleNone
	}
}

func readFolderInfo(el *etree.Element) (BuildFolder, error) {
	folder := BuildFolder{Path: attr(el, "resourcePath")}

	toolChain := el.SelectElement("toolChain")
	if toolChain == nil {
		return folder, fmt.Errorf("folderInfo %q: unable to find toolChain", folder.Path)
	}

	for _, tool := range toolChain.SelectElements("tool") {
		switch classifyTool(attr(tool, "superClass")) {
		case roleCPPCompiler:
			readCompilerOptions(tool, &folder.CPP.Compiler)
		case roleCCompiler:
			readCompilerOptions(tool, &folder.C.Compiler)
		case roleCPPLinker:
			readLinkerOptions(tool, &folder.CPP.Linker)
		case roleCLinker:
			readLinkerOptions(tool, &folder.C.Linker)
		}
	}
	return folder, nil
}

func readCompilerOptions(tool *etree.Element, s *CompilerSettings) {
	for _, opt := range tool.SelectElements("option") {
		superClass := attr(opt, "superClass")
		switch {
		case superClass == "":
			continue
		case strings.Contains(superClass, "compiler.option.include.paths"):
			s.Includes = append(s.Includes, listOptionValues(opt)...)
		case strings.Contains(superClass, "compiler.option.other.other"),
			strings.Contains(superClass, "compiler.option.misc.other"):
			if v := opt.SelectAttr("value"); v != nil {
				s.Options = joinBlob(s.Options, v.Value)
			}
		}
	}
}

func readLinkerOptions(tool *etree.Element, s *LinkerSettings) {
	for _, opt := range tool.SelectElements("option") {
		superClass := attr(opt, "superClass")
		switch {
		case superClass == "":
			continue
		case strings.Contains(superClass, "link.option.libs"):
			s.Libs = append(s.Libs, listOptionValues(opt)...)
		case strings.Contains(superClass, "link.option.paths"):
			s.LibPaths = append(s.LibPaths, listOptionValues(opt)...)
		case strings.Contains(superClass, "link.option.flags"):
			if v := opt.SelectAttr("value"); v != nil {
				s.Flags = joinBlob(s.Flags, v.Value)
			}
		}
	}
}

func listOptionValues(opt *etree.Element) []string {
	var values []string
	for _, lv := range opt.SelectElements("listOptionValue") {
		if v := lv.SelectAttr("value"); v != nil {
			values = append(values, v.Value)
		}
	}
	return values
}
