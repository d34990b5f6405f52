package cdt

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

const (
	ProjectFilename  = ".project"
	CProjectFilename = ".cproject"

	settingsModuleID    = "org.eclipse.cdt.core.settings"
	buildSystemModuleID = "cdtBuildSystem"

	projNamePlaceholder = "${ProjName}"
	CNature             = "org.eclipse.cdt.core.cnature"
)

var (
	errMissingName     = errors.New("missing /projectDescription/name")
	errMissingNameText = errors.New("missing /projectDescription/name text")
)

// Project gives read-only access to the .project and .cproject documents of one CDT project
type Project struct {
	project  *etree.Document
	cproject *etree.Document
}

// Open parses <root>/.project and <root>/.cproject
func Open(root string) (*Project, error) {
	projectFile := filepath.Join(root, ProjectFilename)
	cprojectFile := filepath.Join(root, CProjectFilename)

	project := etree.NewDocument()
	if err := project.ReadFromFile(projectFile); err != nil {
		return nil, fmt.Errorf("unable to parse file %s: %w", projectFile, err)
	}
	cproject := etree.NewDocument()
	if err := cproject.ReadFromFile(cprojectFile); err != nil {
		return nil, fmt.Errorf("unable to parse file %s: %w", cprojectFile, err)
	}
	return newProject(project, cproject, projectFile, cprojectFile)
}

// Parse reads both documents from readers
func Parse(projectXML, cprojectXML io.Reader) (*Project, error) {
	project := etree.NewDocument()
	if _, err := project.ReadFrom(projectXML); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", ProjectFilename, err)
	}
	cproject := etree.NewDocument()
	if _, err := cproject.ReadFrom(cprojectXML); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", CProjectFilename, err)
	}
	return newProject(project, cproject, ProjectFilename, CProjectFilename)
}

func newProject(project, cproject *etree.Document, projectFile, cprojectFile string) (*Project, error) {
	if err := checkRoot(project, "projectDescription", projectFile); err != nil {
		return nil, err
	}
	if err := checkRoot(cproject, "cproject", cprojectFile); err != nil {
		return nil, err
	}
	return &Project{project: project, cproject: cproject}, nil
}

func checkRoot(doc *etree.Document, tag, file string) error {
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("no root node in %s", file)
	}
	if root.Tag != tag {
		return fmt.Errorf("unrecognised root node %q in %s", root.Tag, file)
	}
	return nil
}

//
// .project
//

func (p *Project) Name() (string, error) {
	name := p.project.Root().SelectElement("name")
	if name == nil {
		return "", errMissingName
	}
	text := strings.TrimSpace(name.Text())
	if text == "" {
		return "", errMissingNameText
	}
	return text, nil
}

func (p *Project) Comment() string {
	comment := p.project.Root().SelectElement("comment")
	if comment == nil {
		return ""
	}
	return strings.TrimSpace(comment.Text())
}

func (p *Project) ReferencedProjects() []string {
	return childTexts(p.project.Root().SelectElement("projects"), "project")
}

func (p *Project) Natures() []string {
	return childTexts(p.project.Root().SelectElement("natures"), "nature")
}

// IsCDT reports whether the project declares the CDT C nature
func (p *Project) IsCDT() bool {
	return slices.Contains(p.Natures(), CNature)
}

func childTexts(parent *etree.Element, tag string) []string {
	if parent == nil {
		return nil
	}
	var texts []string
	for _, el := range parent.SelectElements(tag) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

//
// .cproject
//

func storageModule(parent *etree.Element, moduleID string) *etree.Element {
	for _, sm := range parent.SelectElements("storageModule") {
		if attr(sm, "moduleId") == moduleID {
			return sm
		}
	}
	return nil
}

func (p *Project) settings() *etree.Element {
	return storageModule(p.cproject.Root(), settingsModuleID)
}

// CConfigurations returns the id of every cconfiguration, in document order.
// Entries without an id are skipped.
func (p *Project) CConfigurations() []string {
	settings := p.settings()
	if settings == nil {
		return nil
	}
	var ids []string
	for _, cc := range settings.SelectElements("cconfiguration") {
		if id := cc.SelectAttr("id"); id != nil {
			ids = append(ids, id.Value)
		}
	}
	return ids
}

func (p *Project) cconfiguration(id string) *etree.Element {
	settings := p.settings()
	if settings == nil {
		return nil
	}
	for _, cc := range settings.SelectElements("cconfiguration") {
		if a := cc.SelectAttr("id"); a != nil && a.Value == id {
			return cc
		}
	}
	return nil
}

// Configuration parses the cdtBuildSystem configuration of the cconfiguration with the given id
func (p *Project) Configuration(id string) (*Configuration, error) {
	cc := p.cconfiguration(id)
	if cc == nil {
		return nil, fmt.Errorf("no cconfiguration with id %q", id)
	}
	buildSystem := storageModule(cc, buildSystemModuleID)
	if buildSystem == nil {
		return nil, fmt.Errorf("cconfiguration %q: unable to find cdtBuildSystem storageModule", id)
	}
	conf := buildSystem.SelectElement("configuration")
	if conf == nil {
		return nil, fmt.Errorf("cconfiguration %q: unable to find cdtBuildSystem/configuration", id)
	}

	projectName, err := p.Name()
	if err != nil {
		return nil, err
	}

	cfg := &Configuration{
		Name:      attr(conf, "name"),
		Artifact:  attrOr(conf, "artifactName", projNamePlaceholder),
		PreBuild:  firstAttr(conf, "preBuild", "prebuildStep"),
		PostBuild: firstAttr(conf, "postBuild", "postbuildStep"),
	}
	if cfg.Artifact == projNamePlaceholder {
		cfg.Artifact = projectName
	}

	if a := conf.SelectAttr("buildArtefactType"); a != nil {
		if cfg.Type, err = ParseArtifactType(a.Value); err != nil {
			return nil, fmt.Errorf("cconfiguration %q: %w", id, err)
		}
	} else if t, ok := artifactTypeFromParent(attr(conf, "parent")); ok {
		cfg.Type = t
	} else {
		return nil, fmt.Errorf("cconfiguration %q: unable to find cdtBuildSystem/configuration['buildArtefactType']", id)
	}

	for _, child := range conf.ChildElements() {
		switch child.Tag {
		case "folderInfo":
			folder, err := readFolderInfo(child)
			if err != nil {
				return nil, fmt.Errorf("cconfiguration %q: %w", id, err)
			}
			cfg.Folders = append(cfg.Folders, folder)
		case "fileInfo":
			cfg.Files = append(cfg.Files, readFileInfo(child))
		case "sourceEntries":
			cfg.SourceEntries = append(cfg.SourceEntries, readSourceEntries(child)...)
		default:
			return nil, fmt.Errorf("cconfiguration %q: unknown configuration element %q", id, child.Tag)
		}
	}

	return cfg, nil
}

func readFileInfo(el *etree.Element) BuildFile {
	file := BuildFile{File: attr(el, "resourcePath")}
	for _, tool := range el.SelectElements("tool") {
		if attr(tool, "customBuildStep") != "true" {
			continue
		}
		file.Command = attr(tool, "command")
		if in := tool.SelectElement("inputType"); in != nil {
			if add := in.SelectElement("additionalInput"); add != nil {
				file.Inputs = attr(add, "paths")
			}
		}
		if out := tool.SelectElement("outputType"); out != nil {
			file.Outputs = attr(out, "outputNames")
		}
		break
	}
	return file
}

func readSourceEntries(el *etree.Element) []SourceEntry {
	var entries []SourceEntry
	for _, e := range el.SelectElements("entry") {
		entry := SourceEntry{Kind: attr(e, "kind"), Name: attr(e, "name")}
		for _, pat := range strings.Split(attr(e, "excluding"), "|") {
			if pat != "" {
				entry.Excluding = append(entry.Excluding, pat)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func attr(el *etree.Element, key string) string {
	return attrOr(el, key, "")
}

func attrOr(el *etree.Element, key, def string) string {
	if a := el.SelectAttr(key); a != nil {
		return a.Value
	}
	return def
}

// firstAttr returns the value of the first attribute in keys that is present
func firstAttr(el *etree.Element, keys ...string) string {
	for _, key := range keys {
		if a := el.SelectAttr(key); a != nil {
			return a.Value
		}
	}
	return ""
}
