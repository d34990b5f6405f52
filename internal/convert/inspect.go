package convert

import (
	"github.com/qobs-build/cdt2cmake/internal/cdt"
)

// ConfigurationInfo describes one CDT configuration of a project
type ConfigurationInfo struct {
	SelectEnv
	// Key groups configurations building the same artifact
	Key      string
	Selected bool
	// Configuration is the parsed configuration, before any merging
	Configuration *cdt.Configuration
}

// eachConfiguration parses every configuration of project in document order and
// reports whether cfg selects it
func eachConfiguration(project *cdt.Project, cfg *Config, fn func(id string, raw *cdt.Configuration, selected bool)) error {
	for _, id := range project.CConfigurations() {
		raw, err := project.Configuration(id)
		if err != nil {
			return err
		}
		selected, err := cfg.Selects(envFor(id, raw))
		if err != nil {
			return err
		}
		fn(id, raw, selected)
	}
	return nil
}

func envFor(id string, raw *cdt.Configuration) SelectEnv {
	return SelectEnv{
		ID:       id,
		Name:     raw.Name,
		Artifact: raw.Artifact,
		Type:     raw.Type.String(),
	}
}

// Inspect lists the configurations of the project at root
func Inspect(root string, cfg *Config) ([]ConfigurationInfo, error) {
	project, err := cdt.Open(root)
	if err != nil {
		return nil, err
	}
	var infos []ConfigurationInfo
	err = eachConfiguration(project, cfg, func(id string, raw *cdt.Configuration, selected bool) {
		infos = append(infos, ConfigurationInfo{
			SelectEnv:     envFor(id, raw),
			Key:           raw.Key(),
			Selected:      selected,
			Configuration: raw,
		})
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}
