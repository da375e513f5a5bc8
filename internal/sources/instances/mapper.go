package instances

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/qualityhub/internal/domain"
)

// ToRegistrySource converts the file structure to the registry input.
// Named entries must carry name, baseUrl and credential.
func ToRegistrySource(config *FileConfig) (domain.RegistrySource, error) {
	src := domain.RegistrySource{
		Default: domain.DefaultBlock{
			BaseURL:         strings.TrimSpace(config.BaseURL),
			ExternalBaseURL: strings.TrimSpace(config.ExternalBaseURL),
			Credential:      strings.TrimSpace(config.Credential),
		},
		Instances: make([]domain.Instance, 0, len(config.Instances)),
	}

	for i, entry := range config.Instances {
		inst := domain.Instance{
			Name:            strings.TrimSpace(entry.Name),
			BaseURL:         strings.TrimSpace(entry.BaseURL),
			ExternalBaseURL: strings.TrimSpace(entry.ExternalBaseURL),
			Credential:      strings.TrimSpace(entry.Credential),
		}

		var missing []string
		if inst.Name == "" {
			missing = append(missing, "name")
		}
		if inst.BaseURL == "" {
			missing = append(missing, "baseUrl")
		}
		if inst.Credential == "" {
			missing = append(missing, "credential")
		}
		if len(missing) > 0 {
			return domain.RegistrySource{}, fmt.Errorf("%w: instances[%d] is missing %s",
				domain.ErrConfigIncomplete, i, strings.Join(missing, ", "))
		}

		src.Instances = append(src.Instances, inst)
	}

	return src, nil
}

// LoadRegistry loads filePath and builds the instance registry.
func LoadRegistry(filePath string) (*domain.Registry, error) {
	config, err := NewLoader(filePath).Load()
	if err != nil {
		return nil, err
	}

	src, err := ToRegistrySource(config)
	if err != nil {
		return nil, err
	}

	return domain.NewRegistry(src)
}
