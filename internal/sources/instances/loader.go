package instances

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader handles loading and parsing of instances.yaml
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a loader resolving ${VAR} references from the process environment.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Load reads the file, expands ${VAR} references and parses it.
func (l *Loader) Load() (*FileConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read instances file: %w", err)
	}
	return l.Parse(data)
}

// Parse parses data, then expands ${VAR} references in the string fields.
// Expansion runs after parsing so values are taken verbatim, never read as YAML.
func (l *Loader) Parse(data []byte) (*FileConfig, error) {
	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse instances yaml: %w", err)
	}

	e := envExpander{lookup: l.lookup}
	e.expand(&config.BaseURL)
	e.expand(&config.ExternalBaseURL)
	e.expand(&config.Credential)
	for i := range config.Instances {
		entry := &config.Instances[i]
		e.expand(&entry.Name)
		e.expand(&entry.BaseURL)
		e.expand(&entry.ExternalBaseURL)
		e.expand(&entry.Credential)
	}

	if len(e.missing) > 0 {
		return nil, fmt.Errorf("instances file references unset environment variables: %v", e.missing)
	}

	return &config, nil
}

// envExpander replaces ${VAR} with the variable's value and records
// unset variables.
// Credentials are expected to come in this way rather than in clear text.
// Example: credential: ${QUALITY_TOKEN}
type envExpander struct {
	lookup  func(string) (string, bool)
	missing []string
}

func (e *envExpander) expand(field *string) {
	*field = envRefPattern.ReplaceAllStringFunc(*field, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		v, ok := e.lookup(name)
		if !ok {
			e.missing = append(e.missing, name)
			return ref
		}
		return v
	})
}
