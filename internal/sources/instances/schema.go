package instances

// FileConfig is the root structure of instances.yaml.
//
// The top-level fields declare the default instance; Instances declares
// named ones.
type FileConfig struct {
	BaseURL         string          `yaml:"baseUrl,omitempty"`
	ExternalBaseURL string          `yaml:"externalBaseUrl,omitempty"`
	Credential      string          `yaml:"credential,omitempty"`
	Instances       []InstanceEntry `yaml:"instances,omitempty"`
}

// InstanceEntry is one named instance.
type InstanceEntry struct {
	Name            string `yaml:"name"`
	BaseURL         string `yaml:"baseUrl"`
	ExternalBaseURL string `yaml:"externalBaseUrl,omitempty"`
	Credential      string `yaml:"credential"`
}
