package config

// Projectfile represents the structure of the depot.yaml configuration file.
type Projectfile struct {
	Name            string            `yaml:"name"`
	Version         string            `yaml:"version"`
	Dependencies    map[string]string `yaml:"dependencies"`
	DevDependencies map[string]string `yaml:"dev-dependencies"`
}
