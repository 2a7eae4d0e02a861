// Package config provides the project configuration loader for depot.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// anyVersion is used for dependencies declared without a requirement.
const anyVersion = ">= 0.0.0"

var validPackageNameRegex = regexp.MustCompile("^[a-z][a-z0-9_]*$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
}

// NewLoader creates a new Loader reading from the given filesystem.
func NewLoader(fsys afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, logger: logger}
}

// DiscoverRoot walks up from cwd until it finds a directory containing depot.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, domain.ProjectFileName)
		if _, statErr := l.fs.Stat(candidate); statErr == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", abs)
}

// Load reads depot.yaml from root and returns the project it describes.
func (l *Loader) Load(root string) (*domain.Project, error) {
	configPath := filepath.Join(root, domain.ProjectFileName)

	var file Projectfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	if file.Name == "" {
		return nil, zerr.With(domain.ErrMissingProjectName, "path", configPath)
	}

	deps, err := l.requirements(configPath, "dependencies", file.Dependencies)
	if err != nil {
		return nil, err
	}

	devDeps, err := l.requirements(configPath, "dev-dependencies", file.DevDependencies)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Name:            file.Name,
		Version:         file.Version,
		Dependencies:    deps,
		DevDependencies: devDeps,
	}, nil
}

func (l *Loader) requirements(configPath, section string, raw map[string]string) (domain.RequirementSet, error) {
	reqs := make(domain.RequirementSet, len(raw))
	for name, requirement := range raw {
		if !validPackageNameRegex.MatchString(name) {
			err := zerr.With(domain.ErrConfigParseFailed, "path", configPath)
			err = zerr.With(err, "section", section)
			return nil, zerr.With(err, "invalid_package_name", name)
		}

		requirement = strings.TrimSpace(requirement)
		if requirement == "" {
			l.logger.Warn(section + "." + name + " has no version requirement, accepting any version")
			requirement = anyVersion
		}
		reqs[name] = requirement
	}
	return reqs, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Projectfile) error {
	data, err := afero.ReadFile(l.fs, configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrConfigNotFound, "path", configPath)
		}
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
		return zerr.With(wrapped, "action", "read")
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		wrapped := zerr.With(zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error()), "path", configPath)
		return zerr.With(wrapped, "action", "parse")
	}

	return nil
}
