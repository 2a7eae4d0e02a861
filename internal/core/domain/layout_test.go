package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/depot/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	id := domain.PackageID{Name: "wisp", Version: "1.2.0"}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "ManifestPath",
			got:      domain.ManifestPath("proj"),
			expected: filepath.Join("proj", "manifest.toml"),
		},
		{
			name:     "DefaultPackagesPath",
			got:      domain.DefaultPackagesPath("proj"),
			expected: filepath.Join("proj", "build", "packages"),
		},
		{
			name:     "LedgerPath",
			got:      domain.LedgerPath("pkgs"),
			expected: filepath.Join("pkgs", "packages.toml"),
		},
		{
			name:     "PackagePath",
			got:      domain.PackagePath("pkgs", id),
			expected: filepath.Join("pkgs", "wisp@1.2.0"),
		},
		{
			name:     "StagingPath",
			got:      domain.StagingPath("pkgs"),
			expected: filepath.Join("pkgs", ".staging"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}
