package lockfile_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/lockfile"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestStore_Manifest(t *testing.T) {
	t.Parallel()

	manifest := domain.NewManifest(
		domain.RequirementSet{"gleam_stdlib": "~> 0.34", "wisp": ">= 1.0.0 and < 2.0.0"},
		map[string]string{"gleam_stdlib": "0.34.0", "wisp": "1.2.0", "mist": "2.0.0"},
	)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		store := lockfile.NewStore(afero.NewMemMapFs())

		require.NoError(t, store.WriteManifest("/proj", manifest))

		got, err := store.ReadManifest("/proj")
		require.NoError(t, err)
		assert.Equal(t, manifest, got)
	})

	t.Run("empty manifest round trip", func(t *testing.T) {
		t.Parallel()
		store := lockfile.NewStore(afero.NewMemMapFs())
		empty := domain.NewManifest(nil, nil)

		require.NoError(t, store.WriteManifest("/proj", empty))

		got, err := store.ReadManifest("/proj")
		require.NoError(t, err)
		assert.Equal(t, empty, got)
	})

	t.Run("header and stable output", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		store := lockfile.NewStore(fsys)

		require.NoError(t, store.WriteManifest("/proj", manifest))
		first, err := afero.ReadFile(fsys, "/proj/manifest.toml")
		require.NoError(t, err)

		reread, err := store.ReadManifest("/proj")
		require.NoError(t, err)
		require.NoError(t, store.WriteManifest("/proj", reread))
		second, err := afero.ReadFile(fsys, "/proj/manifest.toml")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(string(first), lockfile.Header))
		assert.Contains(t, string(first), "[requirements]")
		assert.Contains(t, string(first), "[packages]")
		assert.Equal(t, first, second, "rewriting an unchanged manifest must be byte-identical")
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		store := lockfile.NewStore(fsys)

		require.NoError(t, store.WriteManifest("/proj", manifest))

		entries, err := afero.ReadDir(fsys, "/proj")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "manifest.toml", entries[0].Name())
	})

	t.Run("missing manifest", func(t *testing.T) {
		t.Parallel()
		store := lockfile.NewStore(afero.NewMemMapFs())

		got, err := store.ReadManifest("/proj")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("corrupt manifest", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/proj/manifest.toml", []byte("[packages\nwisp = "), domain.FilePerm))

		_, err := lockfile.NewStore(fsys).ReadManifest("/proj")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "/proj/manifest.toml", zErr.Metadata()["path"])
		assert.Equal(t, "parse", zErr.Metadata()["action"])
	})

	t.Run("sections that are not tables", func(t *testing.T) {
		t.Parallel()
		bodies := []string{
			"packages = 3",
			"packages = \"x\"",
			"packages = [1, 2]",
			"requirements = 3\npackages = 3",
			"requirements = \"wisp\"\n[packages]\nwisp = \"1.0.0\"",
		}
		for _, body := range bodies {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/proj/manifest.toml", []byte(body), domain.FilePerm))

			got, err := lockfile.NewStore(fsys).ReadManifest("/proj")
			require.Error(t, err, body)
			assert.Nil(t, got, body)
			assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error(), body)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, "/proj/manifest.toml", zErr.Metadata()["path"], body)
			assert.Equal(t, "parse", zErr.Metadata()["action"], body)
		}
	})

	t.Run("remove manifest", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		store := lockfile.NewStore(fsys)
		require.NoError(t, store.WriteManifest("/proj", manifest))

		require.NoError(t, store.RemoveManifest("/proj"))
		require.NoError(t, store.RemoveManifest("/proj"), "removing a missing manifest is not an error")

		exists, err := afero.Exists(fsys, "/proj/manifest.toml")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStore_Ledger(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		store := lockfile.NewStore(fsys)
		ledger := &domain.Ledger{Packages: map[string]string{"wisp": "1.2.0", "mist": "2.0.0"}}

		require.NoError(t, store.WriteLedger("/proj/build/packages", ledger))

		got, err := store.ReadLedger("/proj/build/packages")
		require.NoError(t, err)
		assert.Equal(t, ledger, got)

		data, err := afero.ReadFile(fsys, "/proj/build/packages/packages.toml")
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(string(data), "#"), "the ledger has no header")
	})

	t.Run("missing ledger", func(t *testing.T) {
		t.Parallel()
		got, err := lockfile.NewStore(afero.NewMemMapFs()).ReadLedger("/proj/build/packages")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("corrupt ledger", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/pkgs/packages.toml", []byte("packages = 3"), domain.FilePerm))

		_, err := lockfile.NewStore(fsys).ReadLedger("/pkgs")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrLedgerParseFailed.Error())

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "/pkgs/packages.toml", zErr.Metadata()["path"])
	})

	t.Run("packages that are not a table", func(t *testing.T) {
		t.Parallel()
		for _, body := range []string{"packages = \"x\"", "packages = [1, 2]", "packages = true"} {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/pkgs/packages.toml", []byte(body), domain.FilePerm))

			got, err := lockfile.NewStore(fsys).ReadLedger("/pkgs")
			require.Error(t, err, body)
			assert.Nil(t, got, body)
			assert.ErrorContains(t, err, domain.ErrLedgerParseFailed.Error(), body)
		}
	})
}
