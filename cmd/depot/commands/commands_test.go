package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/cmd/depot/commands"
	"go.trai.ch/depot/internal/app"
	"go.trai.ch/depot/internal/build"
)

type mockApp struct {
	downloadFunc func(ctx context.Context) error
	listFunc     func(ctx context.Context, w io.Writer) error
	cleanFunc    func(ctx context.Context, opts app.CleanOptions) error

	verbose bool
	json    bool
}

func (m *mockApp) DownloadDeps(ctx context.Context) error {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx)
	}
	return nil
}

func (m *mockApp) ListDeps(ctx context.Context, w io.Writer) error {
	if m.listFunc != nil {
		return m.listFunc(ctx, w)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) ConfigureLogging(verbose, json bool) {
	m.verbose = verbose
	m.json = json
}

func TestCommands_DepsDownload(t *testing.T) {
	t.Run("runs the download", func(t *testing.T) {
		called := false
		mock := &mockApp{
			downloadFunc: func(context.Context) error {
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"deps", "download"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, called)
		assert.False(t, mock.verbose)
	})

	t.Run("wires global flags", func(t *testing.T) {
		mock := &mockApp{}

		cli := commands.New(mock)
		cli.SetArgs([]string{"-v", "--json", "deps", "download"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, mock.verbose)
		assert.True(t, mock.json)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			downloadFunc: func(context.Context) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"deps", "download"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		mock := &mockApp{
			downloadFunc: func(context.Context) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"deps", "download", "wisp"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_DepsList(t *testing.T) {
	mock := &mockApp{
		listFunc: func(_ context.Context, w io.Writer) error {
			_, err := fmt.Fprintln(w, "wisp 1.4.0")
			return err
		},
	}

	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"deps", "list"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "wisp 1.4.0\n", buf.String())
}

func TestCommands_Deps_ShowsUsage(t *testing.T) {
	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"deps"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "Usage:")
	assert.Contains(t, buf.String(), "download")
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{name: "default", args: []string{"clean"}, want: app.CleanOptions{}},
		{name: "manifest", args: []string{"clean", "--manifest"}, want: app.CleanOptions{Manifest: true}},
		{name: "short flag", args: []string{"clean", "-m"}, want: app.CleanOptions{Manifest: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured app.CleanOptions
			mock := &mockApp{
				cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
					captured = opts
					return nil
				},
			}

			cli := commands.New(mock)
			cli.SetArgs(tt.args)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, captured)
		})
	}
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, fmt.Sprintf("depot version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date), buf.String())
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "depot version "+build.Version)
}

func TestCommands_VerboseShorthand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantVerbose bool
	}{
		{name: "version", args: []string{"version"}},
		{name: "deps list", args: []string{"deps", "list"}},
		{name: "clean", args: []string{"clean"}},
		{name: "short verbose on subcommand", args: []string{"deps", "list", "-v"}, wantVerbose: true},
		{name: "short verbose before subcommand", args: []string{"-v", "clean"}, wantVerbose: true},
		{name: "long verbose", args: []string{"--verbose", "version"}, wantVerbose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockApp{}
			cli := commands.New(mock)
			cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
			cli.SetArgs(tt.args)

			require.NotPanics(t, func() {
				require.NoError(t, cli.Execute(context.Background()))
			})
			assert.Equal(t, tt.wantVerbose, mock.verbose)
		})
	}
}

func TestCommands_Help(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "--verbose")
	assert.Contains(t, buf.String(), "--version")
	assert.NotContains(t, buf.String(), "-v, --version")
}
