package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xalexb/hjarta-conf/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func readConfig(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestNewModule_PruneAndDefaultsOnStart(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, legacyContent)

	var active *config.Value[string]

	app := fxtest.New(t,
		config.NewModule("plugin", path, config.WithPruneOnStart(), config.WithDefaultsOnStart()),
		fx.Invoke(fx.Annotate(
			func(obj *config.Object) {
				active = config.MustDeclare(obj, "active", "default")
				config.MustDeclare(obj, "section.active_in_section", "default")
				config.MustDeclare(obj, "map", map[string]string{})
				config.MustDeclare(obj, "added", "fresh")
			},
			fx.ParamTags(`name:"plugin"`),
		)),
	)

	app.RequireStart()

	content := readConfig(t, path)
	assert.Contains(t, content, "active: value")
	assert.Contains(t, content, "entry1: value1")
	assert.Contains(t, content, "added: fresh")
	assert.NotContains(t, content, "legacy")
	assert.Equal(t, "value", active.Read())

	app.RequireStop()
}

func TestNewModule_SaveOnStop(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "port: 8080\n")

	var port *config.Value[int]

	app := fxtest.New(t,
		config.NewModule("server", path, config.WithSaveOnStop()),
		fx.Invoke(fx.Annotate(
			func(obj *config.Object) {
				port = config.MustDeclare(obj, "port", 25565)
			},
			fx.ParamTags(`name:"server"`),
		)),
	)

	app.RequireStart()
	assert.Equal(t, 8080, port.Read())
	assert.Equal(t, "port: 8080\n", readConfig(t, path), "nothing is written on start without start options")

	require.NoError(t, port.Write(9090))

	app.RequireStop()

	assert.Contains(t, readConfig(t, path), "port: 9090")
}

func TestNewModule_MissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fresh", "config.yaml")

	app := fxtest.New(t,
		config.NewModule("fresh", path, config.WithDefaultsOnStart()),
		fx.Invoke(fx.Annotate(
			func(obj *config.Object) {
				config.MustDeclare(obj, "motd", "hello")
			},
			fx.ParamTags(`name:"fresh"`),
		)),
	)

	app.RequireStart()
	assert.Contains(t, readConfig(t, path), "motd: hello")
	app.RequireStop()
}

func TestNewModule_EmptyName(t *testing.T) {
	t.Parallel()

	app := fx.New(
		fx.NopLogger,
		config.NewModule("", "config.yaml"),
	)

	require.ErrorIs(t, app.Err(), config.ErrEmptyName)
}

func TestNewModule_DirectoryPath(t *testing.T) {
	t.Parallel()

	app := fx.New(
		fx.NopLogger,
		config.NewModule("broken", t.TempDir()),
	)

	require.Error(t, app.Err())
}
