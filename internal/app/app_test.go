package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dori/taskdeck/internal/config"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Backend = backend
	cfg.Notifications.Desktop = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	var bell bytes.Buffer
	a, err := New(cfg, WithBellOutput(&bell), WithNotificationSender(func(notify.Notification) error { return nil }))
	require.NoError(t, err)
	return a, &bell
}

func TestApp_PersistsAcrossRestart(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			a, _ := newTestApp(t, cfg)
			task, err := a.Tasks.Create("Water plants", model.CategoryPersonal)
			require.NoError(t, err)
			goal, err := a.Goals.Create("Read books")
			require.NoError(t, err)
			a.Goals.Increment(goal.ID)
			a.Prefs.SetDarkMode(false)
			require.NoError(t, a.Close())

			b, _ := newTestApp(t, cfg)
			defer b.Close()

			got, ok := b.Tasks.Get(task.ID)
			require.True(t, ok)
			assert.Equal(t, task, got)

			g, ok := b.Goals.Get(goal.ID)
			require.True(t, ok)
			assert.Equal(t, 1, g.Current)
			assert.False(t, b.Prefs.DarkMode())
		})
	}
}

func TestApp_MemoryBackendStartsEmpty(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)

	a, _ := newTestApp(t, cfg)
	_, err := a.Tasks.Create("Gone after close", "")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, _ := newTestApp(t, cfg)
	defer b.Close()
	assert.Equal(t, 0, b.Tasks.Len())
	assert.True(t, b.Prefs.DarkMode())
}

func TestApp_SingleInstance(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)

	a, _ := newTestApp(t, cfg)
	defer a.Close()

	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestApp_BellRingsOnEvents(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)

	a, bell := newTestApp(t, cfg)
	defer a.Close()

	task, err := a.Tasks.Create("Ring", "")
	require.NoError(t, err)
	a.Tasks.ToggleComplete(task.ID)

	assert.Equal(t, "\a\a\a", bell.String())
}

func TestApp_WritesLogFile(t *testing.T) {
	t.Setenv("TASKDECK_DEBUG", "1")
	cfg := testConfig(t, config.BackendMemory)

	a, _ := newTestApp(t, cfg)
	require.NoError(t, a.Close())

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "taskdeck.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "store opened")
}

func TestOpenStore_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			store, err := openStore(cfg)
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Set("darkMode", "false"))
			v, ok, err := store.Get("darkMode")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "false", v)
		})
	}

	_, err := openStore(testConfig(t, "redis"))
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestApp_LogsSchemaVersion(t *testing.T) {
	t.Setenv("TASKDECK_DEBUG", "1")
	cfg := testConfig(t, config.BackendSQLite)

	a, _ := newTestApp(t, cfg)
	require.NoError(t, a.Close())

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "taskdeck.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend=sqlite schema=1")
}
