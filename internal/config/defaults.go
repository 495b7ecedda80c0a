package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns ~/.local/share/taskdeck
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskdeck"
	}
	return filepath.Join(home, ".local", "share", "taskdeck")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Notifications: NotificationsConfig{
			Desktop: true,
			Bell:    true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// WriteDefault writes a commented default configuration file
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	content := `# taskdeck configuration

# Where the database, lock file and log live
# data_dir: ~/.local/share/taskdeck

storage:
  backend: sqlite  # "sqlite", "file" (one JSON document per key) or "memory"
  # db_path: ~/.local/share/taskdeck/taskdeck.db

notifications:
  desktop: true  # notify-send on add, complete and delete
  bell: true     # terminal bell

log:
  level: info  # debug, info, warn, error
`
	return os.WriteFile(path, []byte(content), 0644)
}
