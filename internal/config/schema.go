package config

// Config represents the full taskdeck configuration
type Config struct {
	// Directory holding the database, lock file and log
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	// sqlite, file or memory
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Empty means <data_dir>/taskdeck.db
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}

// NotificationsConfig toggles the notification channels
type NotificationsConfig struct {
	Desktop bool `yaml:"desktop" mapstructure:"desktop"`
	Bell    bool `yaml:"bell" mapstructure:"bell"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)
