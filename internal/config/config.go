package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "studyplan"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "studyplan.db"
	DefaultLogName        = "studyplan.log"
	DefaultStorageKey     = "studyTasks"

	DefaultReminderInterval = 30 * time.Minute
	DefaultNotificationTTL  = 3 * time.Second
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	PriorityUp     string `toml:"priority_up"`
	PriorityDown   string `toml:"priority_down"`
	DueForward     string `toml:"due_forward"`
	DueBack        string `toml:"due_back"`
	FilterPriority string `toml:"filter_priority"`
	FilterStatus   string `toml:"filter_status"`
}

type Config struct {
	DataPath              string `toml:"data_path"`
	StorageBackend        string `toml:"storage_backend"`
	StorageKey            string `toml:"storage_key"`
	LogPath               string `toml:"log_path"`
	LogLevel              string `toml:"log_level"`
	ReminderInterval      string `toml:"reminder_interval"`
	NotificationTTL       string `toml:"notification_ttl"`
	DefaultPriorityFilter string `toml:"default_priority_filter"`
	DefaultStatusFilter   string `toml:"default_status_filter"`
	Keys                  Keymap `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/studyplan/config.toml, falling
// back to ~/.config and finally the working directory.
func ResolveConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// stateDir is where the database and log live by default.
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", AppName)
	}
	return "."
}

// LoadOrCreate reads the config at path, writing defaults there first if the
// file does not exist. Empty values are filled from the defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	loaded.applyDefaults(cfg)
	if err := loaded.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return loaded, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	dir := stateDir()
	return Config{
		DataPath:              filepath.Join(dir, DefaultDBName),
		StorageBackend:        "sqlite",
		StorageKey:            DefaultStorageKey,
		LogPath:               filepath.Join(dir, DefaultLogName),
		LogLevel:              "info",
		ReminderInterval:      DefaultReminderInterval.String(),
		NotificationTTL:       DefaultNotificationTTL.String(),
		DefaultPriorityFilter: "all",
		DefaultStatusFilter:   "all",
		Keys:                  DefaultKeymap(),
	}
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Add:            "a",
		Up:             "k",
		Down:           "j",
		Toggle:         " ",
		Delete:         "d",
		Detail:         "enter",
		Confirm:        "enter",
		Cancel:         "esc",
		Edit:           "e",
		PriorityUp:     "+",
		PriorityDown:   "-",
		DueForward:     "]",
		DueBack:        "[",
		FilterPriority: "p",
		FilterStatus:   "s",
	}
}

func (c *Config) applyDefaults(d Config) {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.DataPath, d.DataPath)
	fill(&c.StorageBackend, d.StorageBackend)
	fill(&c.StorageKey, d.StorageKey)
	fill(&c.LogPath, d.LogPath)
	fill(&c.LogLevel, d.LogLevel)
	fill(&c.ReminderInterval, d.ReminderInterval)
	fill(&c.NotificationTTL, d.NotificationTTL)
	fill(&c.DefaultPriorityFilter, d.DefaultPriorityFilter)
	fill(&c.DefaultStatusFilter, d.DefaultStatusFilter)

	k, dk := &c.Keys, d.Keys
	fill(&k.Quit, dk.Quit)
	fill(&k.Add, dk.Add)
	fill(&k.Up, dk.Up)
	fill(&k.Down, dk.Down)
	fill(&k.Toggle, dk.Toggle)
	fill(&k.Delete, dk.Delete)
	fill(&k.Detail, dk.Detail)
	fill(&k.Confirm, dk.Confirm)
	fill(&k.Cancel, dk.Cancel)
	fill(&k.Edit, dk.Edit)
	fill(&k.PriorityUp, dk.PriorityUp)
	fill(&k.PriorityDown, dk.PriorityDown)
	fill(&k.DueForward, dk.DueForward)
	fill(&k.DueBack, dk.DueBack)
	fill(&k.FilterPriority, dk.FilterPriority)
	fill(&k.FilterStatus, dk.FilterStatus)
}

// Validate checks the values that are parsed later on.
func (c Config) Validate() error {
	if _, err := c.ReminderEvery(); err != nil {
		return err
	}
	if _, err := c.NotificationLifetime(); err != nil {
		return err
	}
	switch c.StorageBackend {
	case "sqlite", "json":
	default:
		return fmt.Errorf("storage_backend %q: want sqlite or json", c.StorageBackend)
	}
	return nil
}

func (c Config) ReminderEvery() (time.Duration, error) {
	return positiveDuration("reminder_interval", c.ReminderInterval)
}

func (c Config) NotificationLifetime() (time.Duration, error) {
	return positiveDuration("notification_ttl", c.NotificationTTL)
}

func positiveDuration(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, v)
	}
	return d, nil
}
