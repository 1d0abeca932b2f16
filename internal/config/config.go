package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	DefaultAPIURL         = "http://localhost:3001"
	DefaultServerAddr     = ":3001"

	EnvConfigPath = "TODO_CONFIG"
	EnvAPIURL     = "TODO_API_URL"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Edit    string `toml:"edit"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Focus   string `toml:"focus"`
}

type Server struct {
	Addr   string `toml:"addr"`
	DBPath string `toml:"db_path"`
}

type Config struct {
	APIURL  string `toml:"api_url"`
	LogFile string `toml:"log_file"`
	Server  Server `toml:"server"`
	Keys    Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: TODO_CONFIG, then
// $XDG_CONFIG_HOME/todo, then ~/.config/todo, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "todo", DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "todo", DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Relative paths in the file are resolved against its directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
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
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

// ApplyEnv overrides file values from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
}

func (c *Config) fillDefaults(dir string) {
	def := defaultConfig(dir)
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = def.APIURL
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	} else if !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(dir, c.LogFile)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = def.Server.DBPath
	} else if !strings.HasPrefix(c.Server.DBPath, "file:") && !filepath.IsAbs(c.Server.DBPath) {
		c.Server.DBPath = filepath.Join(dir, c.Server.DBPath)
	}

	orDefault(&c.Keys.Quit, def.Keys.Quit)
	orDefault(&c.Keys.Add, def.Keys.Add)
	orDefault(&c.Keys.Up, def.Keys.Up)
	orDefault(&c.Keys.Down, def.Keys.Down)
	orDefault(&c.Keys.Toggle, def.Keys.Toggle)
	orDefault(&c.Keys.Delete, def.Keys.Delete)
	orDefault(&c.Keys.Edit, def.Keys.Edit)
	orDefault(&c.Keys.Confirm, def.Keys.Confirm)
	orDefault(&c.Keys.Cancel, def.Keys.Cancel)
	orDefault(&c.Keys.Focus, def.Keys.Focus)
}

func orDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
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

// Default returns the built-in configuration with paths relative to the
// working directory.
func Default() Config {
	return defaultConfig(".")
}

func defaultConfig(dir string) Config {
	return Config{
		APIURL:  DefaultAPIURL,
		LogFile: filepath.Join(dir, DefaultLogName),
		Server: Server{
			Addr:   DefaultServerAddr,
			DBPath: filepath.Join(dir, DefaultDBName),
		},
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Edit:    "e",
			Confirm: "enter",
			Cancel:  "esc",
			Focus:   "tab",
		},
	}
}
