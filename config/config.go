package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Grid     GridConfig     `mapstructure:"grid"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// GridConfig carries the spatial grid parameters. It is read once at startup
// and handed to grid.NewGrid as a plain value; nothing mutates it afterwards.
type GridConfig struct {
	CellSize float64 `mapstructure:"cell_size"`
	OriginX  float64 `mapstructure:"origin_x"`
	OriginY  float64 `mapstructure:"origin_y"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

var conf *Config

// Init loads the yaml config at path with env overrides,
// e.g. STADIUM_DATABASE_DSN.
func Init(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("grid.cell_size", 5.0)
	v.SetDefault("grid.origin_x", 0.0)
	v.SetDefault("grid.origin_y", 0.0)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("STADIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine, defaults plus env cover everything.
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config file %s", path)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	conf = c
	return nil
}

func GetConfig() *Config {
	return conf
}
