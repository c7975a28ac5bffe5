package config

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Viper implements Config backed by spf13/viper with live reload on file
// change and environment variable overrides (dots become underscores).
type Viper struct {
	v *viper.Viper
}

// NewViper reads the configuration file at path and watches it for changes.
func NewViper(path string) (*Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("configuration file changed", "name", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes builds a Config from an in-memory document. Used by tests
// that need configuration without touching the filesystem.
func NewViperFromBytes(format string, content []byte) (*Viper, error) {
	v := viper.New()
	v.SetConfigType(format)

	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (c *Viper) Close() error { return nil }

func (c *Viper) GetBool(key string) bool { return c.v.GetBool(key) }

func (c *Viper) GetString(key string) string { return c.v.GetString(key) }

func (c *Viper) GetInt(key string) int { return c.v.GetInt(key) }

func (c *Viper) GetInt32(key string) int32 { return c.v.GetInt32(key) }

func (c *Viper) GetInt64(key string) int64 { return c.v.GetInt64(key) }

func (c *Viper) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

func (c *Viper) GetSecond(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Second
}

func (c *Viper) GetMinute(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Minute
}

func (c *Viper) GetHour(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Hour
}

func (c *Viper) GetArray(key string) []string {
	raw := c.v.GetString(key)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
