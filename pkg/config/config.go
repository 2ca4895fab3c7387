// Package config loads jig settings from jig.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tidescript/js-imports-group/pkg/utils"
)

// DefaultExtensions are the file extensions processed when jig.yml does not
// override them.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts"}

// CacheConfig controls the clean-file cache.
type CacheConfig struct {
	Enabled bool
	Dir     string
}

// Config holds the resolved settings for a run.
type Config struct {
	Extensions []string
	Exclude    []string
	Jobs       int
	Cache      CacheConfig
}

// Load reads jig.yml and environment overrides. When explicit is non-empty
// that exact file must exist; otherwise the config is searched for in
// startDir and the enclosing project root, and a missing file just means
// defaults.
func Load(explicit, startDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("jig")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("extensions", DefaultExtensions)
	v.SetDefault("exclude", []string{})
	v.SetDefault("jobs", 0)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.dir", "")

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", explicit, err)
		}
	} else {
		if startDir == "" {
			startDir = "."
		}
		v.AddConfigPath(startDir)
		if root, ok := utils.FindProjectRoot(startDir); ok {
			v.AddConfigPath(root)
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Extensions: normalizeExtensions(v.GetStringSlice("extensions")),
		Exclude:    v.GetStringSlice("exclude"),
		Jobs:       v.GetInt("jobs"),
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			Dir:     v.GetString("cache.dir"),
		},
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultExtensions
	}
	if cfg.Jobs < 0 {
		cfg.Jobs = 0
	}
	return cfg, nil
}

// normalizeExtensions lowercases entries and guarantees a leading dot, so
// "TSX" and ".tsx" configure the same thing.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
