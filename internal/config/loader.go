// Package config provides configuration loading for projectd.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "PROJECTD_"

	// ConfigPathEnv names the environment variable holding the YAML file path.
	ConfigPathEnv = EnvPrefix + "CONFIG"
)

// Load loads configuration from an optional YAML file, then overrides it with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (PROJECTD_SERVER_PORT, PROJECTD_EVENTS_NATS_URL, etc.)
//  2. YAML config file
//  3. Default()
//
// When configPath is empty, the PROJECTD_CONFIG environment variable is
// consulted. A missing file is not an error; defaults and environment still
// apply.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the rest is split on the first underscore:
//
//	PROJECTD_SERVER_PORT             -> server.port
//	PROJECTD_SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout
//	PROJECTD_STORE_REJECT_DUPLICATES -> store.reject_duplicates
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = os.Getenv(ConfigPathEnv)
	}

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal on top of defaults so unset keys keep their default values.
	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envKey maps PROJECTD_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// readConfigFile returns the file content, or nil if the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// Stat the open descriptor so the size check applies to what is read.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
