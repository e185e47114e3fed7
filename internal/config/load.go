package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "ATCI_CONFIG_PATH"

// Path returns $ATCI_CONFIG_PATH or <user config dir>/atci/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "atci", "config.yaml"), nil
}

// Load reads the file at path (YAML, or TOML when the extension is .toml),
// rejects unknown keys and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Code: ErrCodeNotFound, Path: path, Err: err}
		}
		return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	cfg := &Config{}
	if isTOML(path) {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, &Error{Code: ErrCodeUnknownField, Field: undecoded[0].String(), Path: path}
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			code := ErrCodeInvalid
			if strings.Contains(err.Error(), "not found in type") {
				code = ErrCodeUnknownField
			}
			return nil, &Error{Code: code, Path: path, Err: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path in the format chosen by its extension.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
