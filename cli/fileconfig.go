package cli

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const envConfigPathKey = "BRIEFCASE_CONFIG_PATH"

const defaultConfigName = ".briefcase.toml"

// FileConfig is the on-disk TOML configuration, independent of and
// overridable by command-line flags.
//
//nolint:tagalign
type FileConfig struct {
	Vault VaultFileConfig `toml:"vault" json:"vault"`

	path string
}

// VaultFileConfig holds vault-related defaults.
//
//nolint:tagalign,tagliatelle
type VaultFileConfig struct {
	Path      string `toml:"path,commented" comment:"Vault file path (default: '~/.briefcase' if not set)" json:"path,omitempty"`
	Algorithm string `toml:"algorithm,commented" comment:"Default compression algorithm: 'zlib' or 'bz2'" json:"algorithm,omitempty"`
}

func newFileConfig() *FileConfig {
	return &FileConfig{}
}

// LoadFileConfig loads the config from the given or default path. A
// missing file at the default location is not an error: it resolves to
// an empty config.
func LoadFileConfig(path string) (*FileConfig, error) {
	defaultPath, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}

	configPath := cmp.Or(path, defaultPath)

	c, err := parseFileConfig(configPath)
	if err != nil {
		if len(path) == 0 && errors.Is(err, fs.ErrNotExist) {
			return newFileConfig(), nil
		}

		return nil, err
	}

	c.path = configPath

	return c, nil
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: user home dir: %w", err)
	}

	path := filepath.Join(home, defaultConfigName)
	if p, ok := os.LookupEnv(envConfigPathKey); ok {
		path = p
	}

	return path, nil
}

func parseFileConfig(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: stat file: %w", err)
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	c := newFileConfig()
	if err := toml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: parse file: %w", err)
	}

	return c, nil
}
