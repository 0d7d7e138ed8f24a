package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileConfig_MissingDefaultIsEmpty(t *testing.T) {
	t.Setenv(envConfigPathKey, filepath.Join(t.TempDir(), "absent.toml"))

	c, err := LoadFileConfig("")
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	if c.Vault.Path != "" || c.Vault.Algorithm != "" {
		t.Fatalf("LoadFileConfig on missing file = %+v, want zero value", c.Vault)
	}
}

func TestLoadFileConfig_ExplicitMissingPathErrors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("LoadFileConfig with explicit missing path succeeded, want error")
	}
}

func TestLoadFileConfig_ParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "briefcase.toml")

	contents := "[vault]\npath = \"/vaults/main.briefcase\"\nalgorithm = \"bz2\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	if c.Vault.Path != "/vaults/main.briefcase" || c.Vault.Algorithm != "bz2" {
		t.Fatalf("LoadFileConfig = %+v, want path/algorithm from file", c.Vault)
	}
}
