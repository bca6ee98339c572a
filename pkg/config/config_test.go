package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name  string   `yaml:"name"`
	Port  int      `yaml:"port"`
	Items []string `yaml:"items"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("WUNJO_TEST_NAME", "vault")
	p := writeFile(t, "name: ${WUNJO_TEST_NAME}\nport: 9090\nitems: [a, b]\n")

	cfg := &testConfig{}
	if err := Load(p, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "vault" || cfg.Port != 9090 || len(cfg.Items) != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	err := Load(p, &testConfig{})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &testConfig{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	p := writeFile(t, "port: [\n")
	if err := Load(p, &testConfig{Port: 1}); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadIfExists(t *testing.T) {
	cfg := &testConfig{Name: "default", Port: 8080}
	found, err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), cfg)
	if err != nil || found {
		t.Fatalf("missing file: found = %v, err = %v", found, err)
	}
	if cfg.Name != "default" || cfg.Port != 8080 {
		t.Errorf("defaults changed: %+v", cfg)
	}

	// Keys absent from the file keep their defaults.
	p := writeFile(t, "name: custom\n")
	found, err = LoadIfExists(p, cfg)
	if err != nil || !found {
		t.Fatalf("existing file: found = %v, err = %v", found, err)
	}
	if cfg.Name != "custom" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &testConfig{}); err == nil {
		t.Error("invalid defaults should fail validation")
	}
}
