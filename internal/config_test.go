package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestViewConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ViewConfig
		wantErr bool
	}{
		{"defaults", NewDefaultConfig().View, false},
		{"empty", ViewConfig{}, false},
		{"nested folder", ViewConfig{ExcludeFolders: []string{"archive/2023"}}, false},
		{"absolute folder", ViewConfig{ExcludeFolders: []string{"/etc"}}, true},
		{"escaping folder", ViewConfig{ExcludeFolders: []string{"../other"}}, true},
		{"blank hide key", ViewConfig{HideKeys: []string{""}}, true},
		{"blank column", ViewConfig{Columns: []string{"status", ""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestViewConfig_Defaults(t *testing.T) {
	cfg := ViewConfig{HideKeys: []string{"secret"}, Columns: []string{"status"}, ExcludeCurrent: true}
	d := cfg.Defaults()
	if d.ExcludeFolders != nil || d.HideKeys[0] != "secret" || d.Columns[0] != "status" || !d.ExcludeCurrent {
		t.Errorf("defaults = %+v", d)
	}
}

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.SQLite.Path != "./wunjo.db" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
}
