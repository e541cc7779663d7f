package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediarenamer/internal/config"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRequiresAPIKeyForTVDB(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Lookup.Provider = config.ProviderTVDB
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "tvdb.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestConfigValidateReportsDecodeErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[scan\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected decode error from config validate")
	}

	// Other commands fall back to the defaults.
	out, stderr, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show with invalid file: %v", err)
	}
	requireContains(t, stderr, "using default configuration")
	requireContains(t, out, "default_action")
}

func TestConfigValidateWarnsAboutInvalidPatterns(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Parser.TVPatterns = append([]string{"(?<name>.*"}, env.cfg.Parser.TVPatterns...)
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "invalid tv pattern")
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.TVDB.APIKey = "secret-key"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "secret-key") {
		t.Fatalf("api key leaked in output: %s", out)
	}
	requireContains(t, out, "[scan]")
}

func TestFirstRunCreatesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "fresh", "config.toml")

	_, stderr, err := runCLI(t, []string{"cache", "list"}, missing)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, stderr, "Created default configuration")
	if _, err := os.Stat(missing); err != nil {
		t.Fatalf("expected config created at %s: %v", missing, err)
	}
}
