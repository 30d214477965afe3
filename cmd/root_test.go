// file: cmd/root_test.go
// version: 1.0.0
// guid: 1c7d9e35-6b40-4f82-a3d1-9e5c0b7f4a28

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/sfalken/quickbar/internal/config"
	"github.com/sfalken/quickbar/internal/realtime"
	"github.com/sfalken/quickbar/internal/registry"
	"github.com/sfalken/quickbar/internal/watcher"
)

const testRegistryYAML = `
entities:
  - id: light.kitchen
    name: Kitchen Light
  - id: sensor.oven_temperature
    name: Oven Temperature
`

func writeTestRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entities.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write registry: %v", err)
	}
	return path
}

func withAppConfig(t *testing.T, registryPath string) {
	t.Helper()
	orig := config.AppConfig
	t.Cleanup(func() { config.AppConfig = orig })
	config.AppConfig = config.Config{
		RegistryPath: registryPath,
		DefaultLimit: 25,
	}
	config.AppConfig.Markers.Left = "["
	config.AppConfig.Markers.Right = "]"
}

func TestValidateCommand(t *testing.T) {
	withAppConfig(t, writeTestRegistry(t, testRegistryYAML))

	if err := validateCmd.RunE(validateCmd, nil); err != nil {
		t.Fatalf("validate failed on a good registry: %v", err)
	}
}

func TestValidateCommand_InvalidRegistry(t *testing.T) {
	withAppConfig(t, writeTestRegistry(t, "entities:\n  - id: nodot\n    name: X\n"))

	if err := validateCmd.RunE(validateCmd, nil); err == nil {
		t.Fatal("expected validate to fail on a malformed entity id")
	}
}

func TestValidateCommand_MissingPath(t *testing.T) {
	withAppConfig(t, "")

	if err := validateCmd.RunE(validateCmd, nil); err == nil {
		t.Fatal("expected validate to fail without a registry path")
	}
}

func TestSearchCommand(t *testing.T) {
	withAppConfig(t, writeTestRegistry(t, testRegistryYAML))

	if err := searchCmd.RunE(searchCmd, []string{"ktch"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
}

func TestSearchCommand_NoQueryListsEverything(t *testing.T) {
	withAppConfig(t, writeTestRegistry(t, testRegistryYAML))

	if err := searchCmd.RunE(searchCmd, nil); err != nil {
		t.Fatalf("search without a query failed: %v", err)
	}
}

func TestReloadOnChangeRefreshesRegistry(t *testing.T) {
	path := writeTestRegistry(t, testRegistryYAML)

	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	if reg.Count() != 2 {
		t.Fatalf("expected 2 entities before reload, got %d", reg.Count())
	}

	updated := testRegistryYAML + "  - id: light.porch\n    name: Porch Light\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite registry: %v", err)
	}

	var cb watcher.Callback = reloadOnChange(reg, realtime.NewEventHub())
	cb(path)

	if reg.Count() != 3 {
		t.Fatalf("expected 3 entities after reload, got %d", reg.Count())
	}
}

func TestInitConfigCreatesHistoryDirectory(t *testing.T) {
	tempDir := t.TempDir()
	historyDir := filepath.Join(tempDir, "state", "history.pebble")

	origCfgFile := cfgFile
	origConfig := config.AppConfig
	defer func() {
		cfgFile = origCfgFile
		config.AppConfig = origConfig
		viper.Set("history_path", "")
	}()

	cfgFile = filepath.Join(tempDir, "config.yaml")
	viper.Set("history_path", historyDir)

	initConfig()

	if _, err := os.Stat(filepath.Dir(historyDir)); err != nil {
		t.Fatalf("expected history directory to be created: %v", err)
	}
}
