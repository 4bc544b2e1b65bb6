package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elupus/media-stack-core/internal/infrastructure/config"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("MEDIASTACK_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	configPath := writeTestConfig(t, "")
	t.Setenv("MEDIASTACK_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("MEDIASTACK_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("MEDIASTACK_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestWiringEntries verifies the mapping conversion preserves order.
func TestWiringEntries(t *testing.T) {
	mapping := config.MappingList{
		{Device: "media_player.stereo", Sources: map[string]string{"OPT": "media_player.tv"}},
		{Device: "media_player.tv", Sources: map[string]string{"HDMI 3": "media_player.pvr"}},
	}

	entries := wiringEntries(mapping)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Device != "media_player.stereo" || entries[1].Device != "media_player.tv" {
		t.Errorf("order = [%s, %s], want configured order", entries[0].Device, entries[1].Device)
	}
	if entries[1].Sources["HDMI 3"] != "media_player.pvr" {
		t.Errorf("sources = %v", entries[1].Sources)
	}
}

// TestRun_ContextCancelledDuringStartup verifies cancellation during startup.
// Requires no MQTT broker on the configured port; run fails fast either way.
func TestRun_ContextCancelledDuringStartup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	configPath := writeTestConfig(t, dbPath)
	t.Setenv("MEDIASTACK_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Log("run() completed without error (may have cancelled cleanly)")
	} else {
		t.Logf("run() returned error (expected without broker): %v", err)
	}
}

// writeTestConfig writes a minimal valid config pointing at dbPath and
// returns its path. MQTT points at a port nothing listens on.
func writeTestConfig(t *testing.T, dbPath string) string {
	t.Helper()

	configContent := `
player:
  name: "Test Stack"
  mapping:
    media_player.stereo:
      OPT: media_player.pvr

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  broker:
    host: "127.0.0.1"
    port: 19999
    client_id: "test-client"
    tls: false
  qos: 1
  reconnect:
    initial_delay: 1
    max_delay: 5
    max_attempts: 1

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 18080
  timeouts:
    read: 30
    write: 60
    idle: 120

security:
  jwt:
    secret: "test-secret-for-development-only!!"
  admin:
    username: "admin"
    password: "test-password"
`
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}
