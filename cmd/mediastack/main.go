// Media Stack Core - Composite Media Player Daemon
//
// This is the main entry point for the Media Stack Core application.
// It virtualises a tree of wired media devices (a stereo fed by a TV fed
// by set-top boxes and streamers) behind a single composite player:
//   - Device snapshots arrive over MQTT and feed the in-memory registry
//   - The stack package resolves the wiring into one projected player
//   - REST + WebSocket APIs expose state and accept commands
//   - Transitions are recorded to SQLite and optionally to InfluxDB
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/elupus/media-stack-core/internal/api"
	"github.com/elupus/media-stack-core/internal/auth"
	"github.com/elupus/media-stack-core/internal/bus"
	"github.com/elupus/media-stack-core/internal/device"
	"github.com/elupus/media-stack-core/internal/history"
	"github.com/elupus/media-stack-core/internal/infrastructure/config"
	"github.com/elupus/media-stack-core/internal/infrastructure/database"
	"github.com/elupus/media-stack-core/internal/infrastructure/influxdb"
	"github.com/elupus/media-stack-core/internal/infrastructure/logging"
	"github.com/elupus/media-stack-core/internal/infrastructure/mqtt"
	"github.com/elupus/media-stack-core/internal/stack"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Media Stack Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// History repository owns its schema
	historyRepo, err := history.NewSQLiteRepository(db.DB)
	if err != nil {
		return fmt.Errorf("initialising history repository: %w", err)
	}
	recorder := history.NewRecorder(historyRepo)

	// Device registry holds the latest snapshot of every wired device
	registry := device.NewRegistry()
	registry.SetLogger(log)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetLogger(log.With("component", "mqtt"))
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Device bus: snapshots in, commands and browse requests out
	deviceBus, err := bus.New(bus.Deps{
		Client:         mqttClient,
		Registry:       registry,
		QoS:            byte(cfg.MQTT.QoS),
		CommandTimeout: cfg.GetCommandTimeout(),
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("creating device bus: %w", err)
	}

	// Composite player over the configured wiring
	wiring, err := stack.NewWiringMap(wiringEntries(cfg.Player.Mapping))
	if err != nil {
		return fmt.Errorf("building wiring map: %w", err)
	}
	player, err := stack.New(stack.Deps{
		Name:      cfg.Player.Name,
		Wiring:    wiring,
		States:    registry,
		Commander: deviceBus,
		Browser:   deviceBus,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("creating composite player: %w", err)
	}
	log.Info("composite player created",
		"name", cfg.Player.Name,
		"devices", len(wiring.Devices()),
	)

	// API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Auth:     auth.NewService(cfg.Security),
		Player:   player,
		Registry: registry,
		History:  historyRepo,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	hub := apiServer.Hub()

	// Projection updates fan out to the WebSocket hub, the history
	// recorder, the retained MQTT state topic, and InfluxDB.
	player.OnUpdate(func(proj stack.Projection) {
		hub.BroadcastPlayerState(proj)

		if err := recorder.Observe(ctx, proj); err != nil {
			log.Error("recording transition failed", "error", err)
		}
		if err := deviceBus.PublishPlayerState(proj); err != nil {
			log.Warn("publishing player state failed", "error", err)
		}
		if influxClient != nil {
			influxClient.WritePlayerState(string(proj.Status), proj.Source,
				proj.SourceDevice, proj.SinkDevice, proj.Volume)
		}
	})

	player.OnCycle(func(deviceID, source, target string) {
		log.Warn("wiring cycle broken during resolution",
			"device_id", deviceID,
			"source", source,
			"target", target,
		)
		if err := recorder.ObserveCycle(ctx, deviceID, source, target); err != nil {
			log.Error("recording cycle event failed", "error", err)
		}
		if influxClient != nil {
			influxClient.WriteCycleEvent(deviceID, source, target)
		}
	})

	// Every registry change re-resolves the composite projection. Hooks
	// are registered first so no early retained snapshot is missed.
	unsubscribe := registry.Subscribe(nil, func(string) {
		player.Refresh()
	})
	defer unsubscribe()

	// Start consuming retained device state
	if err := deviceBus.Start(); err != nil {
		return fmt.Errorf("starting device bus: %w", err)
	}
	player.Refresh()

	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT
	// 4. Database

	log.Info("Media Stack Core stopped")
	return nil
}

// wiringEntries converts the ordered config mapping into wiring entries.
func wiringEntries(mapping config.MappingList) []stack.WiringEntry {
	entries := make([]stack.WiringEntry, 0, len(mapping))
	for _, m := range mapping {
		entries = append(entries, stack.WiringEntry{
			Device:  m.Device,
			Sources: m.Sources,
		})
	}
	return entries
}

// getConfigPath returns the configuration file path.
// Uses MEDIASTACK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MEDIASTACK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
