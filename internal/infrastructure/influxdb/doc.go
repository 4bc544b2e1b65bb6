// Package influxdb provides InfluxDB connectivity for Media Stack Core.
//
// It wraps the official influxdb-client-go v2 library with Media
// Stack-specific patterns for connection management, metric writing, and
// health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Composite player state transitions (status, source, volume)
//   - Wiring cycle diagnostics
//   - Per-device status telemetry
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "mediastack",
//	    Bucket: "metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WritePlayerState("playing", "pvr: BBC", "media_player.pvr", "media_player.stereo", nil)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a
// callback. Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size,
// flush_interval). This reduces network overhead for chatty device trees.
package influxdb
