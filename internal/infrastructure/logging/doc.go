// Package logging wraps log/slog with the conventions every Media Stack
// component shares: a configurable level/format/destination, and default
// service and version attributes on every record.
//
// Configuration comes from the logging block of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Components take a *Logger and derive a child with their name:
//
//	busLog := logger.With("component", "bus")
//	busLog.Info("device snapshot applied", "device_id", id)
//
// Never log credentials or tokens. The JWT secret, MQTT password and
// InfluxDB token must not appear in any record, truncated or otherwise.
package logging
