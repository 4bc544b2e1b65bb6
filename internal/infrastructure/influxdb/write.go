package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePlayerState records one composite player state observation.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Tags carry the routing identity (low cardinality), fields the values.
//
// Parameters:
//   - status: composite status ("playing", "standby", ...)
//   - source: qualified active source label, empty when idle
//   - sourceDevice: id of the device producing output, empty when idle
//   - sinkDevice: id of the selected output sink
//   - volume: sink volume level, nil when unknown
func (c *Client) WritePlayerState(status, source, sourceDevice, sinkDevice string, volume *float64) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"status": status,
		"active": status != "standby" && status != "off",
	}
	if source != "" {
		fields["source"] = source
	}
	if volume != nil {
		fields["volume"] = *volume
	}

	tags := map[string]string{
		"sink_device": sinkDevice,
	}
	if sourceDevice != "" {
		tags["source_device"] = sourceDevice
	}

	point := write.NewPoint("player_state", tags, fields, time.Now())
	c.writes.WritePoint(point)
}

// WriteCycleEvent records one wiring cycle break detected during
// resolution. A recurring series here points at a miswired source map.
func (c *Client) WriteCycleEvent(deviceID, source, target string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"wiring_cycle",
		map[string]string{
			"device_id": deviceID,
			"target":    target,
		},
		map[string]interface{}{
			"source": source,
			"count":  1,
		},
		time.Now(),
	)

	c.writes.WritePoint(point)
}

// WriteDeviceStatus records one device's reported status as telemetry.
func (c *Client) WriteDeviceStatus(deviceID, status string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"status": status,
		},
		time.Now(),
	)

	c.writes.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writes.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writes.WritePoint(point)
}
