package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the Media Stack MQTT bus.
//
// Device adapters publish retained state snapshots and consume commands on
// per-device topics: mediastack/device/{device_id}/...
const (
	// TopicPrefix is the base for all Media Stack topics.
	TopicPrefix = "mediastack"

	// TopicPrefixDevice is the base for per-device topics.
	TopicPrefixDevice = "mediastack/device"

	// TopicPrefixPlayer is the base for composite player topics.
	TopicPrefixPlayer = "mediastack/player"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "mediastack/system"
)

// Topics provides builders for Media Stack MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("media_player.tv")
//	// Returns: "mediastack/device/media_player.tv/state"
type Topics struct{}

// DeviceState returns the retained state topic for a device.
//
// Example: mediastack/device/media_player.tv/state
func (Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/%s/state", TopicPrefixDevice, deviceID)
}

// DeviceCommand returns the command topic for a device.
//
// Example: mediastack/device/media_player.tv/command
func (Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/%s/command", TopicPrefixDevice, deviceID)
}

// DeviceResult returns the command acknowledgement topic for one request.
//
// Example: mediastack/device/media_player.tv/result/req-abc123
func (Topics) DeviceResult(deviceID, requestID string) string {
	return fmt.Sprintf("%s/%s/result/%s", TopicPrefixDevice, deviceID, requestID)
}

// DeviceBrowse returns the browse request topic for a device.
//
// Example: mediastack/device/media_player.tv/browse
func (Topics) DeviceBrowse(deviceID string) string {
	return fmt.Sprintf("%s/%s/browse", TopicPrefixDevice, deviceID)
}

// DeviceBrowseResult returns the browse response topic for one request.
//
// Example: mediastack/device/media_player.tv/browse/result/req-abc123
func (Topics) DeviceBrowseResult(deviceID, requestID string) string {
	return fmt.Sprintf("%s/%s/browse/result/%s", TopicPrefixDevice, deviceID, requestID)
}

// PlayerState returns the retained composite player state topic.
//
// Example: mediastack/player/state
func (Topics) PlayerState() string {
	return fmt.Sprintf("%s/state", TopicPrefixPlayer)
}

// SystemStatus returns the system status topic (online/offline, LWT).
//
// Example: mediastack/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceStates returns a pattern matching every device state topic.
//
// Pattern: mediastack/device/+/state
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/+/state", TopicPrefixDevice)
}

// DeviceResults returns a pattern matching every result for a device.
//
// Pattern: mediastack/device/media_player.tv/result/+
func (Topics) DeviceResults(deviceID string) string {
	return fmt.Sprintf("%s/%s/result/+", TopicPrefixDevice, deviceID)
}

// DeviceBrowseResults returns a pattern matching every browse response for
// a device.
//
// Pattern: mediastack/device/media_player.tv/browse/result/+
func (Topics) DeviceBrowseResults(deviceID string) string {
	return fmt.Sprintf("%s/%s/browse/result/+", TopicPrefixDevice, deviceID)
}

// AllTopics returns a pattern matching all Media Stack topics.
// Use with caution, this receives all traffic.
//
// Pattern: mediastack/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

// DeviceIDFromStateTopic extracts the device id from a state topic as
// delivered by a wildcard subscription. Returns false for topics that do
// not match the mediastack/device/{id}/state shape.
func DeviceIDFromStateTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, TopicPrefixDevice+"/")
	if !ok {
		return "", false
	}
	deviceID, ok := strings.CutSuffix(rest, "/state")
	if !ok || deviceID == "" || strings.ContainsRune(deviceID, '/') {
		return "", false
	}
	return deviceID, true
}

// RequestIDFromTopic extracts the trailing request id from a result or
// browse-result topic. Returns false when the topic has no request segment.
func RequestIDFromTopic(topic string) (string, bool) {
	idx := strings.LastIndexByte(topic, '/')
	if idx < 0 || idx == len(topic)-1 {
		return "", false
	}
	return topic[idx+1:], true
}
