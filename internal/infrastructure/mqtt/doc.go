// Package mqtt provides MQTT client connectivity for Media Stack Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Media Stack uses MQTT as the device bus connecting the core to the
// media device adapters (one per physical device). The broker decouples
// the composite player from device-specific implementations.
//
//	Media Stack Core ↔ MQTT Broker ↔ Device Adapters
//
// Device adapters publish retained state snapshots on
// mediastack/device/{id}/state and execute commands received on
// mediastack/device/{id}/command, acknowledging each on a per-request
// result topic.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all device state updates
//	err = client.Subscribe(mqtt.Topics{}.AllDeviceStates(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish command
//	topic := mqtt.Topics{}.DeviceCommand("media_player.tv")
//	client.Publish(topic, []byte(`{"command":"turn_on"}`), 1, false)
package mqtt
