package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elupus/media-stack-core/internal/device"
	"github.com/elupus/media-stack-core/internal/infrastructure/mqtt"
)

// Client is the slice of the MQTT client the bus needs. Satisfied by
// *mqtt.Client; tests substitute a loopback fake.
type Client interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Logger defines the logging interface used by the Bus.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Deps holds the dependencies required by the Bus.
type Deps struct {
	// Client is the connected MQTT client.
	Client Client

	// Registry receives decoded device snapshots.
	Registry *device.Registry

	// QoS is the quality-of-service level for bus traffic.
	QoS byte

	// CommandTimeout bounds the wait for a device acknowledgement.
	CommandTimeout time.Duration

	// Logger is optional.
	Logger Logger
}

// Bus adapts the MQTT device topics to the device interfaces the composite
// player consumes.
//
// Inbound: retained state snapshots on mediastack/device/+/state are decoded
// into the registry (implementing device.StateReader through it). Outbound:
// Call and Browse publish uuid-correlated requests and block until the
// matching acknowledgement arrives on the per-request result topic, the
// timeout fires, or the context is cancelled.
type Bus struct {
	client   Client
	registry *device.Registry
	qos      byte
	timeout  time.Duration
	logger   Logger

	mu      sync.Mutex
	pending map[string]chan []byte // keyed by result topic
}

// New creates a Bus from its dependencies.
func New(deps Deps) (*Bus, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("mqtt client is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("device registry is required")
	}

	timeout := deps.CommandTimeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Bus{
		client:   deps.Client,
		registry: deps.Registry,
		qos:      deps.QoS,
		timeout:  timeout,
		logger:   logger,
		pending:  make(map[string]chan []byte),
	}, nil
}

// defaultCommandTimeout applies when configuration does not set one.
const defaultCommandTimeout = 10 * time.Second

// Start subscribes to the device state topics. Retained snapshots flow into
// the registry immediately; an empty payload (retained delete) removes the
// device.
func (b *Bus) Start() error {
	topic := mqtt.Topics{}.AllDeviceStates()
	if err := b.client.Subscribe(topic, b.qos, b.handleState); err != nil {
		return fmt.Errorf("subscribing to device states: %w", err)
	}
	b.logger.Info("device bus started", "topic", topic)
	return nil
}

// handleState decodes one state message into the registry.
func (b *Bus) handleState(topic string, payload []byte) error {
	deviceID, ok := mqtt.DeviceIDFromStateTopic(topic)
	if !ok {
		return fmt.Errorf("unexpected state topic %q", topic)
	}

	if len(payload) == 0 {
		b.registry.Remove(deviceID)
		b.logger.Debug("device removed", "device", deviceID)
		return nil
	}

	snap, err := decodeSnapshot(deviceID, payload)
	if err != nil {
		return err
	}
	b.registry.Put(snap)
	return nil
}

// Call publishes a command to a device and waits for its acknowledgement.
// It implements device.Commander.
func (b *Bus) Call(ctx context.Context, deviceID string, cmd device.Command, params device.Params) error {
	requestID := uuid.NewString()
	topics := mqtt.Topics{}

	payload, err := json.Marshal(CommandPayload{
		RequestID: requestID,
		Command:   cmd,
		Params:    params,
	})
	if err != nil {
		return fmt.Errorf("encoding command %s: %w", cmd, err)
	}

	resultTopic := topics.DeviceResult(deviceID, requestID)
	raw, err := b.request(ctx, resultTopic, topics.DeviceCommand(deviceID), payload)
	if err != nil {
		return fmt.Errorf("command %s to %s: %w", cmd, deviceID, err)
	}

	var result ResultPayload
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decoding result for %s: %w", deviceID, err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s: %s", device.ErrCommandFailed, deviceID, result.Error)
	}
	return nil
}

// Browse publishes a browse request to a device and waits for the response.
// It implements device.Browser.
func (b *Bus) Browse(ctx context.Context, deviceID, contentType, contentID string) (*device.BrowseNode, error) {
	requestID := uuid.NewString()
	topics := mqtt.Topics{}

	payload, err := json.Marshal(BrowseRequestPayload{
		RequestID:   requestID,
		ContentType: contentType,
		ContentID:   contentID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding browse request: %w", err)
	}

	resultTopic := topics.DeviceBrowseResult(deviceID, requestID)
	raw, err := b.request(ctx, resultTopic, topics.DeviceBrowse(deviceID), payload)
	if err != nil {
		return nil, fmt.Errorf("browse request to %s: %w", deviceID, err)
	}

	var response BrowseResponsePayload
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("decoding browse response for %s: %w", deviceID, err)
	}
	if !response.Success || response.Item == nil {
		return nil, fmt.Errorf("%w: %s: %s", device.ErrBrowseUnsupported, deviceID, response.Error)
	}

	node := toBrowseNode(*response.Item)
	return &node, nil
}

// request publishes a payload and blocks until a message arrives on the
// per-request result topic, the command timeout fires, or ctx is done.
func (b *Bus) request(ctx context.Context, resultTopic, requestTopic string, payload []byte) ([]byte, error) {
	ch := make(chan []byte, 1)

	b.mu.Lock()
	b.pending[resultTopic] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, resultTopic)
		b.mu.Unlock()
		if err := b.client.Unsubscribe(resultTopic); err != nil {
			b.logger.Debug("unsubscribe failed", "topic", resultTopic, "error", err)
		}
	}()

	// Subscribe before publishing so a fast acknowledgement is not lost.
	if err := b.client.Subscribe(resultTopic, b.qos, b.handleResult); err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", resultTopic, err)
	}

	if err := b.client.Publish(requestTopic, payload, b.qos, false); err != nil {
		return nil, err
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case raw := <-ch:
		return raw, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrAckTimeout, b.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleResult routes an acknowledgement to the goroutine waiting on its
// result topic. Late acknowledgements (after timeout) are dropped.
func (b *Bus) handleResult(topic string, payload []byte) error {
	b.mu.Lock()
	ch, ok := b.pending[topic]
	b.mu.Unlock()
	if !ok {
		b.logger.Debug("dropping late acknowledgement", "topic", topic)
		return nil
	}

	select {
	case ch <- payload:
	default:
	}
	return nil
}

// PublishPlayerState publishes the composite player projection as retained
// JSON for external consumers of the bus.
func (b *Bus) PublishPlayerState(projection any) error {
	payload, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("encoding player state: %w", err)
	}
	topic := mqtt.Topics{}.PlayerState()
	if err := b.client.Publish(topic, payload, b.qos, true); err != nil {
		return fmt.Errorf("publishing player state: %w", err)
	}
	return nil
}
