package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/powermon-protocol/powermon-go/pkg/config"
	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// Publisher errors.
var (
	// ErrConnectionFailed indicates the initial broker connection failed.
	ErrConnectionFailed = errors.New("mqtt connection failed")

	// ErrNotConnected indicates an operation on a disconnected publisher.
	ErrNotConnected = errors.New("mqtt not connected")

	// ErrInvalidTopic indicates an empty or malformed topic.
	ErrInvalidTopic = errors.New("invalid mqtt topic")

	// ErrPublishFailed indicates the broker did not acknowledge a publish.
	ErrPublishFailed = errors.New("mqtt publish failed")
)

// Timeouts for broker operations.
const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 1000 // milliseconds
)

// Publisher is a thin MQTT publishing client for command results.
type Publisher struct {
	client pahomqtt.Client
	qos    byte
	prefix string
}

// buildClientOptions creates paho options from the MQTT config section.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)

	return opts
}

// Connect establishes a connection to the broker described by cfg.
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	client := pahomqtt.NewClient(buildClientOptions(cfg))

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Publisher{
		client: client,
		qos:    byte(cfg.QoS),
		prefix: strings.TrimSuffix(cfg.TopicPrefix, "/"),
	}, nil
}

// Topic builds the full topic for a device and command under the configured
// prefix.
func (p *Publisher) Topic(deviceName, command string) string {
	parts := make([]string, 0, 3)
	if p.prefix != "" {
		parts = append(parts, p.prefix)
	}
	return strings.Join(append(parts, deviceName, command), "/")
}

// PublishResponse publishes one command result as JSON.
func (p *Publisher) PublishResponse(topic string, resp response.Response) error {
	if topic == "" || strings.ContainsAny(topic, "#+") {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishBatch publishes every result of a batch run, one topic per entry.
// Publishing continues past individual failures; the first error is
// returned after the full sweep.
func (p *Publisher) PublishBatch(deviceName string, batch response.Batch) error {
	var firstErr error
	for key, resp := range batch {
		if err := p.PublishResponse(p.Topic(deviceName, key), resp); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close disconnects from the broker, allowing pending operations to drain.
func (p *Publisher) Close() {
	p.client.Disconnect(disconnectQuiesce)
}
