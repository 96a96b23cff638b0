package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Connection management constants.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second

	maxQoS = 2

	// maxPayloadSize bounds one publish; stats and state snapshots
	// are far smaller, junk should not reach the broker.
	maxPayloadSize = 1 << 20
)

// Config contains the broker connection settings.
type Config struct {
	Host     string
	Port     int
	ClientID string
	Username string
	Password string
	QoS      int
}

// Client wraps paho.mqtt.golang for the event bridge: connection
// management with auto-reconnect, a Last Will for offline detection
// and bounded publishes.
//
// All methods are safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    Config

	connected bool
	mu        sync.RWMutex
}

// Connect establishes the broker connection, configures the Last
// Will on the system status topic and publishes "online".
func Connect(cfg Config) (*Client, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(time.Minute).
		SetWill(TopicSystemStatus, `{"status":"offline"}`, byte(cfg.QoS), true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := &Client{cfg: cfg}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.setConnected(true)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, _ error) {
		c.setConnected(false)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	c.setConnected(true)

	if err := c.Publish(TopicSystemStatus, []byte(`{"status":"online"}`), byte(cfg.QoS), true); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// IsConnected reports the current broker connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Publish sends one message. Retained messages replace the broker's
// stored value for the topic; use them for state, not events.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		qos = maxQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishEvent publishes an event payload on the event topic with the
// configured QoS.
func (c *Client) PublishEvent(eventType string, payload []byte) error {
	return c.Publish(Topics{}.Event(eventType), payload, byte(c.cfg.QoS), false)
}

// PublishDeviceState publishes a retained device state snapshot.
func (c *Client) PublishDeviceState(serial string, payload []byte) error {
	return c.Publish(Topics{}.DeviceState(serial), payload, byte(c.cfg.QoS), true)
}

// Close publishes the offline status and disconnects.
func (c *Client) Close() {
	if c.IsConnected() {
		_ = c.Publish(TopicSystemStatus, []byte(`{"status":"offline"}`), byte(c.cfg.QoS), true)
	}
	c.client.Disconnect(250)
	c.setConnected(false)
}
