package announce

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Dataset is the retained announcement payload describing the loaded
// record store, for smart-meter dashboards subscribed to the broker.
type Dataset struct {
	Records     int    `json:"records"`
	RowsSkipped int    `json:"rows_skipped"`
	Unparsable  int    `json:"unparsable"`
	First       string `json:"first,omitempty"`
	Last        string `json:"last,omitempty"`
	LoadedAt    string `json:"loaded_at"`
}

// mqttClient is the subset of the paho client used by the publisher.
type mqttClient interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher announces the loaded dataset on an MQTT broker.
type Publisher struct {
	client mqttClient
	topic  string
	qos    byte
}

// New connects to the configured broker and returns a Publisher.
func New(cfg Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client, topic: cfg.Topic, qos: cfg.QoS}, nil
}

// Announce publishes the dataset summary as a retained message, so late
// subscribers see the latest load.
func (p *Publisher) Announce(ds Dataset) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding announcement: %w", err)
	}
	token := p.client.Publish(p.topic, p.qos, true, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publishing announcement: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
