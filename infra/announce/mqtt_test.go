package announce

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
	pubErr   error
}

func (c *fakeClient) Connect() mqtt.Token  { return &fakeToken{} }
func (c *fakeClient) Disconnect(uint)      {}
func (c *fakeClient) IsConnected() bool    { return true }
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.retained = retained
	c.payload = payload.([]byte)
	return &fakeToken{err: c.pubErr}
}

func TestAnnouncePublishesRetained(t *testing.T) {
	client := &fakeClient{}
	p := &Publisher{client: client, topic: "meterd/dataset", qos: 1}

	ds := Dataset{Records: 10, RowsSkipped: 1, Unparsable: 2, LoadedAt: "2024-01-01T00:00:00Z"}
	require.NoError(t, p.Announce(ds))

	assert.Equal(t, "meterd/dataset", client.topic)
	assert.Equal(t, byte(1), client.qos)
	assert.True(t, client.retained)

	var got Dataset
	require.NoError(t, json.Unmarshal(client.payload, &got))
	assert.Equal(t, ds, got)
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, "meterd", cfg.ClientID)
	assert.Equal(t, "meterd/dataset", cfg.Topic)
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = true
	assert.Error(t, cfg.Validate())
	cfg.Broker = "tcp://localhost:1883"
	assert.NoError(t, cfg.Validate())
}
