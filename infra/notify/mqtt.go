package notify

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"fieldroute/core/events"
	"fieldroute/core/logger"
)

// Publisher broadcasts completed planning calls to interested
// consumers, such as the dispatcher dashboard.
type Publisher interface {
	PublishPlan(ev events.PlanEvent) error
	Close()
}

// MQTTPublisher implements Publisher over an MQTT broker using Eclipse
// Paho.
type MQTTPublisher struct {
	cli    paho.Client
	topic  string
	qos    byte
	logger logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) paho.Client {
	return paho.NewClient(opts)
}

// NewMQTTPublisher connects to the broker and returns a ready
// publisher.
func NewMQTTPublisher(cfg Config, log logger.Logger) (*MQTTPublisher, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("plan notifier connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("plan notifier connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTPublisher{cli: c, topic: cfg.Topic, qos: cfg.QoS, logger: log}, nil
}

type planMessage struct {
	PlanID    string `json:"plan_id"`
	Operation string `json:"operation"`
	Strategy  string `json:"strategy"`
	Warnings  int    `json:"warnings"`
	Payload   any    `json:"payload,omitempty"`
	Time      string `json:"time"`
}

// PublishPlan sends one JSON message per completed planning call.
func (p *MQTTPublisher) PublishPlan(ev events.PlanEvent) error {
	msg := planMessage{
		PlanID:    ev.PlanID,
		Operation: ev.Operation,
		Strategy:  ev.Strategy,
		Warnings:  ev.Warnings,
		Payload:   ev.Payload,
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	token := p.cli.Publish(p.topic, p.qos, false, b)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.cli.Disconnect(250)
}
