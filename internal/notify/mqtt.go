// Package notify publishes vessel maintenance status to an MQTT broker so
// dashboards and on-board displays can subscribe to it.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vessel-ops/internal/models"
)

const (
	publishQoS     = 1
	publishTimeout = 5 * time.Second
	connectTimeout = 10 * time.Second
)

var ErrNotConnected = errors.New("mqtt client not connected")

// StatusMessage is the retained payload published per vessel.
type StatusMessage struct {
	VesselID      string          `json:"vessel_id"`
	VesselName    string          `json:"vessel_name"`
	OverallStatus models.Status   `json:"overall_status"`
	Systems       []SystemMessage `json:"systems"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// SystemMessage is the per-system part of a StatusMessage.
type SystemMessage struct {
	SystemID string        `json:"system_id"`
	Status   models.Status `json:"status"`
	Message  string        `json:"message"`
}

// MQTTNotifier publishes summaries as retained messages on
// <prefix>/vessels/<id>/maintenance.
type MQTTNotifier struct {
	client mqtt.Client
	prefix string
}

// Connect dials the broker and returns a notifier using the connection.
func Connect(broker, clientID, prefix string) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("broker", broker).Info("Connected to MQTT broker")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", broker, err)
	}
	return NewMQTTNotifier(client, prefix), nil
}

// NewMQTTNotifier wraps an existing client.
func NewMQTTNotifier(client mqtt.Client, prefix string) *MQTTNotifier {
	return &MQTTNotifier{client: client, prefix: strings.TrimSuffix(prefix, "/")}
}

// Topic returns the topic a vessel's status is published on.
func (n *MQTTNotifier) Topic(vesselID string) string {
	return fmt.Sprintf("%s/vessels/%s/maintenance", n.prefix, vesselID)
}

// PublishSummary publishes the summary and waits for the broker to accept it.
func (n *MQTTNotifier) PublishSummary(ctx context.Context, summary *models.VesselMaintenanceSummary) error {
	if !n.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(NewStatusMessage(summary))
	if err != nil {
		return fmt.Errorf("marshal status message: %w", err)
	}

	token := n.client.Publish(n.Topic(summary.VesselID), publishQoS, true, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s: timed out", n.Topic(summary.VesselID))
	}
}

// Close disconnects from the broker, giving in-flight messages a moment.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}

// NewStatusMessage condenses a summary into the published payload.
func NewStatusMessage(summary *models.VesselMaintenanceSummary) StatusMessage {
	msg := StatusMessage{
		VesselID:      summary.VesselID,
		VesselName:    summary.VesselName,
		OverallStatus: summary.OverallStatus,
		Systems:       make([]SystemMessage, 0, len(summary.Systems)),
		GeneratedAt:   summary.GeneratedAt,
	}
	for _, s := range summary.Systems {
		msg.Systems = append(msg.Systems, SystemMessage{SystemID: s.SystemID, Status: s.Status, Message: s.SummaryMessage})
	}
	return msg
}
