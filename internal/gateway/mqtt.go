package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/icdtuning/workshop-backend/internal/models"
)

// MQTT publishes notifications and deliveries to a broker topic, one
// subtopic per channel. Export follows the same configuration rule as the
// stub; the spreadsheet transport itself is out of scope here.
type MQTT struct {
	client mqtt.Client
	topic  string
	export ExportConfig
}

// NewMQTT connects to the broker and returns the gateway.
func NewMQTT(broker, topic string, export ExportConfig) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("workshop-backend").
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &MQTT{client: client, topic: topic, export: export}, nil
}

type mqttMessage struct {
	Recipient  string `json:"recipient"`
	Message    string `json:"message,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body,omitempty"`
	Attachment string `json:"attachment,omitempty"` // base64
}

// Notify publishes the message to <topic>/<channel>.
func (m *MQTT) Notify(ctx context.Context, channel, recipient, message string) Result {
	return m.publish(channel, mqttMessage{Recipient: recipient, Message: message})
}

// DeliverDocument publishes the document payload to <topic>/<channel>.
func (m *MQTT) DeliverDocument(ctx context.Context, channel, recipient, subject, body string, attachment []byte) Result {
	msg := mqttMessage{Recipient: recipient, Subject: subject, Body: body}
	if len(attachment) > 0 {
		msg.Attachment = base64.StdEncoding.EncodeToString(attachment)
	}
	return m.publish(channel, msg)
}

// BulkExport validates the export configuration and reports the export.
func (m *MQTT) BulkExport(ctx context.Context, jobs []models.Job) ExportResult {
	if failure, ok := checkExportConfig(m.export); !ok {
		return failure
	}
	if len(jobs) == 0 {
		return ExportResult{Success: false, Message: "No jobs found to export"}
	}

	payload, err := json.Marshal(jobs)
	if err != nil {
		return ExportResult{Success: false, Message: "failed to encode jobs: " + err.Error()}
	}
	if token := m.client.Publish(m.topic+"/export", 1, false, payload); token.Wait() && token.Error() != nil {
		return ExportResult{Success: false, Message: "failed to publish export: " + token.Error().Error()}
	}

	return ExportResult{
		Success:  true,
		Message:  fmt.Sprintf("Successfully exported %d jobs to Google Sheets", len(jobs)),
		JobCount: len(jobs),
		SheetURL: sheetURL(m.export.SheetID),
	}
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}

func (m *MQTT) publish(channel string, msg mqttMessage) Result {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Result{Success: false, Message: "failed to encode message: " + err.Error()}
	}

	topic := m.topic + "/" + channel
	if token := m.client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		log.WithField("topic", topic).WithError(token.Error()).Error("mqtt publish failed")
		return Result{Success: false, Message: "failed to publish: " + token.Error().Error()}
	}

	return Result{Success: true, Message: fmt.Sprintf("%s message published", channel)}
}
