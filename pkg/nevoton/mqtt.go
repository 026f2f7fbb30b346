// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package nevoton

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// Gateway response pacing. The Nevoton module sits behind the driver's
// circular register polling on top of the Modbus RTU link, hence the
// generous upper bounds.
const (
	mqttConnectTimeout  = 10 * time.Second
	mqttReplyTimeout    = 3 * time.Second  // first control update after a command
	mqttPartialTimeout  = 30 * time.Second // before remembered values stand in
	mqttResponseTimeout = 60 * time.Second // a command is lost after this
	mqttRetainedWindow  = 1 * time.Second  // retained control burst on subscribe
	publishSuffix       = "/on"
	disconnectQuiesce   = 250 // milliseconds paho waits for in-flight work
)

// MQTTConfig holds the broker endpoint and the Wirenboard device id of
// the gateway.
type MQTTConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Device   string
}

// mqttClient is the slice of the paho client the transport needs.
type mqttClient interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

type controlEvent struct {
	ctrl    Control
	payload string
}

// MQTT is an opentherm.Transport over the Wirenboard MQTT driver's
// transparent gateway controls.
type MQTT struct {
	client mqttClient
	device string
	events chan controlEvent

	mu       sync.Mutex
	lastID   string // retained "TR ID" snapshot for reply seeding
	lastData string // retained "TR Data" snapshot for reply seeding

	replyTimeout    time.Duration
	partialTimeout  time.Duration
	responseTimeout time.Duration
}

// DialMQTT connects to the broker and verifies the gateway's
// transparent controls exist. The Wirenboard driver retains every
// control value, so a fresh subscription must deliver at least one
// update almost immediately; silence means no such device is driven.
func DialMQTT(cfg MQTTConfig) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(fmt.Sprintf("calorimeter-%d", os.Getpid())).
		SetConnectTimeout(mqttConnectTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	return dialMQTT(cfg, mqtt.NewClient(opts), mqttRetainedWindow)
}

func dialMQTT(cfg MQTTConfig, client mqttClient, retainedWindow time.Duration) (*MQTT, error) {
	t := &MQTT{
		client: client,
		device: cfg.Device,
		events: make(chan controlEvent, 64),
	}

	slog.Debug("connecting mqtt", "host", cfg.Host, "port", cfg.Port)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, &opentherm.ExchangeError{
			Class:   opentherm.TransportFailure,
			Message: "Could not connect to mqtt",
		}
	}
	if err := token.Error(); err != nil {
		return nil, &opentherm.ExchangeError{
			Class:   opentherm.TransportFailure,
			Message: fmt.Sprintf("Got mqtt connection exception: %v", err),
		}
	}

	for _, ctrl := range []Control{CtrlCommand, CtrlID, CtrlData} {
		topic := controlTopic(cfg.Device, ctrl)
		token := client.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
			t.receive(ctrl, string(msg.Payload()))
		})
		if !token.WaitTimeout(mqttConnectTimeout) || token.Error() != nil {
			client.Disconnect(disconnectQuiesce)
			return nil, &opentherm.ExchangeError{
				Class:   opentherm.TransportFailure,
				Message: fmt.Sprintf("subscribe to '%s' failed", topic),
			}
		}
	}

	// The retained control values arrive right after subscribing. No
	// update at all means the device has no transparent controls.
	if t.drain(retainedWindow) == 0 {
		client.Disconnect(disconnectQuiesce)
		return nil, &opentherm.ExchangeError{
			Class:   opentherm.TransportFailure,
			Message: fmt.Sprintf("No mqtt controls for device '%s' found", cfg.Device),
		}
	}
	slog.Info("gateway controls subscribed", "device", cfg.Device)
	return t, nil
}

// Exchange publishes one decomposed request and assembles the gateway's
// response from the control updates that follow.
func (t *MQTT) Exchange(ctx context.Context, request uint32) (uint32, error) {
	cmd, id, data, err := SplitRequest(request)
	if err != nil {
		return 0, err
	}

	t.drain(0)
	t.mu.Lock()
	machine := NewReplyMachine(cmd, id, data, t.lastID, t.lastData)
	t.mu.Unlock()

	slog.Debug("sending gateway command", "cmd", int(cmd), "id", id, "data", data)
	publishes := []struct {
		ctrl  Control
		value int
	}{
		{CtrlCommand, int(cmd)},
		{CtrlID, int(id)},
		{CtrlData, int(data)},
	}
	for _, p := range publishes {
		topic := controlTopic(t.device, p.ctrl) + publishSuffix
		token := t.client.Publish(topic, 1, false, strconv.Itoa(p.value))
		if !token.WaitTimeout(mqttConnectTimeout) || token.Error() != nil {
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.TransportFailure,
				Message: fmt.Sprintf("mqtt publish to '%s' failed", p.ctrl.Name()),
			}
		}
	}

	replyDeadline, partialDeadline, responseDeadline := t.timeouts()
	reply := time.NewTimer(replyDeadline)
	partial := time.NewTimer(partialDeadline)
	deadline := time.NewTimer(responseDeadline)
	defer reply.Stop()
	defer partial.Stop()
	defer deadline.Stop()

	alive := false
	stalled := false
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case ev := <-t.events:
			alive = true
			slog.Debug("gateway control update", "control", ev.ctrl.Name(), "payload", ev.payload)
			r, err := machine.Feed(ev.ctrl, ev.payload)
			if err != nil {
				return 0, err
			}
			if !r.Done && stalled {
				r, err = machine.Salvage()
				if err != nil {
					return 0, err
				}
			}
			if r.Done {
				return r.Raw, nil
			}
		case <-reply.C:
			if !alive {
				return 0, &opentherm.ExchangeError{
					Class:   opentherm.TransportFailure,
					Message: "No response from Nevoton driver",
				}
			}
		case <-partial.C:
			// The driver does not republish unchanged controls; a
			// stalled exchange may still resolve from remembered
			// values.
			stalled = true
			r, err := machine.Salvage()
			if err != nil {
				return 0, err
			}
			if r.Done {
				return r.Raw, nil
			}
		case <-deadline.C:
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.TransportTimeout,
				Message: "Nevoton driver response timeout",
			}
		}
	}
}

// Close disconnects from the broker.
func (t *MQTT) Close() error {
	t.client.Disconnect(disconnectQuiesce)
	return nil
}

// receive runs on the paho callback goroutine: it refreshes the
// retained snapshot and queues the update for the exchange loop.
func (t *MQTT) receive(ctrl Control, payload string) {
	t.mu.Lock()
	switch ctrl {
	case CtrlID:
		t.lastID = payload
	case CtrlData:
		t.lastData = payload
	}
	t.mu.Unlock()
	select {
	case t.events <- controlEvent{ctrl, payload}:
	default:
		slog.Debug("dropping gateway control update", "control", ctrl.Name())
	}
}

// drain consumes pending control updates, returning how many were
// dropped. A positive wait keeps collecting for that long; zero empties
// the queue without blocking.
func (t *MQTT) drain(wait time.Duration) int {
	dropped := 0
	if wait <= 0 {
		for {
			select {
			case <-t.events:
				dropped++
			default:
				return dropped
			}
		}
	}
	deadline := time.After(wait)
	for {
		select {
		case <-t.events:
			dropped++
		case <-deadline:
			return dropped
		}
	}
}

func (t *MQTT) timeouts() (reply, partial, response time.Duration) {
	reply, partial, response = t.replyTimeout, t.partialTimeout, t.responseTimeout
	if reply == 0 {
		reply = mqttReplyTimeout
	}
	if partial == 0 {
		partial = mqttPartialTimeout
	}
	if response == 0 {
		response = mqttResponseTimeout
	}
	return reply, partial, response
}
