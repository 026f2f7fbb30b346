// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package nevoton

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// ============================================================
// Test Helpers
// ============================================================

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	topic   string
	payload string
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return true }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return []byte(m.payload) }
func (m *fakeMessage) Ack()              {}

type publishedMsg struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

type fakeMQTTClient struct {
	connectErr   error
	retained     map[string]string
	subscribed   []string
	published    []publishedMsg
	publishErr   error
	disconnected bool
}

func (f *fakeMQTTClient) Connect() mqtt.Token {
	return &fakeToken{err: f.connectErr}
}

func (f *fakeMQTTClient) Disconnect(uint) {
	f.disconnected = true
}

func (f *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if f.publishErr != nil {
		return &fakeToken{err: f.publishErr}
	}
	f.published = append(f.published, publishedMsg{topic, qos, retained, payload.(string)})
	return &fakeToken{}
}

func (f *fakeMQTTClient) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	f.subscribed = append(f.subscribed, topic)
	if v, ok := f.retained[topic]; ok {
		callback(nil, &fakeMessage{topic: topic, payload: v})
	}
	return &fakeToken{}
}

// testMQTT builds a transport with short exchange timeouts around a
// fake broker client.
func testMQTT(fake *fakeMQTTClient) *MQTT {
	return &MQTT{
		client:          fake,
		device:          "boiler",
		events:          make(chan controlEvent, 64),
		replyTimeout:    40 * time.Millisecond,
		partialTimeout:  120 * time.Millisecond,
		responseTimeout: 250 * time.Millisecond,
	}
}

// answer feeds the scripted control updates after a short delay, as if
// the driver were responding to the published command.
func answer(tr *MQTT, updates []controlUpdate) {
	go func() {
		time.Sleep(5 * time.Millisecond)
		for _, u := range updates {
			tr.receive(u.ctrl, u.payload)
		}
	}()
}

// ============================================================
// Connection Tests
// ============================================================

func TestDialMQTT_SubscribesControls(t *testing.T) {
	fake := &fakeMQTTClient{retained: map[string]string{
		"/devices/boiler/controls/TR Command": "4",
		"/devices/boiler/controls/TR ID":      "25",
		"/devices/boiler/controls/TR Data":    "5248",
	}}
	tr, err := dialMQTT(MQTTConfig{Host: "localhost", Port: 1883, Device: "boiler"}, fake, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("dialMQTT returned error: %v", err)
	}
	wantTopics := []string{
		"/devices/boiler/controls/TR Command",
		"/devices/boiler/controls/TR ID",
		"/devices/boiler/controls/TR Data",
	}
	if !reflect.DeepEqual(fake.subscribed, wantTopics) {
		t.Errorf("subscribed = %v, want %v", fake.subscribed, wantTopics)
	}
	if tr.lastID != "25" || tr.lastData != "5248" {
		t.Errorf("retained snapshot = (%q, %q), want (\"25\", \"5248\")", tr.lastID, tr.lastData)
	}
}

func TestDialMQTT_NoControls(t *testing.T) {
	fake := &fakeMQTTClient{}
	_, err := dialMQTT(MQTTConfig{Host: "localhost", Port: 1883, Device: "ghost"}, fake, 20*time.Millisecond)
	if err == nil {
		t.Fatal("Expected an error")
	}
	want := "No mqtt controls for device 'ghost' found"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
	if classOf(t, err) != opentherm.TransportFailure {
		t.Errorf("Expected TransportFailure, got %v", classOf(t, err))
	}
	if !fake.disconnected {
		t.Error("Expected the client to disconnect")
	}
}

func TestDialMQTT_ConnectError(t *testing.T) {
	fake := &fakeMQTTClient{connectErr: errors.New("broker gone")}
	_, err := dialMQTT(MQTTConfig{Host: "localhost", Port: 1883, Device: "boiler"}, fake, 20*time.Millisecond)
	if err == nil {
		t.Fatal("Expected an error")
	}
	want := "Got mqtt connection exception: broker gone"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
}

// ============================================================
// Exchange Tests
// ============================================================

func TestMQTTExchange_Read(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	answer(tr, []controlUpdate{
		{CtrlCommand, "2"}, {CtrlID, "25"}, {CtrlData, "0"},
		{CtrlCommand, "0"}, {CtrlData, "0"},
		{CtrlCommand, "4"}, {CtrlData, "5248"},
	})
	raw, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 5248).Encode()
	if raw != want {
		t.Errorf("Exchange = 0x%08X, want 0x%08X", raw, want)
	}
	wantPublished := []publishedMsg{
		{"/devices/boiler/controls/TR Command/on", 1, false, "2"},
		{"/devices/boiler/controls/TR ID/on", 1, false, "25"},
		{"/devices/boiler/controls/TR Data/on", 1, false, "0"},
	}
	if !reflect.DeepEqual(fake.published, wantPublished) {
		t.Errorf("published = %v, want %v", fake.published, wantPublished)
	}
}

func TestMQTTExchange_Rejection(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	answer(tr, []controlUpdate{
		{CtrlCommand, "2"}, {CtrlID, "25"}, {CtrlData, "0"},
		{CtrlCommand, "0"}, {CtrlCommand, "6"},
	})
	raw, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	want := opentherm.NewFrame(opentherm.DataInvalid, 25, 0).Encode()
	if raw != want {
		t.Errorf("Exchange = 0x%08X, want 0x%08X", raw, want)
	}
}

func TestMQTTExchange_GatewayRefusal(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	answer(tr, []controlUpdate{
		{CtrlCommand, "2"}, {CtrlCommand, "1"},
	})
	_, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Error() != "invalid nevoton command" {
		t.Errorf("Error = %q, want %q", err.Error(), "invalid nevoton command")
	}
	if classOf(t, err) != opentherm.ValidationError {
		t.Errorf("Expected ValidationError, got %v", classOf(t, err))
	}
}

func TestMQTTExchange_SalvagesRetainedData(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	tr.lastID = "25"
	tr.lastData = "5248"
	answer(tr, []controlUpdate{
		{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"},
	})
	raw, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 5248).Encode()
	if raw != want {
		t.Errorf("Exchange = 0x%08X, want 0x%08X", raw, want)
	}
}

func TestMQTTExchange_NoDriver(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	_, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err == nil {
		t.Fatal("Expected an error")
	}
	want := "No response from Nevoton driver"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
	if classOf(t, err) != opentherm.TransportFailure {
		t.Errorf("Expected TransportFailure, got %v", classOf(t, err))
	}
}

func TestMQTTExchange_ResponseTimeout(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	answer(tr, []controlUpdate{
		{CtrlCommand, "2"}, // echo only, then the driver stalls
	})
	_, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err == nil {
		t.Fatal("Expected an error")
	}
	want := "Nevoton driver response timeout"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
	if classOf(t, err) != opentherm.TransportTimeout {
		t.Errorf("Expected TransportTimeout, got %v", classOf(t, err))
	}
}

func TestMQTTExchange_PublishFailure(t *testing.T) {
	fake := &fakeMQTTClient{publishErr: errors.New("broker gone")}
	tr := testMQTT(fake)
	_, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err == nil {
		t.Fatal("Expected an error")
	}
	want := "mqtt publish to 'TR Command' failed"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
	if classOf(t, err) != opentherm.TransportFailure {
		t.Errorf("Expected TransportFailure, got %v", classOf(t, err))
	}
}

func TestMQTTExchange_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := testMQTT(&fakeMQTTClient{})
	_, err := tr.Exchange(ctx, opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestMQTTExchange_DropsStaleUpdates(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	// leftovers from a previous exchange must not confuse the machine
	tr.receive(CtrlCommand, "4")
	tr.receive(CtrlData, "9999")
	answer(tr, []controlUpdate{
		{CtrlCommand, "2"}, {CtrlID, "25"}, {CtrlData, "0"},
		{CtrlCommand, "0"}, {CtrlData, "0"},
		{CtrlCommand, "4"}, {CtrlData, "5248"},
	})
	raw, err := tr.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 5248).Encode()
	if raw != want {
		t.Errorf("Exchange = 0x%08X, want 0x%08X", raw, want)
	}
}

func TestMQTTClose(t *testing.T) {
	fake := &fakeMQTTClient{}
	tr := testMQTT(fake)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !fake.disconnected {
		t.Error("Expected the client to disconnect")
	}
}
