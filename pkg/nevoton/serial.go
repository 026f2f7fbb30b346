// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package nevoton

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goburrow/serial"
	modbus "github.com/things-go/go-modbus"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// Nevoton module register map (fw 1.30 and later).
const (
	regModuleInfo = 200 // 5 input registers: name characters and firmware
	regCommand    = 209 // holding: command in, response message type out
	regDataID     = 210 // holding: data-id, echoed in the response
	regData       = 211 // holding: data word in, response data out
)

const (
	serialBaudRate       = 19200
	serialIOTimeout      = time.Second
	serialResponseExpiry = 20 * time.Second       // a command is lost after this
	serialPollInterval   = 100 * time.Millisecond // holding register poll pace

	moduleName  = "BCG102W"
	minFirmware = 130 // transparent control registers appeared in fw 1.30
)

// DefaultSlaveAddress is the factory Modbus address of the BCG module.
const DefaultSlaveAddress = 11

// SerialConfig holds the serial line endpoint of the gateway module.
type SerialConfig struct {
	Device  string // serial device path, e.g. /dev/ttyMOD1
	SlaveID uint8  // modbus address, DefaultSlaveAddress unless rewired
}

// regClient is the slice of the modbus client the transport needs.
type regClient interface {
	Connect() error
	Close() error
	ReadInputRegisters(slaveID byte, address, quantity uint16) ([]uint16, error)
	ReadHoldingRegisters(slaveID byte, address, quantity uint16) ([]uint16, error)
	WriteSingleRegister(slaveID byte, address, value uint16) error
}

// Serial is an opentherm.Transport over the module's Modbus RTU
// registers.
type Serial struct {
	client   regClient
	slaveID  byte
	module   string
	firmware uint16
	timeout  time.Duration
}

// DialSerial opens the serial port and verifies the module identity:
// the name registers must spell out a supported module and the firmware
// must carry the transparent command registers.
func DialSerial(cfg SerialConfig) (*Serial, error) {
	provider := modbus.NewRTUClientProvider(modbus.WithSerialConfig(serial.Config{
		Address:  cfg.Device,
		BaudRate: serialBaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  serialIOTimeout,
	}))
	t := &Serial{client: modbus.NewClient(provider), slaveID: cfg.SlaveID}
	if err := t.connect(cfg.Device); err != nil {
		t.client.Close()
		return nil, err
	}
	return t, nil
}

func (t *Serial) connect(device string) error {
	slog.Debug("connecting serial device", "device", device, "slave", t.slaveID)
	if err := t.client.Connect(); err != nil {
		return &opentherm.ExchangeError{
			Class:   opentherm.TransportFailure,
			Message: fmt.Sprintf("Could not connect serial device '%s'", device),
		}
	}
	regs, err := t.client.ReadInputRegisters(t.slaveID, regModuleInfo, 5)
	if err != nil {
		return &opentherm.ExchangeError{
			Class:   opentherm.TransportFailure,
			Message: fmt.Sprintf("Unable to read module info registers through '%s': %v", device, err),
		}
	}
	if len(regs) < 5 {
		return &opentherm.ExchangeError{
			Class:   opentherm.ProtocolError,
			Message: "short module info response",
		}
	}
	t.module = moduleIdent(regs[:4])
	t.firmware = regs[4]
	slog.Debug("module identity", "name", t.module, "firmware", t.Firmware())
	if t.module != moduleName {
		return &opentherm.ExchangeError{
			Class:   opentherm.ConfigError,
			Message: fmt.Sprintf("Unsupported module '%s'", t.module),
		}
	}
	if t.firmware < minFirmware {
		return &opentherm.ExchangeError{
			Class:   opentherm.ConfigError,
			Message: fmt.Sprintf("Unsupported module firmware version '%s'", t.Firmware()),
		}
	}
	return nil
}

// Module returns the identity read from the name registers.
func (t *Serial) Module() string {
	return t.module
}

// Firmware returns the module firmware version as "major.minor".
func (t *Serial) Firmware() string {
	return fmt.Sprintf("%d.%02d", t.firmware/100, t.firmware%100)
}

// Exchange writes the decomposed request into the command registers and
// polls them until the module replaces the triple with its response.
// The module holds all three registers at zero while the bus exchange
// is in flight.
func (t *Serial) Exchange(ctx context.Context, request uint32) (uint32, error) {
	cmd, id, data, err := SplitRequest(request)
	if err != nil {
		return 0, err
	}
	slog.Debug("sending gateway command", "cmd", int(cmd), "id", id, "data", data)

	writes := []struct {
		reg   uint16
		value uint16
	}{
		{regCommand, uint16(cmd)},
		{regDataID, uint16(id)},
		{regData, data},
	}
	for _, w := range writes {
		if err := t.client.WriteSingleRegister(t.slaveID, w.reg, w.value); err != nil {
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.TransportFailure,
				Message: fmt.Sprintf("error writing reg %d: %v", w.reg, err),
			}
		}
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = serialResponseExpiry
	}
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(serialPollInterval)
	defer ticker.Stop()
	for {
		r, err := t.client.ReadHoldingRegisters(t.slaveID, regCommand, 3)
		if err != nil {
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.TransportFailure,
				Message: fmt.Sprintf("unable to read module registers: %v", err),
			}
		}
		if len(r) < 3 {
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.ProtocolError,
				Message: "short register response",
			}
		}
		switch {
		case r[0] == 0 && r[1] == 0 && r[2] == 0:
			// still processing
		case r[0] == uint16(CmdValueError):
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.ValidationError,
				Message: "invalid nevoton command",
			}
		case t.completes(cmd, id, r):
			slog.Debug("gateway response", "kind", r[0], "id", r[1], "data", r[2])
			return opentherm.NewFrame(opentherm.MsgType(r[0]), id, r[2]).Encode(), nil
		default:
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.ProtocolError,
				Message: fmt.Sprintf("inconsistent response (%d,%d,%d)", r[0], r[1], r[2]),
			}
		}
		if time.Now().After(deadline) {
			return 0, &opentherm.ExchangeError{
				Class:   opentherm.TransportTimeout,
				Message: "Nevoton driver response timeout",
			}
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

// completes reports whether the polled registers carry the response to
// the command: the expected ack or a slave rejection, with the data-id
// echoed back.
func (t *Serial) completes(cmd Command, id uint8, r []uint16) bool {
	if r[1] != uint16(id) {
		return false
	}
	switch opentherm.MsgType(r[0]) {
	case cmd.Ack(), opentherm.DataInvalid, opentherm.UnknownDataID:
		return true
	}
	return false
}

// Close releases the serial port.
func (t *Serial) Close() error {
	return t.client.Close()
}

// moduleIdent renders the identity registers: each holds two ASCII
// characters, anything non-alphanumeric is skipped.
func moduleIdent(regs []uint16) string {
	var b strings.Builder
	for _, r := range regs {
		for _, c := range []byte{byte(r >> 8), byte(r)} {
			if c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
