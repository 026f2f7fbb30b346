// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package nevoton drives the Nevoton BCG-10.x OpenTherm gateway module
// for Wirenboard controllers. The gateway does not speak raw 32-bit
// frames: it accepts a decomposed (command, data-id, data word) triple,
// either through the Wirenboard MQTT driver's transparent controls or
// directly through its Modbus RTU holding registers. Both adapters
// implement the opentherm.Transport contract by splitting the request
// frame into the gateway triple and reassembling the reported response
// into a frame with the parity bit recomputed.
package nevoton

import (
	"fmt"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// Command is the gateway command code, written to the command register
// or published on the "TR Command" control.
type Command int

// Gateway commands per the Nevoton BCG-1.0.2-W manual.
const (
	CmdValueError Command = 1 // gateway refused a malformed command
	CmdRead       Command = 2 // OpenTherm READ-DATA exchange
	CmdWrite      Command = 3 // OpenTherm WRITE-DATA exchange
)

// Ack returns the slave message type that acknowledges the command.
func (c Command) Ack() opentherm.MsgType {
	if c == CmdWrite {
		return opentherm.WriteAck
	}
	return opentherm.ReadAck
}

// SplitRequest decomposes an encoded request frame into the gateway
// command triple. Only master read and write requests can cross the
// gateway.
func SplitRequest(raw uint32) (Command, uint8, uint16, error) {
	frame, err := opentherm.Decode(raw)
	if err != nil {
		return 0, 0, 0, err
	}
	switch frame.Type() {
	case opentherm.ReadData:
		return CmdRead, frame.DataID(), frame.Value(), nil
	case opentherm.WriteData:
		return CmdWrite, frame.DataID(), frame.Value(), nil
	}
	return 0, 0, 0, &opentherm.ExchangeError{
		Class:   opentherm.ConfigError,
		Message: fmt.Sprintf("cannot send %s frame through the gateway", frame.Type()),
	}
}

// Control identifies one of the gateway's transparent Wirenboard
// controls.
type Control int

// The three controls the Wirenboard driver exposes for the gateway.
const (
	CtrlCommand Control = iota
	CtrlID
	CtrlData
)

var controlNames = [...]string{"TR Command", "TR ID", "TR Data"}

// Name returns the Wirenboard control name.
func (c Control) Name() string {
	if c < 0 || int(c) >= len(controlNames) {
		return "?"
	}
	return controlNames[c]
}

// controlTopic returns the MQTT state topic of a control. The driver
// accepts new values on the same topic with "/on" appended.
func controlTopic(device string, c Control) string {
	return "/devices/" + device + "/controls/" + c.Name()
}
