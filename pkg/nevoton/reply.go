// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package nevoton

import (
	"fmt"
	"strconv"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// Reply is the outcome of feeding control updates into a ReplyMachine.
type Reply struct {
	Done bool
	Raw  uint32 // reassembled response frame, valid when Done
}

// ReplyMachine assembles a gateway response from the stream of control
// updates the Wirenboard driver publishes after a command. It is a pure
// state machine so the assembly logic is testable without a broker.
//
// The driver normally echoes each published value on its control topic,
// follows with a zero once the module accepts the command, and finally
// reports the slave's answer. Real hardware cuts corners: "TR ID" never
// updates when the requested id is 0, the zero confirmation on
// "TR Data" can be skipped, and an unchanged control is never
// republished at all. The machine carries recovery paths for each of
// these.
type ReplyMachine struct {
	cmd  Command
	id   uint8
	data uint16

	cmdReplies  int
	dataReplies int
	respKind    int    // slave message type, -1 until one arrived
	respData    string // slave data word, "" until it arrived

	trID   string // last observed "TR ID" value
	trData string // last observed "TR Data" value
}

// NewReplyMachine creates a machine for one command exchange. lastID and
// lastData seed the remembered control values from the retained state
// the broker delivered before the command was published.
func NewReplyMachine(cmd Command, id uint8, data uint16, lastID, lastData string) *ReplyMachine {
	return &ReplyMachine{
		cmd:      cmd,
		id:       id,
		data:     data,
		respKind: -1,
		trID:     lastID,
		trData:   lastData,
	}
}

// Feed processes one control update. It returns a completed Reply, an
// exchange error, or neither when more updates are needed.
func (m *ReplyMachine) Feed(ctrl Control, payload string) (Reply, error) {
	switch ctrl {
	case CtrlCommand:
		if r, err := m.feedCommand(payload); r.Done || err != nil {
			return r, err
		}
	case CtrlID:
		m.trID = payload
	case CtrlData:
		if err := m.feedData(payload); err != nil {
			return Reply{}, err
		}
	}
	if m.respKind < 0 || m.respData == "" {
		return Reply{}, nil
	}
	return m.complete(m.respData)
}

// Salvage resolves a stalled exchange from remembered control values:
// the driver does not republish an unchanged control, so when the ack
// arrived but the data update never did, the retained "TR Data" value
// stands in, provided "TR ID" confirms the exchanged id.
func (m *ReplyMachine) Salvage() (Reply, error) {
	if m.respKind != int(m.cmd.Ack()) || m.trID != strconv.Itoa(int(m.id)) {
		return Reply{}, nil
	}
	return m.complete(m.trData)
}

func (m *ReplyMachine) feedCommand(payload string) (Reply, error) {
	m.cmdReplies++
	switch {
	case m.cmdReplies == 1:
		// the driver echoes the published command before anything else
		if payload != strconv.Itoa(int(m.cmd)) {
			return Reply{}, validation("command validation error")
		}
	case m.cmdReplies == 2:
		switch payload {
		case "0":
			// command accepted
		case "1":
			return Reply{}, validation("invalid nevoton command")
		case m.ackString():
			// confirmation skipped, the response is already here
			m.respKind = int(m.cmd.Ack())
		case "6":
			return m.reject(opentherm.DataInvalid), nil
		case "7":
			return m.reject(opentherm.UnknownDataID), nil
		default:
			return Reply{}, validation("invalid response")
		}
	default:
		if m.respKind >= 0 {
			return Reply{}, nil // late duplicate
		}
		switch payload {
		case m.ackString():
			m.respKind = int(m.cmd.Ack())
		case "6":
			return m.reject(opentherm.DataInvalid), nil
		case "7":
			return m.reject(opentherm.UnknownDataID), nil
		default:
			return Reply{}, validation(fmt.Sprintf("invalid opentherm response (%s)", payload))
		}
	}
	return Reply{}, nil
}

func (m *ReplyMachine) feedData(payload string) error {
	m.trData = payload
	m.dataReplies++
	switch {
	case m.dataReplies == 1:
		if payload == strconv.Itoa(int(m.data)) {
			return nil // echo of the published data
		}
		// No echo seen. When the ack already arrived, or the command
		// control at least got past its own echo, treat this as the
		// response data showing up early.
		if m.respKind >= 0 || m.cmdReplies >= 2 {
			m.respData = payload
			return nil
		}
		return validation("command validation error")
	case m.dataReplies == 2:
		if payload == "0" {
			return nil // command accepted
		}
		// confirmation skipped, this is the response data
		m.respData = payload
	default:
		if m.respData == "" {
			m.respData = payload
		}
	}
	return nil
}

// reject finishes the exchange at once: a slave refusal carries no data
// word worth waiting for.
func (m *ReplyMachine) reject(kind opentherm.MsgType) Reply {
	return Reply{Done: true, Raw: opentherm.NewFrame(kind, m.id, 0).Encode()}
}

func (m *ReplyMachine) complete(data string) (Reply, error) {
	v, err := strconv.ParseUint(data, 10, 16)
	if err != nil {
		return Reply{}, validation(fmt.Sprintf("non-numeric response data (%s)", data))
	}
	return Reply{
		Done: true,
		Raw:  opentherm.NewFrame(opentherm.MsgType(m.respKind), m.id, uint16(v)).Encode(),
	}, nil
}

func (m *ReplyMachine) ackString() string {
	return strconv.Itoa(int(m.cmd.Ack()))
}

func validation(msg string) *opentherm.ExchangeError {
	return &opentherm.ExchangeError{Class: opentherm.ValidationError, Message: msg}
}
