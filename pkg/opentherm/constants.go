// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package opentherm provides the OpenTherm v2.2 exchange engine used by calorimeter.
//
// OpenTherm is a request/response protocol between a heating master (room
// controller) and a slave (boiler or other appliance). This package provides
// the 32-bit frame codec, the data-id catalog with value decoding and
// annotation, the single-exchange session engine, the id-space scanner, the
// batch command interpreter, eavesdrop feed parsing, and exchange capture.
//
// Transports that move raw frames (the Nevoton gateway adapters, test
// simulators) implement the Transport interface; this package never touches
// a wire itself.
package opentherm

// MsgType represents the 3-bit message type field of a frame
type MsgType uint8

// Message types according to the OpenTherm 2.2 specification
const (
	ReadData      MsgType = 0 // master read request
	WriteData     MsgType = 1 // master write request
	InvalidData   MsgType = 2 // master: received data invalid
	Reserved      MsgType = 3
	ReadAck       MsgType = 4 // slave read response
	WriteAck      MsgType = 5 // slave write response
	DataInvalid   MsgType = 6 // slave: id known but data not usable
	UnknownDataID MsgType = 7 // slave: id not supported
)

var msgTypeNames = [...]string{
	"READ-DATA",
	"WRITE-DATA",
	"INVALID-DATA",
	"OT-RESERVED",
	"READ-ACK",
	"WRITE-ACK",
	"DATA-INVALID",
	"UNKNOWN-DATAID",
}

// String returns the hyphenated protocol name of the message type
func (t MsgType) String() string {
	if int(t) >= len(msgTypeNames) {
		return "!LAME!"
	}
	return msgTypeNames[t]
}

// IsResponse returns true for the four slave-to-master message types
func (t MsgType) IsResponse() bool {
	return t >= ReadAck && t <= UnknownDataID
}

// Frame field layout (bit 31 is even parity over the whole frame)
const (
	frameParityBit    = 1 << 31
	frameMsgTypeShift = 28
	frameMsgTypeMask  = 0x7
	frameSpareMask    = 0x0F000000
	frameDataIDShift  = 16
)

// Well-known data ids the engine itself drives
const (
	IDStatus   = 0  // master/slave status flag exchange
	IDTSPCount = 10 // number of transparent slave parameters
	IDTSPEntry = 11 // TSP index/value access
	IDFHBCount = 12 // fault history buffer size
	IDFHBEntry = 13 // FHB index/value access
)

// StatusRequest is the default id-0 request payload: all master status
// flags raised in the high byte, so the slave reports every capability.
const StatusRequest = 0xFF00

// Encoding represents the value encoding of a catalog entry
type Encoding int

// Value encodings used by the data-id catalog. EncNone marks container
// entries whose value only has meaning through their sub-entries.
const (
	EncNone Encoding = iota
	EncFlags
	EncU8
	EncS8
	EncU16
	EncS16
	EncF88 // signed 8.8 fixed point
)

var encodingNames = [...]string{"", "BF", "U8", "S8", "U16", "S16", "F8.8"}

// String returns the catalog spelling of the encoding
func (e Encoding) String() string {
	if e < 0 || int(e) >= len(encodingNames) {
		return "?"
	}
	return encodingNames[e]
}

// Direction is the transfer-direction bit set of a catalog entry
type Direction uint8

// Direction bits
const (
	DirRead  Direction = 1 << iota // readable from the slave
	DirWrite                       // writable to the slave
	DirInput                       // read request carries an input value
)

// ParseDirection converts a catalog direction string ("R", "W", "RW",
// "RI") into its bit set. Unknown letters are ignored.
func ParseDirection(s string) Direction {
	var d Direction
	for _, c := range s {
		switch c {
		case 'R':
			d |= DirRead
		case 'W':
			d |= DirWrite
		case 'I':
			d |= DirInput
		}
	}
	return d
}

// String returns the catalog spelling of the direction set
func (d Direction) String() string {
	s := ""
	if d&DirRead != 0 {
		s += "R"
	}
	if d&DirWrite != 0 {
		s += "W"
	}
	if d&DirInput != 0 {
		s += "I"
	}
	return s
}
