// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"fmt"
	"math/bits"
)

// Frame represents one decoded 32-bit OpenTherm frame
type Frame struct {
	msgType MsgType
	dataID  uint8
	value   uint16
}

// NewFrame creates a frame with the given fields
func NewFrame(t MsgType, id uint8, value uint16) Frame {
	return Frame{msgType: t & frameMsgTypeMask, dataID: id, value: value}
}

// Type returns the frame's message type
func (f Frame) Type() MsgType {
	return f.msgType
}

// DataID returns the frame's data id
func (f Frame) DataID() uint8 {
	return f.dataID
}

// Value returns the frame's 16-bit data value
func (f Frame) Value() uint16 {
	return f.value
}

// HighByte returns the high byte of the data value
func (f Frame) HighByte() uint8 {
	return uint8(f.value >> 8)
}

// LowByte returns the low byte of the data value
func (f Frame) LowByte() uint8 {
	return uint8(f.value)
}

// Encode packs the frame into its wire form, setting the parity bit so
// the 32-bit word has an even number of one bits
func (f Frame) Encode() uint32 {
	raw := uint32(f.msgType&frameMsgTypeMask)<<frameMsgTypeShift |
		uint32(f.dataID)<<frameDataIDShift |
		uint32(f.value)
	if bits.OnesCount32(raw)%2 != 0 {
		raw |= frameParityBit
	}
	return raw
}

// Decode unpacks a wire frame, verifying even parity and zero spare bits
func Decode(raw uint32) (Frame, error) {
	if bits.OnesCount32(raw)%2 != 0 {
		return Frame{}, &ExchangeError{
			Class:   ProtocolError,
			Message: fmt.Sprintf("parity error in frame 0x%08X", raw),
		}
	}
	if raw&frameSpareMask != 0 {
		return Frame{}, &ExchangeError{
			Class:   ProtocolError,
			Message: fmt.Sprintf("non-zero spare bits in frame 0x%08X", raw),
		}
	}
	return Frame{
		msgType: MsgType(raw >> frameMsgTypeShift & frameMsgTypeMask),
		dataID:  uint8(raw >> frameDataIDShift),
		value:   uint16(raw),
	}, nil
}

// String renders the frame for logs and the monitor
func (f Frame) String() string {
	return fmt.Sprintf("%s id=%d value=0x%04X", f.msgType, f.dataID, f.value)
}
