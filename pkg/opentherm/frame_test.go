// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"math/bits"
	"strings"
	"testing"
)

// ============================================================
// Encoding Tests
// ============================================================

func TestFrameEncode_KnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		msgType  MsgType
		dataID   uint8
		value    uint16
		expected uint32
	}{
		{
			name:     "read boiler flow temperature",
			msgType:  ReadData,
			dataID:   25,
			value:    0,
			expected: 0x80190000, // odd payload, parity bit set
		},
		{
			name:     "status probe with all master flags",
			msgType:  ReadData,
			dataID:   0,
			value:    0xFF00,
			expected: 0x0000FF00, // even payload, parity bit clear
		},
		{
			name:     "read ack carrying 20.5 as f8.8",
			msgType:  ReadAck,
			dataID:   25,
			value:    0x1480,
			expected: 0xC0191480,
		},
		{
			name:     "write setpoint",
			msgType:  WriteData,
			dataID:   1,
			value:    0x1480,
			expected: 0x90011480,
		},
		{
			name:     "write ack echo",
			msgType:  WriteAck,
			dataID:   1,
			value:    0x1480,
			expected: 0x50011480,
		},
		{
			name:     "unknown dataid rejection",
			msgType:  UnknownDataID,
			dataID:   57,
			value:    0,
			expected: 0xF0390000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := NewFrame(tt.msgType, tt.dataID, tt.value).Encode()
			if raw != tt.expected {
				t.Errorf("Encode mismatch: expected 0x%08X, got 0x%08X", tt.expected, raw)
			}
		})
	}
}

func TestFrameEncode_ParityAlwaysEven(t *testing.T) {
	for id := 0; id < 256; id += 17 {
		for _, value := range []uint16{0x0000, 0x0001, 0x1480, 0xFF00, 0xFFFF} {
			for mt := ReadData; mt <= UnknownDataID; mt++ {
				raw := NewFrame(mt, uint8(id), value).Encode()
				if bits.OnesCount32(raw)%2 != 0 {
					t.Fatalf("Encoded frame 0x%08X has odd parity", raw)
				}
			}
		}
	}
}

// ============================================================
// Decoding Tests
// ============================================================

func TestDecode_RoundTrip(t *testing.T) {
	original := NewFrame(ReadAck, 25, 0x1480)
	decoded, err := Decode(original.Encode())
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if decoded != original {
		t.Errorf("Round trip mismatch: expected %v, got %v", original, decoded)
	}
}

func TestDecode_Fields(t *testing.T) {
	frame, err := Decode(0xC0191480)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if frame.Type() != ReadAck {
		t.Errorf("Expected READ-ACK, got %s", frame.Type())
	}
	if frame.DataID() != 25 {
		t.Errorf("Expected data id 25, got %d", frame.DataID())
	}
	if frame.Value() != 0x1480 {
		t.Errorf("Expected value 0x1480, got 0x%04X", frame.Value())
	}
	if frame.HighByte() != 0x14 {
		t.Errorf("Expected high byte 0x14, got 0x%02X", frame.HighByte())
	}
	if frame.LowByte() != 0x80 {
		t.Errorf("Expected low byte 0x80, got 0x%02X", frame.LowByte())
	}
}

func TestDecode_ParityError(t *testing.T) {
	// 0x00190000 has three one bits and no parity bit
	_, err := Decode(0x00190000)
	if err == nil {
		t.Fatal("Expected parity error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "parity error") {
		t.Errorf("Expected parity error message, got %q", err)
	}
	if !Retryable(err) {
		t.Error("Parity errors should be retryable")
	}
}

func TestDecode_SpareBitsError(t *testing.T) {
	// 0x01190000 has even parity but a non-zero spare nibble
	_, err := Decode(0x01190000)
	if err == nil {
		t.Fatal("Expected spare bits error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "non-zero spare bits") {
		t.Errorf("Expected spare bits message, got %q", err)
	}
}

// ============================================================
// Message Type Tests
// ============================================================

func TestMsgType_String(t *testing.T) {
	tests := []struct {
		msgType  MsgType
		expected string
	}{
		{ReadData, "READ-DATA"},
		{WriteData, "WRITE-DATA"},
		{InvalidData, "INVALID-DATA"},
		{Reserved, "OT-RESERVED"},
		{ReadAck, "READ-ACK"},
		{WriteAck, "WRITE-ACK"},
		{DataInvalid, "DATA-INVALID"},
		{UnknownDataID, "UNKNOWN-DATAID"},
	}

	for _, tt := range tests {
		if got := tt.msgType.String(); got != tt.expected {
			t.Errorf("MsgType(%d).String() = %q, want %q", tt.msgType, got, tt.expected)
		}
	}
}

func TestMsgType_IsResponse(t *testing.T) {
	for mt := ReadData; mt <= UnknownDataID; mt++ {
		expected := mt >= ReadAck
		if got := mt.IsResponse(); got != expected {
			t.Errorf("MsgType(%d).IsResponse() = %v, want %v", mt, got, expected)
		}
	}
}

func TestFrame_String(t *testing.T) {
	s := NewFrame(ReadAck, 25, 0x1480).String()
	if s != "READ-ACK id=25 value=0x1480" {
		t.Errorf("Unexpected frame rendering: %q", s)
	}
}
