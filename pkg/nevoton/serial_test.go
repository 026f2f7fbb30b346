// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package nevoton

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// ============================================================
// Test Helpers
// ============================================================

type fakeRegClient struct {
	connectErr  error
	identity    []uint16
	identityErr error
	writes      [][2]uint16
	writeErr    error
	polls       [][]uint16
	pollErr     error
	pollCalls   int
	closed      bool
}

func (f *fakeRegClient) Connect() error {
	return f.connectErr
}

func (f *fakeRegClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeRegClient) ReadInputRegisters(_ byte, _, _ uint16) ([]uint16, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identity, nil
}

func (f *fakeRegClient) ReadHoldingRegisters(_ byte, _, _ uint16) ([]uint16, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	if f.pollCalls >= len(f.polls) {
		f.pollCalls++
		return []uint16{0, 0, 0}, nil // still processing
	}
	r := f.polls[f.pollCalls]
	f.pollCalls++
	return r, nil
}

func (f *fakeRegClient) WriteSingleRegister(_ byte, address, value uint16) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, [2]uint16{address, value})
	return nil
}

// identityRegs packs a module name as ASCII character pairs, followed
// by the firmware register.
func identityRegs(name string, fw uint16) []uint16 {
	regs := make([]uint16, 4)
	for i := 0; i < len(name) && i < 8; i++ {
		shift := uint(8 * (1 - i%2))
		regs[i/2] |= uint16(name[i]) << shift
	}
	return append(regs, fw)
}

// ============================================================
// Identity Check Tests
// ============================================================

func TestSerialConnect(t *testing.T) {
	fake := &fakeRegClient{identity: identityRegs("BCG102W", 130)}
	s := &Serial{client: fake, slaveID: DefaultSlaveAddress}
	if err := s.connect("/dev/ttyMOD1"); err != nil {
		t.Fatalf("connect returned error: %v", err)
	}
	if s.Module() != "BCG102W" {
		t.Errorf("Module() = %q, want %q", s.Module(), "BCG102W")
	}
	if s.Firmware() != "1.30" {
		t.Errorf("Firmware() = %q, want %q", s.Firmware(), "1.30")
	}
}

func TestSerialConnect_Failures(t *testing.T) {
	tests := []struct {
		name      string
		fake      *fakeRegClient
		wantClass opentherm.ErrorClass
		wantMsg   string
	}{
		{
			"port unavailable",
			&fakeRegClient{connectErr: errors.New("no such device")},
			opentherm.TransportFailure,
			"Could not connect serial device '/dev/ttyMOD1'",
		},
		{
			"info registers unreadable",
			&fakeRegClient{identityErr: errors.New("timeout")},
			opentherm.TransportFailure,
			"Unable to read module info registers through '/dev/ttyMOD1': timeout",
		},
		{
			"short info response",
			&fakeRegClient{identity: []uint16{0x4243}},
			opentherm.ProtocolError,
			"short module info response",
		},
		{
			"unknown module",
			&fakeRegClient{identity: identityRegs("AB", 130)},
			opentherm.ConfigError,
			"Unsupported module 'AB'",
		},
		{
			"old firmware",
			&fakeRegClient{identity: identityRegs("BCG102W", 129)},
			opentherm.ConfigError,
			"Unsupported module firmware version '1.29'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Serial{client: tt.fake, slaveID: DefaultSlaveAddress}
			err := s.connect("/dev/ttyMOD1")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if classOf(t, err) != tt.wantClass {
				t.Errorf("Class = %v, want %v", classOf(t, err), tt.wantClass)
			}
		})
	}
}

// ============================================================
// Register Exchange Tests
// ============================================================

func TestSerialExchange_Read(t *testing.T) {
	fake := &fakeRegClient{polls: [][]uint16{
		{0, 0, 0},
		{4, 25, 5248},
	}}
	s := &Serial{client: fake, slaveID: DefaultSlaveAddress}
	raw, err := s.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 5248).Encode()
	if raw != want {
		t.Errorf("Exchange = 0x%08X, want 0x%08X", raw, want)
	}
	wantWrites := [][2]uint16{{209, 2}, {210, 25}, {211, 0}}
	if !reflect.DeepEqual(fake.writes, wantWrites) {
		t.Errorf("register writes = %v, want %v", fake.writes, wantWrites)
	}
}

func TestSerialExchange_Write(t *testing.T) {
	fake := &fakeRegClient{polls: [][]uint16{
		{5, 1, 5248},
	}}
	s := &Serial{client: fake, slaveID: DefaultSlaveAddress}
	raw, err := s.Exchange(context.Background(), opentherm.NewFrame(opentherm.WriteData, 1, 5248).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	want := opentherm.NewFrame(opentherm.WriteAck, 1, 5248).Encode()
	if raw != want {
		t.Errorf("Exchange = 0x%08X, want 0x%08X", raw, want)
	}
	wantWrites := [][2]uint16{{209, 3}, {210, 1}, {211, 5248}}
	if !reflect.DeepEqual(fake.writes, wantWrites) {
		t.Errorf("register writes = %v, want %v", fake.writes, wantWrites)
	}
}

func TestSerialExchange_Rejection(t *testing.T) {
	fake := &fakeRegClient{polls: [][]uint16{
		{7, 57, 0},
	}}
	s := &Serial{client: fake, slaveID: DefaultSlaveAddress}
	raw, err := s.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 57, 0).Encode())
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if raw != 0xF0390000 {
		t.Errorf("Exchange = 0x%08X, want 0xF0390000", raw)
	}
}

func TestSerialExchange_Failures(t *testing.T) {
	tests := []struct {
		name      string
		fake      *fakeRegClient
		wantClass opentherm.ErrorClass
		wantMsg   string
	}{
		{
			"gateway validation error",
			&fakeRegClient{polls: [][]uint16{{1, 0, 0}}},
			opentherm.ValidationError,
			"invalid nevoton command",
		},
		{
			"id mismatch",
			&fakeRegClient{polls: [][]uint16{{4, 26, 5248}}},
			opentherm.ProtocolError,
			"inconsistent response (4,26,5248)",
		},
		{
			"wrong ack type",
			&fakeRegClient{polls: [][]uint16{{5, 25, 5248}}},
			opentherm.ProtocolError,
			"inconsistent response (5,25,5248)",
		},
		{
			"register write refused",
			&fakeRegClient{writeErr: errors.New("crc error")},
			opentherm.TransportFailure,
			"error writing reg 209: crc error",
		},
		{
			"poll read failure",
			&fakeRegClient{pollErr: errors.New("gone")},
			opentherm.TransportFailure,
			"unable to read module registers: gone",
		},
		{
			"short poll response",
			&fakeRegClient{polls: [][]uint16{{4, 25}}},
			opentherm.ProtocolError,
			"short register response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Serial{client: tt.fake, slaveID: DefaultSlaveAddress, timeout: 50 * time.Millisecond}
			_, err := s.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
			if err == nil {
				t.Fatal("Expected an error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if classOf(t, err) != tt.wantClass {
				t.Errorf("Class = %v, want %v", classOf(t, err), tt.wantClass)
			}
		})
	}
}

func TestSerialExchange_Timeout(t *testing.T) {
	fake := &fakeRegClient{} // reports the processing state forever
	s := &Serial{client: fake, slaveID: DefaultSlaveAddress, timeout: 50 * time.Millisecond}
	_, err := s.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if err == nil {
		t.Fatal("Expected a timeout")
	}
	if classOf(t, err) != opentherm.TransportTimeout {
		t.Errorf("Expected TransportTimeout, got %v", classOf(t, err))
	}
	if err.Error() != "Nevoton driver response timeout" {
		t.Errorf("Error = %q, want %q", err.Error(), "Nevoton driver response timeout")
	}
	if fake.pollCalls < 1 {
		t.Error("Expected at least one poll")
	}
}

func TestSerialExchange_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Serial{client: &fakeRegClient{}, slaveID: DefaultSlaveAddress}
	_, err := s.Exchange(ctx, opentherm.NewFrame(opentherm.ReadData, 25, 0).Encode())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSerialExchange_RefusesResponseFrames(t *testing.T) {
	s := &Serial{client: &fakeRegClient{}, slaveID: DefaultSlaveAddress}
	_, err := s.Exchange(context.Background(), opentherm.NewFrame(opentherm.ReadAck, 25, 0).Encode())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if classOf(t, err) != opentherm.ConfigError {
		t.Errorf("Expected ConfigError, got %v", classOf(t, err))
	}
}

func TestSerialClose(t *testing.T) {
	fake := &fakeRegClient{}
	s := &Serial{client: fake}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !fake.closed {
		t.Error("Expected the underlying client to be closed")
	}
}

// ============================================================
// Identity Rendering Tests
// ============================================================

func TestModuleIdent(t *testing.T) {
	tests := []struct {
		name string
		regs []uint16
		want string
	}{
		{"full name", identityRegs("BCG102W", 130)[:4], "BCG102W"},
		{"skips non-alphanumerics", []uint16{0x422D, 0x2A43, 0x0000, 0x0000}, "BC"},
		{"all zeros", []uint16{0, 0, 0, 0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moduleIdent(tt.regs); got != tt.want {
				t.Errorf("moduleIdent(%v) = %q, want %q", tt.regs, got, tt.want)
			}
		})
	}
}
