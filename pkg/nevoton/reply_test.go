// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package nevoton

import (
	"errors"
	"testing"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// ============================================================
// Test Helpers
// ============================================================

type controlUpdate struct {
	ctrl    Control
	payload string
}

// feedAll feeds every update, requiring the machine to stay incomplete
// until the last one, and returns the final outcome.
func feedAll(t *testing.T, m *ReplyMachine, updates []controlUpdate) (Reply, error) {
	t.Helper()
	for i, u := range updates {
		r, err := m.Feed(u.ctrl, u.payload)
		if i == len(updates)-1 {
			return r, err
		}
		if err != nil {
			t.Fatalf("Feed(%d) returned unexpected error: %v", i, err)
		}
		if r.Done {
			t.Fatalf("Feed(%d) completed early", i)
		}
	}
	return Reply{}, nil
}

func classOf(t *testing.T, err error) opentherm.ErrorClass {
	t.Helper()
	var xe *opentherm.ExchangeError
	if !errors.As(err, &xe) {
		t.Fatalf("Expected ExchangeError, got %T (%v)", err, err)
	}
	return xe.Class
}

// ============================================================
// Request Splitting Tests
// ============================================================

func TestSplitRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
		cmd  Command
		id   uint8
		data uint16
	}{
		{"read request", 0x80190000, CmdRead, 25, 0},
		{"read with input value", 0x0000FF00, CmdRead, 0, 0xFF00},
		{"write request", 0x90011480, CmdWrite, 1, 0x1480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, id, data, err := SplitRequest(tt.raw)
			if err != nil {
				t.Fatalf("SplitRequest(0x%08X) returned error: %v", tt.raw, err)
			}
			if cmd != tt.cmd || id != tt.id || data != tt.data {
				t.Errorf("SplitRequest(0x%08X) = (%d, %d, %d), want (%d, %d, %d)",
					tt.raw, cmd, id, data, tt.cmd, tt.id, tt.data)
			}
		})
	}
}

func TestSplitRequest_RejectsNonRequests(t *testing.T) {
	raw := opentherm.NewFrame(opentherm.ReadAck, 25, 0x1480).Encode()
	_, _, _, err := SplitRequest(raw)
	if err == nil {
		t.Fatal("Expected an error for a response frame")
	}
	if classOf(t, err) != opentherm.ConfigError {
		t.Errorf("Expected ConfigError, got %v", classOf(t, err))
	}
	want := "cannot send READ-ACK frame through the gateway"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
}

func TestSplitRequest_RejectsCorruptFrames(t *testing.T) {
	// the parity bit is cleared on a frame that needs it
	if _, _, _, err := SplitRequest(0x00190000); err == nil {
		t.Fatal("Expected an error for a corrupt frame")
	}
}

func TestCommandAck(t *testing.T) {
	if got := CmdRead.Ack(); got != opentherm.ReadAck {
		t.Errorf("CmdRead.Ack() = %v, want READ-ACK", got)
	}
	if got := CmdWrite.Ack(); got != opentherm.WriteAck {
		t.Errorf("CmdWrite.Ack() = %v, want WRITE-ACK", got)
	}
}

func TestControlNames(t *testing.T) {
	tests := []struct {
		ctrl Control
		want string
	}{
		{CtrlCommand, "TR Command"},
		{CtrlID, "TR ID"},
		{CtrlData, "TR Data"},
	}
	for _, tt := range tests {
		if got := tt.ctrl.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

// ============================================================
// Reply Machine Tests
// ============================================================

func TestReplyMachine_ReadExchange(t *testing.T) {
	m := NewReplyMachine(CmdRead, 25, 0, "", "")
	r, err := feedAll(t, m, []controlUpdate{
		{CtrlCommand, "2"}, // echo
		{CtrlID, "25"},     // echo
		{CtrlData, "0"},    // echo
		{CtrlCommand, "0"}, // accepted
		{CtrlData, "0"},    // accepted
		{CtrlCommand, "4"}, // READ-ACK
		{CtrlData, "5248"}, // response data
	})
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected a completed reply")
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 0x1480).Encode()
	if r.Raw != want {
		t.Errorf("Raw = 0x%08X, want 0x%08X", r.Raw, want)
	}
}

func TestReplyMachine_WriteExchange(t *testing.T) {
	m := NewReplyMachine(CmdWrite, 1, 5248, "", "")
	r, err := feedAll(t, m, []controlUpdate{
		{CtrlCommand, "3"},
		{CtrlID, "1"},
		{CtrlData, "5248"},
		{CtrlCommand, "0"},
		{CtrlData, "0"},
		{CtrlCommand, "5"},
		{CtrlData, "5248"},
	})
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected a completed reply")
	}
	want := opentherm.NewFrame(opentherm.WriteAck, 1, 0x1480).Encode()
	if r.Raw != want {
		t.Errorf("Raw = 0x%08X, want 0x%08X", r.Raw, want)
	}
}

func TestReplyMachine_RejectionCompletesImmediately(t *testing.T) {
	// a refusal needs no data word, the machine must not wait for one
	m := NewReplyMachine(CmdRead, 57, 0, "", "")
	r, err := feedAll(t, m, []controlUpdate{
		{CtrlCommand, "2"},
		{CtrlCommand, "0"},
		{CtrlCommand, "7"},
	})
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected a completed reply")
	}
	if r.Raw != 0xF0390000 {
		t.Errorf("Raw = 0x%08X, want 0xF0390000", r.Raw)
	}
}

func TestReplyMachine_RejectionWithoutConfirmation(t *testing.T) {
	m := NewReplyMachine(CmdRead, 25, 0, "", "")
	r, err := feedAll(t, m, []controlUpdate{
		{CtrlCommand, "2"},
		{CtrlCommand, "6"},
	})
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected a completed reply")
	}
	want := opentherm.NewFrame(opentherm.DataInvalid, 25, 0).Encode()
	if r.Raw != want {
		t.Errorf("Raw = 0x%08X, want 0x%08X", r.Raw, want)
	}
}

func TestReplyMachine_AckWithoutConfirmation(t *testing.T) {
	// the driver can skip the zero confirmation on "TR Command"
	m := NewReplyMachine(CmdRead, 25, 0, "", "")
	r, err := feedAll(t, m, []controlUpdate{
		{CtrlCommand, "2"},
		{CtrlCommand, "4"},
		{CtrlData, "0"},
		{CtrlData, "5248"},
	})
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected a completed reply")
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 0x1480).Encode()
	if r.Raw != want {
		t.Errorf("Raw = 0x%08X, want 0x%08X", r.Raw, want)
	}
}

func TestReplyMachine_EarlyResponseData(t *testing.T) {
	// response data lands before the ack, without its own echo
	m := NewReplyMachine(CmdRead, 25, 0, "", "")
	r, err := feedAll(t, m, []controlUpdate{
		{CtrlCommand, "2"},
		{CtrlCommand, "0"},
		{CtrlData, "5248"},
		{CtrlCommand, "4"},
	})
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected a completed reply")
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 0x1480).Encode()
	if r.Raw != want {
		t.Errorf("Raw = 0x%08X, want 0x%08X", r.Raw, want)
	}
}

func TestReplyMachine_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		updates []controlUpdate
		wantMsg string
	}{
		{
			"gateway refuses the command",
			[]controlUpdate{{CtrlCommand, "2"}, {CtrlCommand, "1"}},
			"invalid nevoton command",
		},
		{
			"wrong command echo",
			[]controlUpdate{{CtrlCommand, "9"}},
			"command validation error",
		},
		{
			"garbage confirmation",
			[]controlUpdate{{CtrlCommand, "2"}, {CtrlCommand, "glort"}},
			"invalid response",
		},
		{
			"wrong ack type",
			[]controlUpdate{{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "5"}},
			"invalid opentherm response (5)",
		},
		{
			"data before the command echo",
			[]controlUpdate{{CtrlData, "77"}},
			"command validation error",
		},
		{
			"non-numeric response data",
			[]controlUpdate{
				{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"},
				{CtrlData, "0"}, {CtrlData, "glort"},
			},
			"non-numeric response data (glort)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewReplyMachine(CmdRead, 25, 0, "", "")
			var lastErr error
			for _, u := range tt.updates {
				if _, lastErr = m.Feed(u.ctrl, u.payload); lastErr != nil {
					break
				}
			}
			if lastErr == nil {
				t.Fatal("Expected a validation error")
			}
			if lastErr.Error() != tt.wantMsg {
				t.Errorf("Error = %q, want %q", lastErr.Error(), tt.wantMsg)
			}
			if classOf(t, lastErr) != opentherm.ValidationError {
				t.Errorf("Expected ValidationError, got %v", classOf(t, lastErr))
			}
		})
	}
}

func TestReplyMachine_IgnoresLateCommandUpdates(t *testing.T) {
	m := NewReplyMachine(CmdRead, 25, 0, "", "")
	for _, u := range []controlUpdate{
		{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"}, {CtrlCommand, "6"},
	} {
		r, err := m.Feed(u.ctrl, u.payload)
		if err != nil {
			t.Fatalf("Feed(%q) returned error: %v", u.payload, err)
		}
		if r.Done {
			t.Fatalf("Feed(%q) completed without response data", u.payload)
		}
	}
}

// ============================================================
// Salvage Tests
// ============================================================

func TestReplyMachine_SalvageFromRetained(t *testing.T) {
	// ack arrived but the data control never republished its value
	m := NewReplyMachine(CmdRead, 25, 0, "25", "5248")
	for _, u := range []controlUpdate{
		{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"},
	} {
		if r, err := m.Feed(u.ctrl, u.payload); err != nil || r.Done {
			t.Fatalf("Feed(%q) = (%v, %v)", u.payload, r, err)
		}
	}
	r, err := m.Salvage()
	if err != nil {
		t.Fatalf("Salvage returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected salvage to complete")
	}
	want := opentherm.NewFrame(opentherm.ReadAck, 25, 0x1480).Encode()
	if r.Raw != want {
		t.Errorf("Raw = 0x%08X, want 0x%08X", r.Raw, want)
	}
}

func TestReplyMachine_SalvageAfterIDUpdate(t *testing.T) {
	// the id arrives as a live update instead of the retained seed
	m := NewReplyMachine(CmdRead, 25, 0, "", "5248")
	for _, u := range []controlUpdate{
		{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"}, {CtrlID, "25"},
	} {
		if r, err := m.Feed(u.ctrl, u.payload); err != nil || r.Done {
			t.Fatalf("Feed(%q) = (%v, %v)", u.payload, r, err)
		}
	}
	r, err := m.Salvage()
	if err != nil {
		t.Fatalf("Salvage returned error: %v", err)
	}
	if !r.Done {
		t.Fatal("Expected salvage to complete")
	}
}

func TestReplyMachine_SalvageGuards(t *testing.T) {
	tests := []struct {
		name    string
		lastID  string
		updates []controlUpdate
	}{
		{
			"no ack yet",
			"25",
			[]controlUpdate{{CtrlCommand, "2"}},
		},
		{
			"stale id",
			"12",
			[]controlUpdate{{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewReplyMachine(CmdRead, 25, 0, tt.lastID, "5248")
			for _, u := range tt.updates {
				m.Feed(u.ctrl, u.payload)
			}
			if r, _ := m.Salvage(); r.Done {
				t.Error("Expected salvage to refuse")
			}
		})
	}
}

func TestReplyMachine_SalvageNonNumericData(t *testing.T) {
	m := NewReplyMachine(CmdRead, 25, 0, "25", "glort")
	for _, u := range []controlUpdate{
		{CtrlCommand, "2"}, {CtrlCommand, "0"}, {CtrlCommand, "4"},
	} {
		m.Feed(u.ctrl, u.payload)
	}
	_, err := m.Salvage()
	if err == nil {
		t.Fatal("Expected an error")
	}
	want := "non-numeric response data (glort)"
	if err.Error() != want {
		t.Errorf("Error = %q, want %q", err.Error(), want)
	}
}
