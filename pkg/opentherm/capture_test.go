// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"
)

// ============================================================
// Capture File Tests
// ============================================================

func TestCapture_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.capture")

	rec, err := NewRecorder(path, "mqtt")
	if err != nil {
		t.Fatalf("NewRecorder error: %v", err)
	}
	resp := uint32(0xC0191480)
	if err := rec.Append(0x80190000, &resp, "ok"); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := rec.Append(0x80190000, nil, "No response from Nevoton driver"); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	cr, err := OpenCapture(path)
	if err != nil {
		t.Fatalf("OpenCapture error: %v", err)
	}
	defer cr.Close()

	first, err := cr.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if first.Version != CaptureVersion {
		t.Errorf("Expected version %d, got %d", CaptureVersion, first.Version)
	}
	if first.Transport != "mqtt" {
		t.Errorf("Expected transport mqtt, got %q", first.Transport)
	}
	if first.Request != 0x80190000 {
		t.Errorf("Expected request 0x80190000, got 0x%08X", first.Request)
	}
	if first.Response == nil || *first.Response != 0xC0191480 {
		t.Errorf("Expected response 0xC0191480, got %v", first.Response)
	}
	if first.Note != "ok" {
		t.Errorf("Expected note ok, got %q", first.Note)
	}
	if _, err := time.Parse(time.RFC3339Nano, first.Timestamp); err != nil {
		t.Errorf("Timestamp not RFC3339: %v", err)
	}

	second, err := cr.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if second.Response != nil {
		t.Errorf("Expected nil response on a failed exchange, got %v", second.Response)
	}
	if second.Note != "No response from Nevoton driver" {
		t.Errorf("Unexpected note: %q", second.Note)
	}

	if _, err := cr.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF after the last record, got %v", err)
	}
}

func TestCapture_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.capture")

	for run := 0; run < 2; run++ {
		rec, err := NewRecorder(path, "serial")
		if err != nil {
			t.Fatalf("NewRecorder error: %v", err)
		}
		if err := rec.Append(uint32(run), nil, "ok"); err != nil {
			t.Fatalf("Append error: %v", err)
		}
		if err := rec.Close(); err != nil {
			t.Fatalf("Close error: %v", err)
		}
	}

	cr, err := OpenCapture(path)
	if err != nil {
		t.Fatalf("OpenCapture error: %v", err)
	}
	defer cr.Close()
	count := 0
	for {
		if _, err := cr.Next(); err != nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("Expected 2 records across sessions, got %d", count)
	}
}

func TestCapture_MissingFile(t *testing.T) {
	if _, err := OpenCapture(filepath.Join(t.TempDir(), "absent.capture")); err == nil {
		t.Error("Expected error for a missing capture file")
	}
}

// ============================================================
// Capturing Transport Tests
// ============================================================

func TestWithCapture_RecordsExchanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.capture")
	rec, err := NewRecorder(path, "mqtt")
	if err != nil {
		t.Fatalf("NewRecorder error: %v", err)
	}

	calls := 0
	ft := &fakeTransport{script: func(request uint32) (uint32, error) {
		calls++
		if calls == 2 {
			return 0, timeoutError()
		}
		req, _ := Decode(request)
		return NewFrame(ReadAck, req.DataID(), 0x1480).Encode(), nil
	}}

	wrapped := WithCapture(ft, rec)
	s := NewSession(wrapped, RetryPolicy{})

	if _, err := s.Read(context.Background(), 25, 0); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if _, err := s.Read(context.Background(), 25, 0); err == nil {
		t.Fatal("Expected timeout on second read")
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	cr, err := OpenCapture(path)
	if err != nil {
		t.Fatalf("OpenCapture error: %v", err)
	}
	defer cr.Close()

	first, err := cr.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if first.Response == nil || first.Note != "ok" {
		t.Errorf("Expected recorded success, got %+v", first)
	}

	second, err := cr.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if second.Response != nil {
		t.Errorf("Expected nil response on failure, got %v", second.Response)
	}
	if second.Note != "No response from Nevoton driver" {
		t.Errorf("Expected failure note, got %q", second.Note)
	}
}

func TestWithCapture_CloseReachesInner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.capture")
	rec, err := NewRecorder(path, "mqtt")
	if err != nil {
		t.Fatalf("NewRecorder error: %v", err)
	}
	defer rec.Close()

	ft := ackTransport(nil)
	wrapped := WithCapture(ft, rec)
	if err := wrapped.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !ft.closed {
		t.Error("Expected inner transport closed")
	}
}

func TestWithCapture_FailureDoesNotMaskError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.capture")
	rec, err := NewRecorder(path, "mqtt")
	if err != nil {
		t.Fatalf("NewRecorder error: %v", err)
	}
	defer rec.Close()

	ft := &fakeTransport{script: func(uint32) (uint32, error) {
		return 0, &ExchangeError{Class: TransportFailure, Message: "connection lost"}
	}}
	wrapped := WithCapture(ft, rec)

	_, err = wrapped.Exchange(context.Background(), 0x80190000)
	var xe *ExchangeError
	if !errors.As(err, &xe) || xe.Class != TransportFailure {
		t.Errorf("Expected transport failure surfaced, got %v", err)
	}
}
