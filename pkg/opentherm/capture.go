// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// CaptureVersion is the schema version stamped into every record
const CaptureVersion = 1

// Record is one captured exchange
type Record struct {
	Version   int     `cbor:"v"`
	Timestamp string  `cbor:"ts"` // RFC3339 with nanoseconds
	Transport string  `cbor:"dir"`
	Request   uint32  `cbor:"req"`
	Response  *uint32 `cbor:"resp,omitempty"`
	Note      string  `cbor:"note,omitempty"`
}

// Recorder appends exchange records to a capture file, one CBOR map per
// exchange. A mutex keeps it safe for a single shared writer.
type Recorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *cbor.Encoder
	name string
}

// NewRecorder opens a capture file for appending. The transport name is
// stamped into every record.
func NewRecorder(path, transport string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	return &Recorder{file: f, enc: cbor.NewEncoder(f), name: transport}, nil
}

// Append writes one exchange record
func (r *Recorder) Append(request uint32, response *uint32, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(Record{
		Version:   CaptureVersion,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Transport: r.name,
		Request:   request,
		Response:  response,
		Note:      note,
	})
}

// Close closes the capture file
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// CaptureReader iterates the records of a capture file
type CaptureReader struct {
	file *os.File
	dec  *cbor.Decoder
}

// OpenCapture opens a capture file for reading
func OpenCapture(path string) (*CaptureReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	return &CaptureReader{file: f, dec: cbor.NewDecoder(f)}, nil
}

// Next returns the next record, io.EOF after the last one
func (cr *CaptureReader) Next() (Record, error) {
	var rec Record
	if err := cr.dec.Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Close closes the capture file
func (cr *CaptureReader) Close() error {
	return cr.file.Close()
}

type capturingTransport struct {
	inner Transport
	rec   *Recorder
}

// WithCapture wraps a transport so that every exchange lands in the
// capture file. Capture failures never fail the exchange.
func WithCapture(t Transport, rec *Recorder) Transport {
	return &capturingTransport{inner: t, rec: rec}
}

func (c *capturingTransport) Exchange(ctx context.Context, request uint32) (uint32, error) {
	resp, err := c.inner.Exchange(ctx, request)
	if err != nil {
		_ = c.rec.Append(request, nil, err.Error())
		return resp, err
	}
	got := resp
	_ = c.rec.Append(request, &got, "ok")
	return resp, nil
}

func (c *capturingTransport) Close() error {
	return c.inner.Close()
}
