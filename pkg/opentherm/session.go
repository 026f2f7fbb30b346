// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Transport carries one raw frame to the gateway and returns the raw
// response frame. Implementations block until the response arrives,
// their own timeout expires, or the context is cancelled.
type Transport interface {
	Exchange(ctx context.Context, request uint32) (uint32, error)
	Close() error
}

// DefaultRetryLimit is the attempt bound applied when retrying is on
const DefaultRetryLimit = 5

// RetryPolicy bounds the attempts of one logical exchange. The zero
// value makes exactly one attempt.
type RetryPolicy struct {
	Limit int           // total attempts, including the first
	Delay time.Duration // pause between attempts
}

// Session drives OpenTherm exchanges over a transport, strictly one
// frame in flight at a time. Retryable failures repeat up to the retry
// limit; rejections are answers and return immediately together with
// the response frame.
type Session struct {
	mu        sync.Mutex
	transport Transport
	retry     RetryPolicy
	notify    func(error)
}

// NewSession creates a session over a connected transport
func NewSession(t Transport, retry RetryPolicy) *Session {
	return &Session{transport: t, retry: retry}
}

// SetNotify installs a callback invoked with the failed attempt's error
// before every repeated attempt
func (s *Session) SetNotify(fn func(error)) {
	s.notify = fn
}

// Read performs one READ-DATA exchange, expecting READ-ACK
func (s *Session) Read(ctx context.Context, id uint8, value uint16) (Frame, error) {
	return s.exchange(ctx, NewFrame(ReadData, id, value), ReadAck)
}

// Write performs one WRITE-DATA exchange, expecting WRITE-ACK
func (s *Session) Write(ctx context.Context, id uint8, value uint16) (Frame, error) {
	return s.exchange(ctx, NewFrame(WriteData, id, value), WriteAck)
}

// Close closes the underlying transport
func (s *Session) Close() error {
	return s.transport.Close()
}

func (s *Session) exchange(ctx context.Context, req Frame, ack MsgType) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := s.retry.Limit
	if attempts < 1 {
		attempts = 1
	}

	var frame Frame
	var err error
	for attempt := 1; ; attempt++ {
		frame, err = s.attempt(ctx, req, ack)
		if err == nil {
			return frame, nil
		}
		if !Retryable(err) || attempt >= attempts {
			return frame, err
		}
		if s.notify != nil {
			s.notify(err)
		}
		if waitErr := s.pause(ctx); waitErr != nil {
			return Frame{}, waitErr
		}
	}
}

func (s *Session) pause(ctx context.Context) error {
	if s.retry.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.retry.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// attempt runs one request/response cycle and validates the response.
// Rejection errors carry the decoded response frame alongside.
func (s *Session) attempt(ctx context.Context, req Frame, ack MsgType) (Frame, error) {
	raw, err := s.transport.Exchange(ctx, req.Encode())
	if err != nil {
		return Frame{}, err
	}
	resp, err := Decode(raw)
	if err != nil {
		return Frame{}, err
	}
	if resp.DataID() != req.DataID() {
		return resp, &ExchangeError{
			Class:   ProtocolError,
			Message: fmt.Sprintf("response data-id %d does not match request data-id %d", resp.DataID(), req.DataID()),
			Kind:    resp.Type(),
			Value:   resp.Value(),
		}
	}
	switch resp.Type() {
	case ack:
		return resp, nil
	case DataInvalid, UnknownDataID:
		return resp, Reject(resp.Type(), resp.Value())
	default:
		return resp, &ExchangeError{
			Class:   ProtocolError,
			Message: fmt.Sprintf("got %s response to %s request", resp.Type(), req.Type()),
			Kind:    resp.Type(),
			Value:   resp.Value(),
		}
	}
}
