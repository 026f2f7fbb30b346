// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass represents the failure classes of an exchange
type ErrorClass int

const (
	// ProtocolError covers parity or spare-bit failures, response id
	// mismatches, and inconsistent gateway replies.
	ProtocolError ErrorClass = iota
	// TransportTimeout means the gateway answered nothing in time.
	TransportTimeout
	// RejectedUnknownID is an UNKNOWN-DATAID response from the slave.
	RejectedUnknownID
	// RejectedInvalidData is a DATA-INVALID response from the slave.
	RejectedInvalidData
	// ValidationError means the gateway refused the command before the bus.
	ValidationError
	// LocalEncodingError means the operator input never became a frame.
	LocalEncodingError
	// TransportFailure means the gateway or its driver is unreachable.
	TransportFailure
	// ConfigError means the transport selection or endpoint is unusable.
	ConfigError
)

var errorClassNames = [...]string{
	"protocol error",
	"timeout",
	"unknown data-id",
	"data invalid",
	"validation error",
	"encoding error",
	"transport failure",
	"configuration error",
}

// String returns a short human-readable class name
func (c ErrorClass) String() string {
	if c < 0 || int(c) >= len(errorClassNames) {
		return "unknown error"
	}
	return errorClassNames[c]
}

// ExchangeError represents a failed exchange or a refused operation
type ExchangeError struct {
	Class   ErrorClass
	Message string
	Kind    MsgType // response message type, when one arrived
	Value   uint16  // response data value, when one arrived
}

// Error implements the error interface
func (e *ExchangeError) Error() string {
	return e.Message
}

// Reject builds the error for a slave rejection response
func Reject(kind MsgType, value uint16) *ExchangeError {
	class := RejectedInvalidData
	if kind == UnknownDataID {
		class = RejectedUnknownID
	}
	return &ExchangeError{
		Class:   class,
		Message: fmt.Sprintf("got %s/%d response", kind, int(kind)),
		Kind:    kind,
		Value:   value,
	}
}

// Retryable reports whether another attempt could change the outcome.
// Slave rejections are authoritative answers and never retry.
func Retryable(err error) bool {
	var xe *ExchangeError
	if !errors.As(err, &xe) {
		return false
	}
	switch xe.Class {
	case ProtocolError, TransportTimeout, ValidationError:
		return true
	}
	return false
}

// Fatal reports whether the failure ends the whole run: the gateway is
// gone, the configuration is unusable, or the operator interrupted.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var xe *ExchangeError
	if !errors.As(err, &xe) {
		return false
	}
	return xe.Class == TransportFailure || xe.Class == ConfigError
}
