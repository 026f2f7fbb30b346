// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"errors"
	"strconv"
	"strings"
)

// ErrSkipLine marks feed lines carrying bridge diagnostics rather than
// a frame. Callers count and discard them.
var ErrSkipLine = errors.New("not a frame line")

// FeedFrame is one frame observed on an eavesdrop feed
type FeedFrame struct {
	Source rune // 'T' thermostat (master), 'B' boiler (slave)
	Frame  Frame
	Raw    uint32
}

// ParseFeedLine decodes one line of the serial bridge eavesdrop format:
// a direction prefix 'T' or 'B' followed by exactly eight hex digits.
// Lines of any other shape return ErrSkipLine; well-formed lines whose
// frame fails parity or spare validation return the decode error.
func ParseFeedLine(line string) (FeedFrame, error) {
	line = strings.TrimSpace(line)
	if len(line) != 9 {
		return FeedFrame{}, ErrSkipLine
	}
	src := rune(line[0])
	if src != 'T' && src != 'B' {
		return FeedFrame{}, ErrSkipLine
	}
	raw, err := strconv.ParseUint(line[1:], 16, 32)
	if err != nil {
		return FeedFrame{}, ErrSkipLine
	}
	frame, err := Decode(uint32(raw))
	if err != nil {
		return FeedFrame{}, err
	}
	return FeedFrame{Source: src, Frame: frame, Raw: uint32(raw)}, nil
}
