// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldSelector is the positional tag of a literal part ("HB", "LB3",
// "B5", "B1-3"). Positional parts both place their value in the request
// and select the matching sub-field of the response for reporting.
type FieldSelector string

// Extract returns the sub-field of a 16-bit value the selector names.
// Selectors are validated when parsed, so extraction cannot fail.
func (s FieldSelector) Extract(value uint16) uint16 {
	switch {
	case s == "HB":
		return value >> 8
	case s == "LB":
		return value & 0xFF
	case strings.HasPrefix(string(s), "HB"), strings.HasPrefix(string(s), "LB"):
		v, _ := ExtractBits(value, string(s))
		return v
	default: // B<n> or B<l>-<h>
		rest := strings.TrimPrefix(string(s), "B")
		if lo, hi, ok := strings.Cut(rest, "-"); ok {
			l, _ := strconv.Atoi(lo)
			h, _ := strconv.Atoi(hi)
			mask := uint16(1)<<uint(h-l+1) - 1
			return value >> uint(l) & mask
		}
		n, _ := strconv.Atoi(rest)
		return value >> uint(n) & 1
	}
}

// SelectorMode combines the value contributions of a multi-part literal
// into one request value.
type SelectorMode func(acc, part uint16) uint16

// CombineOr merges contributions bitwise. Well-formed parts occupy
// disjoint bits, so OR never carries into a neighbouring field.
func CombineOr(acc, part uint16) uint16 {
	return acc | part
}

// ParseValue parses an operator value literal into a 16-bit request value
// and the positional selectors it mentions. A literal is one or more
// `+`-joined parts; each part is a number with an optional `%<tag>` suffix:
//
//	70              decimal or 0x hex, 16 bits
//	1.5%F8.8        fixed point 8.8
//	200%U8 -2%S8    byte, low 8 bits
//	700%U16 -7%S16  full word
//	1%B5 3%B1-3     word bit / bit span
//	2%HB 1%HB3      high byte / high-byte bit
//	9%LB 1%LB0      low byte / low-byte bit
func ParseValue(literal string) (uint16, []FieldSelector, error) {
	return ParseValueMode(literal, CombineOr)
}

// ParseValueMode is ParseValue with an explicit combination mode
func ParseValueMode(literal string, mode SelectorMode) (uint16, []FieldSelector, error) {
	var value uint16
	var selectors []FieldSelector
	for _, part := range strings.Split(literal, "+") {
		v, sel, err := parsePart(part)
		if err != nil {
			return 0, nil, err
		}
		value = mode(value, v)
		if sel != "" {
			selectors = append(selectors, sel)
		}
	}
	return value, selectors, nil
}

func parsePart(part string) (uint16, FieldSelector, error) {
	num, tag, tagged := strings.Cut(part, "%")
	if !tagged {
		v, err := parseInt16(num)
		if err != nil {
			return 0, "", encodingErr("invalid numeric value %q", part)
		}
		return v, "", nil
	}

	if tag == "F8.8" {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, "", encodingErr("invalid fixed-point value %q", part)
		}
		return uint16(int64(math.Round(f*256)) & 0xFFFF), "", nil
	}

	n, err := parseIntRaw(num)
	if err != nil {
		return 0, "", encodingErr("invalid numeric value %q", part)
	}

	switch {
	case tag == "U8", tag == "S8":
		return uint16(n & 0xFF), "", nil
	case tag == "U16", tag == "S16":
		return uint16(n & 0xFFFF), "", nil
	case tag == "HB":
		return uint16(n&0xFF) << 8, "HB", nil
	case tag == "LB":
		return uint16(n & 0xFF), "LB", nil
	case strings.HasPrefix(tag, "HB"):
		b, err := strconv.Atoi(tag[2:])
		if err != nil || b < 0 || b > 7 {
			return 0, "", encodingErr("invalid bit number in %q", part)
		}
		return uint16(n&1) << uint(8+b), FieldSelector(tag), nil
	case strings.HasPrefix(tag, "LB"):
		b, err := strconv.Atoi(tag[2:])
		if err != nil || b < 0 || b > 7 {
			return 0, "", encodingErr("invalid bit number in %q", part)
		}
		return uint16(n&1) << uint(b), FieldSelector(tag), nil
	case strings.HasPrefix(tag, "B"):
		rest := tag[1:]
		if lo, hi, ok := strings.Cut(rest, "-"); ok {
			l, err1 := strconv.Atoi(lo)
			h, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil || l < 0 || h > 15 || l > h {
				return 0, "", encodingErr("invalid bit span in %q", part)
			}
			mask := int64(1)<<uint(h-l+1) - 1
			return uint16(n&mask) << uint(l), FieldSelector(tag), nil
		}
		b, err := strconv.Atoi(rest)
		if err != nil || b < 0 || b > 15 {
			return 0, "", encodingErr("invalid bit number in %q", part)
		}
		return uint16(n&1) << uint(b), FieldSelector(tag), nil
	default:
		return 0, "", encodingErr("invalid number format %q", tag)
	}
}

// parseInt16 accepts decimal (negative allowed, two's complement) and 0x
// hex, masked to 16 bits
func parseInt16(s string) (uint16, error) {
	n, err := parseIntRaw(s)
	if err != nil {
		return 0, err
	}
	return uint16(n & 0xFFFF), nil
}

func parseIntRaw(s string) (int64, error) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		v, err := strconv.ParseUint(rest, 16, 16)
		return int64(v), err
	}
	return strconv.ParseInt(s, 10, 64)
}

func encodingErr(format string, args ...interface{}) *ExchangeError {
	return &ExchangeError{
		Class:   LocalEncodingError,
		Message: fmt.Sprintf(format, args...),
	}
}
