// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractBits returns the sub-field of a 16-bit value selected by a
// catalog bit position: "HB<n>" / "LB<n>" for single bits of the high or
// low byte, "<l>-<h>" for an inclusive bit span of the whole word.
func ExtractBits(value uint16, pos string) (uint16, error) {
	switch {
	case strings.HasPrefix(pos, "LB"):
		n, err := strconv.Atoi(pos[2:])
		if err != nil || n < 0 || n > 7 {
			return 0, fmt.Errorf("invalid bit position %q", pos)
		}
		return value >> uint(n) & 1, nil
	case strings.HasPrefix(pos, "HB"):
		n, err := strconv.Atoi(pos[2:])
		if err != nil || n < 0 || n > 7 {
			return 0, fmt.Errorf("invalid bit position %q", pos)
		}
		return value >> uint(8+n) & 1, nil
	default:
		lo, hi, ok := strings.Cut(pos, "-")
		if !ok {
			return 0, fmt.Errorf("invalid bit position %q", pos)
		}
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || l < 0 || h > 15 || l > h {
			return 0, fmt.Errorf("invalid bit span %q", pos)
		}
		mask := uint16(1)<<uint(h-l+1) - 1
		return value >> uint(l) & mask, nil
	}
}

// DecodeValue interprets a raw 16-bit value under an encoding. For the
// byte-wide kinds a non-empty bit position narrows the value first.
func DecodeValue(value uint16, kind Encoding, pos string) (float64, error) {
	switch kind {
	case EncU8, EncFlags:
		v := value & 0xFF
		if pos != "" {
			sub, err := ExtractBits(value, pos)
			if err != nil {
				return 0, err
			}
			v = sub & 0xFF
		}
		return float64(v), nil
	case EncS8:
		v := value & 0xFF
		if pos != "" {
			sub, err := ExtractBits(value, pos)
			if err != nil {
				return 0, err
			}
			v = sub & 0xFF
		}
		if v > 127 {
			return float64(v) - 256, nil
		}
		return float64(v), nil
	case EncU16:
		return float64(value), nil
	case EncS16:
		return float64(int16(value)), nil
	case EncF88:
		return float64(int16(value)) / 256, nil
	default:
		return 0, fmt.Errorf("no decoding for format %q", kind)
	}
}

// FormatValue renders a decoded value: integer kinds bare, fixed point
// with up to three decimals and trailing zeros stripped.
func FormatValue(kind Encoding, v float64) string {
	if kind == EncF88 {
		s := strconv.FormatFloat(v, 'f', 3, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimRight(s, ".")
	}
	return strconv.FormatInt(int64(v), 10)
}
