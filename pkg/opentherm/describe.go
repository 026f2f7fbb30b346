// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// uncatalogedError reports an id or direction with no catalog entry
type uncatalogedError string

// Error implements the error interface
func (e uncatalogedError) Error() string { return string(e) }

// NotCataloged reports whether a describe failure only means the id or
// direction has no catalog entry. Callers print a raw value dump for
// those instead of failing the operation.
func NotCataloged(err error) bool {
	var ue uncatalogedError
	return errors.As(err, &ue)
}

// memberIDKeys are the sub-entries whose value is a member-id code
var memberIDKeys = map[string]bool{
	"002:LB": true,
	"003:LB": true,
	"074:LB": true,
	"103:LB": true,
}

// Describe renders the annotated interpretation of one exchange: the
// request value for write ops and input-carrying reads, the response
// value for reads, with flag states, conditional descriptions, units,
// range checks and member names. dir is DirRead or DirWrite.
func (r *Registry) Describe(id uint8, dir Direction, sent, got uint16) (string, error) {
	key := Key(id)
	item, ok := r.LookupKey(key)
	if !ok {
		return "", uncatalogedError(fmt.Sprintf("Data-id %s is unknown", key))
	}
	// Entries readable and writable dispatch to their R/W variant rows
	if item.Dir == (DirRead | DirWrite) {
		text, err := r.describeDirected(key+dir.String(), dir, sent, got)
		if err != nil {
			return "", err
		}
		return item.Descr + ": " + text, nil
	}
	return r.describeDirected(key, dir, sent, got)
}

func (r *Registry) describeDirected(key string, dir Direction, sent, got uint16) (string, error) {
	item, ok := r.LookupKey(key)
	if !ok {
		return "", uncatalogedError(fmt.Sprintf("Data-id %s is unknown", key))
	}
	if item.Dir&dir == 0 {
		return "", uncatalogedError(fmt.Sprintf("Data-id %s/%s is unknown", key, dir))
	}

	if dir == DirRead {
		var b strings.Builder
		if item.Dir&DirInput != 0 {
			in, err := r.describeValue(key+"I", sent)
			if err != nil {
				return "", err
			}
			b.WriteString("Read input value:\n")
			b.WriteString(in)
			b.WriteString("\n")
		}
		resp, err := r.describeValue(key, got)
		if err != nil {
			return "", err
		}
		b.WriteString("Response:\n")
		b.WriteString(resp)
		return b.String(), nil
	}

	text, err := r.describeValue(key, sent)
	if err != nil {
		return "", err
	}
	return "Written:\n" + text + "\n", nil
}

// describeValue renders one catalog entry for one 16-bit value. Flag
// containers walk their sub-entries; everything else decodes whole.
func (r *Registry) describeValue(key string, value uint16) (string, error) {
	item, _ := r.LookupKey(key)

	if item.Kind != EncFlags {
		v, err := DecodeValue(value, item.Kind, item.Pos)
		if err != nil {
			return "", decodeFailure(value, item)
		}
		text := FormatValue(item.Kind, v)
		descr := selectClause(item.Descr, v, text) + "\n " + text + item.Units
		if v < item.Min || v > item.Max {
			descr += " - out of range!"
		}
		return descr, nil
	}

	descr := item.Descr
	for _, sub := range r.SubEntries(key) {
		v, err := DecodeValue(value, sub.Item.Kind, sub.Item.Pos)
		if err != nil {
			return "", decodeFailure(value, sub.Item)
		}
		text := FormatValue(sub.Item.Kind, v)
		if strings.Contains(sub.Item.Pos, "-") { // multi-bit sub-field
			descr += "\n " + selectClause(sub.Item.Descr, v, text) + " = " + text + sub.Item.Units
			if v < sub.Item.Min || v > sub.Item.Max {
				descr += " - out of range!"
			}
		} else if v != 0 {
			descr += "\n +" + sub.Item.Descr
		} else {
			descr += "\n -" + sub.Item.Descr
		}
		if memberIDKeys[key+":"+sub.Variant] {
			descr += " (" + MemberName(int(v)) + ")"
		}
	}
	return descr, nil
}

func decodeFailure(value uint16, item DataItem) error {
	return &ExchangeError{
		Class:   LocalEncodingError,
		Message: fmt.Sprintf("Unable to decode value '%d' as per fmt %s from pos %s", value, item.Kind, item.Pos),
	}
}

// selectClause resolves a conditional description ("==1 a;==10 b") for
// a decoded value. Descriptions without clauses pass through; a value
// matching no clause reports itself unknown.
func selectClause(descr string, v float64, text string) string {
	if !strings.Contains(descr, ";") {
		return descr
	}
	for _, clause := range strings.Split(descr, ";") {
		cond, rest, ok := strings.Cut(clause, " ")
		if ok && matchCond(cond, v) {
			return rest
		}
	}
	return "unknown value " + text
}

func matchCond(cond string, v float64) bool {
	ops := []string{"==", "!=", ">=", "<=", ">", "<"}
	for _, op := range ops {
		rest, found := strings.CutPrefix(cond, op)
		if !found {
			continue
		}
		bound, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return false
		}
		switch op {
		case "==":
			return v == bound
		case "!=":
			return v != bound
		case ">=":
			return v >= bound
		case "<=":
			return v <= bound
		case ">":
			return v > bound
		case "<":
			return v < bound
		}
	}
	return false
}
