// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OpKind represents the interpreter operations
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
	OpReadTSP
	OpWriteTSP
	OpReadErr
	OpScan
	OpFullScan
	OpInvalid
)

// CommandOp is one parsed operation. Arguments stay textual until the
// operation runs, so malformed input reports through the same path as
// the original tool. A non-nil Err is reported when the op executes.
type CommandOp struct {
	Kind    OpKind
	Arg     string // data-id, index, or range expression
	Literal string // value literal for write operations
	Err     error
}

// ParseBatch consumes the fixed-arity token grammar:
//
//	read|r <id>[/<literal>]
//	write|w <id> <literal>
//	readtsp|rt <start>[-<end>]
//	writetsp|wt <index> <literal>
//	readerr|re <index>
//	scan|s
//	fullscan|f [<start>[-<end>]]
//
// Unknown tokens and missing arguments become ops carrying an encoding
// error; parsing always continues with the next token.
func ParseBatch(tokens []string) []CommandOp {
	ops := []CommandOp{}
	i := 0
	for i < len(tokens) {
		switch tokens[i] {
		case "read", "r":
			if i+1 >= len(tokens) {
				ops = append(ops, CommandOp{Kind: OpRead, Err: encodingErr("No dataid to read")})
			} else {
				ops = append(ops, CommandOp{Kind: OpRead, Arg: tokens[i+1]})
			}
			i += 2
		case "write", "w":
			if i+1 >= len(tokens) || i+2 >= len(tokens) {
				ops = append(ops, CommandOp{Kind: OpWrite, Err: encodingErr("No dataid to write")})
			} else {
				ops = append(ops, CommandOp{Kind: OpWrite, Arg: tokens[i+1], Literal: tokens[i+2]})
			}
			i += 3
		case "readtsp", "rt":
			if i+1 >= len(tokens) {
				ops = append(ops, CommandOp{Kind: OpReadTSP, Err: encodingErr("No tspid to read")})
			} else {
				ops = append(ops, CommandOp{Kind: OpReadTSP, Arg: tokens[i+1]})
			}
			i += 2
		case "writetsp", "wt":
			if i+1 >= len(tokens) {
				ops = append(ops, CommandOp{Kind: OpWriteTSP, Err: encodingErr("No tspid to write")})
			} else if i+2 >= len(tokens) {
				ops = append(ops, CommandOp{Kind: OpWriteTSP, Err: encodingErr("No tsp data to write")})
			} else {
				ops = append(ops, CommandOp{Kind: OpWriteTSP, Arg: tokens[i+1], Literal: tokens[i+2]})
			}
			i += 3
		case "readerr", "re":
			if i+1 >= len(tokens) {
				ops = append(ops, CommandOp{Kind: OpReadErr, Err: encodingErr("No error idx to read")})
			} else {
				ops = append(ops, CommandOp{Kind: OpReadErr, Arg: tokens[i+1]})
			}
			i += 2
		case "scan", "s":
			ops = append(ops, CommandOp{Kind: OpScan})
			i++
		case "fullscan", "f":
			if i+1 < len(tokens) && leadsWithDigit(tokens[i+1]) {
				ops = append(ops, CommandOp{Kind: OpFullScan, Arg: tokens[i+1]})
				i += 2
			} else {
				ops = append(ops, CommandOp{Kind: OpFullScan})
				i++
			}
		default:
			ops = append(ops, CommandOp{Kind: OpInvalid, Err: encodingErr("Unknown command '%s'", tokens[i])})
			i++
		}
	}
	return ops
}

func leadsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// Interpreter executes command ops strictly in order over one session.
// Result lines go to Out, failure and retry notices to ErrOut.
type Interpreter struct {
	Session  *Session
	Registry *Registry
	Out      io.Writer
	ErrOut   io.Writer
	Verbose  bool
	Device   string       // transport identity shown in scan headers
	Selector SelectorMode // literal part combination, CombineOr when nil

	scanner *Scanner
}

// NewInterpreter creates an interpreter bound to a session and registry
func NewInterpreter(session *Session, registry *Registry) *Interpreter {
	return &Interpreter{
		Session:  session,
		Registry: registry,
		Out:      os.Stdout,
		ErrOut:   os.Stderr,
		scanner:  NewScanner(session, registry),
	}
}

// Execute runs the ops in order, continuing after per-operation
// failures. It returns the failed-op count and the last failure; a
// fatal failure aborts the remaining ops.
func (it *Interpreter) Execute(ctx context.Context, ops []CommandOp) (int, error) {
	failed := 0
	var last error
	for _, op := range ops {
		if err := it.execute(ctx, op); err != nil {
			failed++
			last = err
			if Fatal(err) {
				break
			}
		}
	}
	return failed, last
}

func (it *Interpreter) execute(ctx context.Context, op CommandOp) error {
	if op.Err != nil {
		return op.Err
	}
	switch op.Kind {
	case OpRead:
		return it.read(ctx, op.Arg)
	case OpWrite:
		return it.write(ctx, op.Arg, op.Literal)
	case OpReadTSP:
		return it.readTSP(ctx, op.Arg)
	case OpWriteTSP:
		return it.writeTSP(ctx, op.Arg, op.Literal)
	case OpReadErr:
		return it.readErr(ctx, op.Arg)
	case OpScan:
		return it.scan(ctx)
	case OpFullScan:
		return it.fullScan(ctx, op.Arg)
	}
	return encodingErr("Unknown command")
}

// ============================================================
// read / write
// ============================================================

func (it *Interpreter) read(ctx context.Context, arg string) error {
	idStr, literal, hasLiteral := strings.Cut(arg, "/")
	id64, err := strconv.ParseUint(idStr, 10, 8)
	if err != nil {
		return encodingErr("Non-numeric dataid (%s)", idStr)
	}
	id := uint8(id64)

	var prm uint16
	var selectors []FieldSelector
	if hasLiteral {
		prm, selectors, err = ParseValueMode(literal, it.selector())
		if err != nil {
			return encodingErr("Non-numeric prm (%s)", literal)
		}
	} else {
		prm = it.Registry.DefaultRequest(id)
	}

	if it.Verbose {
		suffix := ""
		if prm != 0 {
			suffix = fmt.Sprintf("/%d", prm)
		}
		fmt.Fprintf(it.Out, "Reading dataid %d%s...\n", id, suffix)
	}
	frame, err := it.exchange(ctx, it.Session.Read, id, prm, func(err error) {
		fmt.Fprintf(it.ErrOut, "Read of dataid %d/%d failed: %s\n", id, prm, err)
	})
	if err != nil {
		return it.classify(err, "Reading error")
	}

	if it.Verbose {
		fmt.Fprintf(it.Out, "Got dataid %d/%d opentherm read response %d/%s with data %d\n",
			id, prm, int(frame.Type()), frame.Type(), frame.Value())
		if err := it.describe(id, DirRead, prm, frame.Value()); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(it.Out, "%d: %d\n", id, frame.Value())
	}
	it.printSelectors(id, selectors, frame.Value())
	return nil
}

func (it *Interpreter) write(ctx context.Context, arg, literal string) error {
	id64, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return encodingErr("Non-numeric dataid (%s)", arg)
	}
	id := uint8(id64)
	prm, _, err := ParseValueMode(literal, it.selector())
	if err != nil {
		return encodingErr("Invalid prm value (%s)", literal)
	}

	if it.Verbose {
		fmt.Fprintf(it.Out, "Writing dataid %d with value %d...\n", id, prm)
	}
	frame, err := it.exchange(ctx, it.Session.Write, id, prm, func(err error) {
		fmt.Fprintf(it.ErrOut, "Write of dataid %d with %d failed: %s\n", id, prm, err)
	})
	if err != nil {
		return it.classify(err, "Writing error")
	}

	if it.Verbose {
		fmt.Fprintf(it.Out, "Got opentherm dataid %d with %d write response %d/%s with data %d\n",
			id, prm, int(frame.Type()), frame.Type(), frame.Value())
		if err := it.describe(id, DirWrite, prm, frame.Value()); err != nil {
			return opFailure(err, "Unexpected data from opentherm device")
		}
	} else {
		fmt.Fprintf(it.Out, "%d= %d\n", id, prm)
	}
	return nil
}

// ============================================================
// transparent slave parameters
// ============================================================

func (it *Interpreter) readTSP(ctx context.Context, arg string) error {
	if arg == "" {
		arg = "0"
	}
	startStr, endStr, dashed := strings.Cut(arg, "-")
	if !dashed {
		endStr = startStr
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return encodingErr("Non-numeric tspid (%s)", startStr)
	}
	end := -1
	if endStr != "" {
		end, err = strconv.Atoi(endStr)
		if err != nil {
			return encodingErr("Non-numeric last_tspid (%s)", endStr)
		}
	}

	if end < 0 {
		// open range: ask the appliance how many TSPs it has
		frame, err := it.exchange(ctx, it.Session.Read, IDTSPCount, 0, func(err error) {
			fmt.Fprintf(it.ErrOut, "Read of TSP size failed: %s\n", err)
		})
		if err != nil {
			return it.classify(err, "Unable to get number of TSP entries")
		}
		count := int(frame.HighByte())
		if it.Verbose {
			fmt.Fprintf(it.Out, "There are %d TSP registers reported by boiler...\n", count)
		}
		end = count - 1
	}

	if start >= 0 && end > 0 && start != end {
		start &= 0xFF
		end &= 0xFF
		if it.Verbose {
			fmt.Fprintf(it.Out, "Reading TSPs from %d to %d...\n", start, end)
		}
		for ti := start; ti <= end; ti++ {
			if err := it.readTSPEntry(ctx, uint8(ti)); err != nil && Fatal(err) {
				return err
			}
		}
		return nil
	}
	return it.readTSPEntry(ctx, uint8(start&0xFF))
}

func (it *Interpreter) readTSPEntry(ctx context.Context, index uint8) error {
	if it.Verbose {
		fmt.Fprintf(it.Out, "Reading Transparent Slave Parameter (TSP) %d...\n", index)
	}
	prm := uint16(index) << 8
	frame, err := it.exchange(ctx, it.Session.Read, IDTSPEntry, prm, func(err error) {
		fmt.Fprintf(it.ErrOut, "Read of TSP id %d failed: %s\n", index, err)
	})
	if err != nil {
		return it.classify(err, "TSP Reading error")
	}
	if it.Verbose {
		fmt.Fprintf(it.Out, "Got opentherm response %d/%s with data %d\n",
			int(frame.Type()), frame.Type(), frame.Value())
		if err := it.describe(IDTSPEntry, DirRead, prm, frame.Value()); err != nil {
			return opFailure(err, "Unexpected data from opentherm device")
		}
	} else {
		fmt.Fprintf(it.Out, "TSP%d: %d\n", index, frame.LowByte())
	}
	return nil
}

func (it *Interpreter) writeTSP(ctx context.Context, arg, literal string) error {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return encodingErr("Non-numeric tspid (%s)", arg)
	}
	index &= 0xFF
	data, _, err := ParseValueMode(literal, it.selector())
	if err != nil {
		return encodingErr("Non-numeric tspdata (%s)", literal)
	}
	data &= 0xFF

	if it.Verbose {
		fmt.Fprintf(it.Out, "Writing Transparent Slave Parameter (TSP) %d with %d...\n", index, data)
	}
	prm := uint16(index)<<8 | data
	frame, err := it.exchange(ctx, it.Session.Write, IDTSPEntry, prm, func(err error) {
		fmt.Fprintf(it.ErrOut, "Write of TSP id %d failed: %s\n", index, err)
	})
	if err != nil {
		return it.classify(err, "TSP Writing error")
	}
	if it.Verbose {
		fmt.Fprintf(it.Out, "Got opentherm response %d/%s with data %d\n",
			int(frame.Type()), frame.Type(), frame.Value())
		if err := it.describe(IDTSPEntry, DirWrite, prm, frame.Value()); err != nil {
			return opFailure(err, "Unexpected data from opentherm device")
		}
	} else {
		fmt.Fprintf(it.Out, "TSP%d= %d\n", index, frame.LowByte())
	}
	return nil
}

// ============================================================
// fault history buffer
// ============================================================

func (it *Interpreter) readErr(ctx context.Context, arg string) error {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return encodingErr("Non-numeric erridx (%s)", arg)
	}
	if index < 0 {
		// enumerate: ask for the fault history size first
		frame, err := it.exchange(ctx, it.Session.Read, IDFHBCount, 0, func(err error) {
			fmt.Fprintf(it.ErrOut, "Read of FHB size failed: %s\n", err)
		})
		if err != nil {
			return it.classify(err, "Unable to get number of FHB entries")
		}
		count := int(frame.HighByte())
		if it.Verbose {
			fmt.Fprintf(it.Out, "Reading %d FHBs...\n", count)
		}
		for fi := 0; fi < count; fi++ {
			if err := it.readErrEntry(ctx, uint8(fi)); err != nil && Fatal(err) {
				return err
			}
		}
		return nil
	}
	return it.readErrEntry(ctx, uint8(index&0xFF))
}

func (it *Interpreter) readErrEntry(ctx context.Context, index uint8) error {
	if it.Verbose {
		fmt.Fprintf(it.Out, "Reading Fault History Buffer (FHB) entry %d...\n", index)
	}
	prm := uint16(index) << 8
	frame, err := it.exchange(ctx, it.Session.Read, IDFHBEntry, prm, func(err error) {
		fmt.Fprintf(it.ErrOut, "Read of FHB entry %d failed: %s\n", index, err)
	})
	if err != nil {
		return it.classify(err, "FHB Reading error")
	}
	if it.Verbose {
		fmt.Fprintf(it.Out, "Got opentherm response %d/%s with data %d\n",
			int(frame.Type()), frame.Type(), frame.Value())
		if err := it.describe(IDFHBEntry, DirRead, prm, frame.Value()); err != nil {
			return opFailure(err, "Unexpected data from opentherm device")
		}
	} else {
		fmt.Fprintf(it.Out, "FHB%d: %d\n", index, frame.Value())
	}
	return nil
}

// ============================================================
// scans
// ============================================================

func (it *Interpreter) scan(ctx context.Context) error {
	fmt.Fprintf(it.Out, "Scanning all known readable data-id of '%s' device\n", it.Device)
	return it.scanner.ScanKnown(ctx, it.printScanEntry)
}

func (it *Interpreter) fullScan(ctx context.Context, arg string) error {
	if arg == "" {
		arg = "0-255"
	}
	startStr, endStr, dashed := strings.Cut(arg, "-")
	if !dashed {
		endStr = "255"
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return encodingErr("Non-numeric start_id (%s)", startStr)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return encodingErr("Non-numeric finish_id (%s)", endStr)
	}
	start &= 0xFF
	end &= 0xFF
	fmt.Fprintf(it.Out, "Full scanning  of '%s' device in range %d..%d\n", it.Device, start, end)
	return it.scanner.ScanRange(ctx, uint8(start), uint8(end), it.printScanEntry)
}

func (it *Interpreter) printScanEntry(e ScanEntry) {
	switch {
	case e.Result.Err != nil && e.TSP:
		fmt.Fprintf(it.Out, "TSP%d: not supported\n", e.Index)
	case e.Result.Err != nil:
		fmt.Fprintf(it.Out, "%d: not supported\n", e.ID)
	case e.TSP:
		fmt.Fprintf(it.Out, "TSP%d: %d\n", e.Index, e.Result.Value&0xFF)
	default:
		fmt.Fprintf(it.Out, "%d: %d\n", e.ID, e.Result.Value)
	}
}

// ============================================================
// shared plumbing
// ============================================================

// exchange runs one session exchange with the op-specific failure line
// wired into the retry announcements and printed for the final failure.
func (it *Interpreter) exchange(ctx context.Context, send func(context.Context, uint8, uint16) (Frame, error), id uint8, prm uint16, fail func(error)) (Frame, error) {
	it.Session.SetNotify(func(err error) {
		fail(err)
		fmt.Fprintln(it.ErrOut, "Retrying...")
	})
	defer it.Session.SetNotify(nil)
	frame, err := send(ctx, id, prm)
	if err != nil {
		fail(err)
	}
	return frame, err
}

// classify turns a failed exchange into the op result: rejections keep
// their class under the original's "Opentherm error" banner, fatal
// failures pass through, everything else reports the exhausted message.
func (it *Interpreter) classify(err error, exhausted string) error {
	var xe *ExchangeError
	if errors.As(err, &xe) && (xe.Class == RejectedUnknownID || xe.Class == RejectedInvalidData) {
		return &ExchangeError{
			Class:   xe.Class,
			Message: "Opentherm error " + xe.Kind.String(),
			Kind:    xe.Kind,
			Value:   xe.Value,
		}
	}
	if Fatal(err) {
		return err
	}
	return opFailure(err, exhausted)
}

func opFailure(err error, message string) error {
	out := &ExchangeError{Class: ProtocolError, Message: message}
	var xe *ExchangeError
	if errors.As(err, &xe) {
		out.Class = xe.Class
		out.Kind = xe.Kind
		out.Value = xe.Value
	}
	return out
}

// describe renders the verbose interpretation. Ids the catalog does not
// know dump as hex/binary and the operation still succeeds; values that
// fail to decode surface as errors.
func (it *Interpreter) describe(id uint8, dir Direction, sent, got uint16) error {
	text, err := it.Registry.Describe(id, dir, sent, got)
	if err != nil {
		if NotCataloged(err) {
			fmt.Fprintln(it.Out, err)
			fmt.Fprintf(it.Out, "In hex: 0x%04x / In binary: %016b\n", got, got)
			return nil
		}
		return err
	}
	fmt.Fprintln(it.Out, text)
	return nil
}

func (it *Interpreter) printSelectors(id uint8, selectors []FieldSelector, value uint16) {
	for _, sel := range selectors {
		fmt.Fprintf(it.Out, "%d:%s: %d\n", id, sel, sel.Extract(value))
	}
}

func (it *Interpreter) selector() SelectorMode {
	if it.Selector != nil {
		return it.Selector
	}
	return CombineOr
}
