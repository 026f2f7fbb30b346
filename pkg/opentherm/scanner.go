// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import "context"

// ExchangeResult captures the outcome of one scan probe
type ExchangeResult struct {
	Kind  MsgType
	Value uint16
	Err   error
}

// ScanEntry is one probed slot reported during a scan
type ScanEntry struct {
	ID     uint8
	TSP    bool  // probe was a transparent slave parameter slot
	Index  uint8 // TSP slot index when TSP is set
	Result ExchangeResult
}

// Scanner probes data ids over a session and reports every probe
// through a callback. Rejections are answers and never stop a scan;
// only fatal transport or configuration failures abort it.
type Scanner struct {
	session  *Session
	registry *Registry
}

// NewScanner creates a scanner over a session
func NewScanner(session *Session, registry *Registry) *Scanner {
	return &Scanner{session: session, registry: registry}
}

// ScanKnown probes every catalogued readable data id in ascending
// order. A successful read of the TSP count (data-id 10) inserts an
// enumeration of the reported TSP slots, and the TSP entry id 11 is
// then skipped in the main pass.
func (s *Scanner) ScanKnown(ctx context.Context, emit func(ScanEntry)) error {
	skipTSPEntry := false
	for _, id := range s.registry.ReadableIDs() {
		if skipTSPEntry && id == IDTSPEntry {
			continue
		}
		frame, err := s.session.Read(ctx, id, s.registry.DefaultRequest(id))
		emit(ScanEntry{ID: id, Result: probeResult(frame, err)})
		if err != nil {
			if Fatal(err) {
				return err
			}
			continue
		}
		if id == IDTSPCount {
			skipTSPEntry = true
			if err := s.scanTSP(ctx, frame.HighByte(), emit); err != nil {
				return err
			}
		}
	}
	return nil
}

// Scan probes an explicit candidate list in the order given
func (s *Scanner) Scan(ctx context.Context, ids []uint8, emit func(ScanEntry)) error {
	for _, id := range ids {
		frame, err := s.session.Read(ctx, id, s.registry.DefaultRequest(id))
		emit(ScanEntry{ID: id, Result: probeResult(frame, err)})
		if err != nil && Fatal(err) {
			return err
		}
	}
	return nil
}

// ScanRange probes every data id from from to to inclusive
func (s *Scanner) ScanRange(ctx context.Context, from, to uint8, emit func(ScanEntry)) error {
	for id := int(from); id <= int(to); id++ {
		frame, err := s.session.Read(ctx, uint8(id), s.registry.DefaultRequest(uint8(id)))
		emit(ScanEntry{ID: uint8(id), Result: probeResult(frame, err)})
		if err != nil && Fatal(err) {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanTSP(ctx context.Context, count uint8, emit func(ScanEntry)) error {
	for idx := 0; idx < int(count); idx++ {
		frame, err := s.session.Read(ctx, IDTSPEntry, uint16(idx)<<8)
		emit(ScanEntry{ID: IDTSPEntry, TSP: true, Index: uint8(idx), Result: probeResult(frame, err)})
		if err != nil && Fatal(err) {
			return err
		}
	}
	return nil
}

func probeResult(frame Frame, err error) ExchangeResult {
	return ExchangeResult{Kind: frame.Type(), Value: frame.Value(), Err: err}
}
