// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Statistics tracks frame statistics and error rates for a feed
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames     uint64
	MasterFrames    uint64
	SlaveFrames     uint64
	ByType          [8]uint64
	PairedExchanges uint64
	UnpairedSlave   uint64
	ParityErrors    uint64
	DecodeErrors    uint64
	SkippedLines    uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec

	lastRequestID int // data id of the pending master frame, -1 when none
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
		lastRequestID:  -1,
	}
}

// Update updates statistics from one parsed feed line
func (s *Statistics) Update(frame FeedFrame, parseErr error) {
	if parseErr != nil {
		if errors.Is(parseErr, ErrSkipLine) {
			s.SkippedLines++
			return
		}
		s.TotalFrames++
		if strings.HasPrefix(parseErr.Error(), "parity error") {
			s.ParityErrors++
		} else {
			s.DecodeErrors++
		}
		return
	}

	s.TotalFrames++
	s.ByType[frame.Frame.Type()&0x7]++
	switch frame.Source {
	case 'T':
		s.MasterFrames++
		s.lastRequestID = int(frame.Frame.DataID())
	case 'B':
		s.SlaveFrames++
		if s.lastRequestID == int(frame.Frame.DataID()) {
			s.PairedExchanges++
		} else {
			s.UnpairedSlave++
		}
		s.lastRequestID = -1
	}

	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.ParityErrors + s.DecodeErrors
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var masterPercent, slavePercent, parityPercent, decodePercent float64
	if s.TotalFrames > 0 {
		masterPercent = float64(s.MasterFrames) * 100.0 / float64(s.TotalFrames)
		slavePercent = float64(s.SlaveFrames) * 100.0 / float64(s.TotalFrames)
		parityPercent = float64(s.ParityErrors) * 100.0 / float64(s.TotalFrames)
		decodePercent = float64(s.DecodeErrors) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Master Frames:   %8d (%.1f%%)\n", s.MasterFrames, masterPercent)
	result += fmt.Sprintf("Slave Frames:    %8d (%.1f%%)\n", s.SlaveFrames, slavePercent)

	for t, n := range s.ByType {
		if n > 0 {
			result += fmt.Sprintf("  %-16s %5d\n", MsgType(t).String()+":", n)
		}
	}

	result += fmt.Sprintf("Paired Exchanges:%8d\n", s.PairedExchanges)
	if s.UnpairedSlave > 0 {
		result += fmt.Sprintf("Unpaired Slave:  %8d\n", s.UnpairedSlave)
	}
	if s.ParityErrors > 0 {
		result += fmt.Sprintf("Parity Errors:   %8d (%.1f%%)\n", s.ParityErrors, parityPercent)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", s.DecodeErrors, decodePercent)
	}
	if s.SkippedLines > 0 {
		result += fmt.Sprintf("Skipped Lines:   %8d\n", s.SkippedLines)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalFrames = 0
	s.MasterFrames = 0
	s.SlaveFrames = 0
	s.ByType = [8]uint64{}
	s.PairedExchanges = 0
	s.UnpairedSlave = 0
	s.ParityErrors = 0
	s.DecodeErrors = 0
	s.SkippedLines = 0
	s.FrameRate = 0
	s.ErrorRate = 0
	s.lastRequestID = -1
}
