// Package scheduler implements advance-frame: the outer loop that steps the
// CPU one instruction at a time, runs the PPU exactly 3x that many dots,
// samples the NMI edge once per instruction boundary, and reports when a
// frame has completed. See spec.md §4.6.
package scheduler

import (
	"github.com/tpeterson/gones/internal/diag"
	"github.com/tpeterson/gones/internal/trace"
)

// CPU is the narrow surface the scheduler drives.
type CPU interface {
	Step() (int, error)
	EnterNMI() (int, error)
	PeekInstruction() (mnemonic string, bytes uint8, err error)
	Snapshot() diag.CPUSnapshot
}

// PPU is the narrow surface the scheduler drives.
type PPU interface {
	Tick()
	TakeNMI() bool
	Position() (row, col int)
}

// Scheduler owns no state of its own beyond the optional trace history; the
// CPU and PPU it's constructed with hold all emulated machine state.
type Scheduler struct {
	CPU CPU
	PPU PPU

	History *trace.History
	// DumpInstructions, when set, receives every trace entry as it's
	// produced (the --dump-instructions host option).
	DumpInstructions func(trace.Entry)
}

// New wires a Scheduler over an already-constructed CPU and PPU. history may
// be nil to disable trace retention (capacity 0 has the same effect).
func New(cpu CPU, ppu PPU, history *trace.History) *Scheduler {
	return &Scheduler{CPU: cpu, PPU: ppu, History: history}
}

// AdvanceFrame runs instructions until a frame boundary (the PPU crossing
// into row 240, the post-render line) is observed, returning the trace
// entry for the instruction that completed the frame.
func (s *Scheduler) AdvanceFrame() (trace.Entry, error) {
	for {
		entry, frameDone, err := s.step()
		if err != nil {
			return entry, err
		}
		if frameDone {
			return entry, nil
		}
	}
}

// step runs exactly one outer-loop iteration of spec.md §4.6's pseudocode:
// NMI sample, trace snapshot, one CPU instruction, then 3x that many PPU
// dots. It reports whether this iteration crossed into the post-render row.
func (s *Scheduler) step() (trace.Entry, bool, error) {
	if s.PPU.TakeNMI() {
		if _, err := s.CPU.EnterNMI(); err != nil {
			return trace.Entry{}, false, err
		}
	}

	entry, err := s.snapshot()
	if err != nil {
		return entry, false, err
	}
	if s.DumpInstructions != nil {
		s.DumpInstructions(entry)
	}
	if s.History != nil {
		s.History.Push(entry)
	}

	rowBefore, _ := s.PPU.Position()

	cyclesUsed, err := s.CPU.Step()
	if err != nil {
		return entry, false, err
	}

	frameDone := false
	for i := 0; i < 3*cyclesUsed; i++ {
		s.PPU.Tick()
		row, _ := s.PPU.Position()
		if row == 240 && rowBefore != 240 {
			frameDone = true
		}
		rowBefore = row
	}

	return entry, frameDone, nil
}

func (s *Scheduler) snapshot() (trace.Entry, error) {
	snap := s.CPU.Snapshot()
	mnemonic, _, err := s.CPU.PeekInstruction()
	if err != nil {
		return trace.Entry{}, err
	}
	row, col := s.PPU.Position()
	return trace.Entry{
		PC:       snap.PC,
		A:        snap.A,
		X:        snap.X,
		Y:        snap.Y,
		SP:       snap.SP,
		Status:   snap.Status,
		Cycles:   snap.Cycles,
		Mnemonic: mnemonic,
		PPURow:   row,
		PPUCol:   col,
	}, nil
}
