// Package gones wires the cartridge, bus, CPU, PPU, and scheduler into a
// single host-facing system, per spec.md §6/§9.
package gones

import (
	"fmt"

	"github.com/tpeterson/gones/internal/bus"
	"github.com/tpeterson/gones/internal/cart"
	"github.com/tpeterson/gones/internal/controller"
	"github.com/tpeterson/gones/internal/cpu"
	"github.com/tpeterson/gones/internal/diag"
	"github.com/tpeterson/gones/internal/mapper"
	"github.com/tpeterson/gones/internal/ppu"
	"github.com/tpeterson/gones/internal/scheduler"
	"github.com/tpeterson/gones/internal/trace"
)

// Options configures optional host-visible behavior that has no bearing on
// emulation correctness.
type Options struct {
	// DumpInstructions, when set, receives every executed instruction's
	// trace entry as it's produced.
	DumpInstructions func(trace.Entry)
	// HistoryLength is the capacity of the retained instruction trace
	// ring; 0 disables history retention.
	HistoryLength int
	// SpriteOrderOverlay is kept in the System's options for a debug
	// overlay host driver. The core does not read it: FrameBuffer always
	// holds composited colors, never OAM indices.
	SpriteOrderOverlay bool
}

// System is the top-level aggregate: a loaded cartridge plus every component
// wired over it. There are no hidden globals or long-lived back-pointers
// outside this struct.
type System struct {
	Mapper mapper.Mapper
	Bus    *bus.Bus
	CPU    *cpu.CPU
	PPU    *ppu.PPU

	scheduler *scheduler.Scheduler
	history   *trace.History
	opts      Options
}

// New loads romData as an iNES image and wires a complete System over it.
func New(romData []uint8, opts Options) (*System, error) {
	rom, err := cart.Load(romData)
	if err != nil {
		return nil, &diag.CartridgeError{Reason: "header/body parse", Err: err}
	}
	m, err := mapper.New(rom)
	if err != nil {
		return nil, &diag.CartridgeError{Reason: "mapper construction", Err: err}
	}

	p := ppu.New(m)
	b := bus.New(p, m)
	c, err := cpu.New(b)
	if err != nil {
		return nil, fmt.Errorf("power-on reset: %w", err)
	}

	history := trace.NewHistory(opts.HistoryLength)
	s := scheduler.New(c, p, history)
	s.DumpInstructions = opts.DumpInstructions

	return &System{
		Mapper:    m,
		Bus:       b,
		CPU:       c,
		PPU:       p,
		scheduler: s,
		history:   history,
		opts:      opts,
	}, nil
}

// Reset re-runs the CPU's reset sequence (reset-vector load, interrupt-disable
// set; SP and A/X/Y are left as they are) without re-parsing the cartridge or
// disturbing PPU/mapper state.
func (s *System) Reset() error {
	return s.CPU.Reset()
}

// AdvanceFrame runs the system until one full frame has been produced,
// returning the trace entry for the instruction that completed it.
func (s *System) AdvanceFrame() (trace.Entry, error) {
	return s.scheduler.AdvanceFrame()
}

// FrameBuffer exposes the PPU's most recently rendered frame as packed
// 0x00RRGGBB pixels, row-major, 256x240.
func (s *System) FrameBuffer() *[256 * 240]uint32 {
	return &s.PPU.FrameBuffer
}

// History returns the retained instruction trace ring, oldest first.
func (s *System) History() []trace.Entry {
	return s.history.Entries()
}

// SetControllerButton sets or clears one button on the given pad (1 or 2).
func (s *System) SetControllerButton(pad int, b controller.Button, pressed bool) error {
	switch pad {
	case 1:
		s.Bus.Pad1.SetButton(b, pressed)
	case 2:
		s.Bus.Pad2.SetButton(b, pressed)
	default:
		return &diag.InvariantError{Invariant: "controller port index must be 1 or 2", Context: pad}
	}
	return nil
}

// ReadByte performs a CPU-visible, side-effecting read of the given address.
func (s *System) ReadByte(addr uint16) (uint8, error) {
	v, err := s.Bus.Read(addr)
	if err != nil {
		return 0, &diag.BusError{Addr: addr, PC: s.CPU.PC, Err: err}
	}
	return v, nil
}

// WriteByte performs a CPU-visible write to the given address.
func (s *System) WriteByte(addr uint16, val uint8) error {
	if err := s.Bus.Write(addr, val); err != nil {
		return &diag.BusError{Addr: addr, Write: true, PC: s.CPU.PC, Err: err}
	}
	return nil
}

// PeekByte reads the given address without side effects, for diagnostics and
// test harnesses.
func (s *System) PeekByte(addr uint16) (uint8, error) {
	v, err := s.Bus.Peek(addr)
	if err != nil {
		return 0, &diag.BusError{Addr: addr, PC: s.CPU.PC, Err: err}
	}
	return v, nil
}
