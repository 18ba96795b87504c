// Package diag implements the system's four error kinds (spec.md §7).
// DecodeError carries a trace history and BusError the PC of the access;
// none of them carries a CPU or PPU snapshot or a stack dump. The core does
// not construct DecodeError: an unknown opcode reaches the host as the
// wrapped cpu.ErrUnknownOpcode.
package diag

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/tpeterson/gones/internal/trace"
)

// CartridgeError reports a malformed cartridge image: bad magic, an
// unsupported mapper id, or a truncated file. Raised at load time; the
// system is left in its pre-load state.
type CartridgeError struct {
	Reason string
	Err    error
}

func (e *CartridgeError) Error() string {
	return fmt.Sprintf("cartridge: %s: %v", e.Reason, e.Err)
}
func (e *CartridgeError) Unwrap() error { return e.Err }

// DecodeError reports a fetched opcode byte with no table entry.
type DecodeError struct {
	PC      uint16
	Opcode  uint8
	History []trace.Entry
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: opcode $%02X at $%04X: %v", e.Opcode, e.PC, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// Dump renders the instruction history leading up to the failure.
func (e *DecodeError) Dump() string { return spew.Sdump(e.History) }

// BusError reports an access to an unmapped or forbidden region: the
// reserved $4018-$401F window, or a peek into undefined MMIO.
type BusError struct {
	Addr  uint16
	Write bool
	PC    uint16
	Err   error
}

func (e *BusError) Error() string {
	dir := "read"
	if e.Write {
		dir = "write"
	}
	return fmt.Sprintf("bus: %s $%04X at PC=$%04X: %v", dir, e.Addr, e.PC, e.Err)
}
func (e *BusError) Unwrap() error { return e.Err }

// InvariantError reports a programmer error the core detected in itself.
// The core raises it for an invalid controller port index; stack pointer
// wraparound is not checked and never raises it.
type InvariantError struct {
	Invariant string
	Context   any
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: %s", e.Invariant)
}

// Dump renders e.Context with go-spew for a human-readable diagnostic.
func (e *InvariantError) Dump() string { return spew.Sdump(e.Context) }

// CPUSnapshot is the minimal register-file capture cpu.CPU.Snapshot returns;
// the scheduler copies it into trace entries. None of the error types above
// embeds it.
type CPUSnapshot struct {
	PC          uint16
	A, X, Y, SP uint8
	Status      uint8
	Cycles      uint64
}

// Sdump renders any value (typically a CPUSnapshot or []trace.Entry) with
// go-spew, the same library the teacher's debugger used for CPU state.
func Sdump(v any) string { return spew.Sdump(v) }
