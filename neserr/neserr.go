// Package neserr defines the sentinel error kinds shared across the core.
//
// The original nesdev core (see original_source/core/include/nesdev/core/exceptions.h)
// models these as an Exception class hierarchy (InvalidAddress, InvalidOpcode,
// InvalidHeader, NotImplemented) thrown across the call stack. Go has no exceptions,
// so each kind is a sentinel error wrapped with fmt.Errorf and matched with errors.Is.
package neserr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Use errors.Is against these, not string comparison.
var (
	// ErrInvalidHeader means the iNES magic didn't match or a size field was impossible.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrInvalidROM means the cartridge requested an unsupported mapper or has
	// internally inconsistent chip sizing.
	ErrInvalidROM = errors.New("invalid rom")
	// ErrInvalidAddress means no bank on a bus claimed an address. This should never
	// happen for a valid cartridge; it indicates a defect in bus wiring.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidOpcode is reserved for strict decode modes; default CPU behavior is
	// NOP-with-cycles rather than returning this.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrNotImplemented is raised by synthetic memory banks that don't support Data().
	ErrNotImplemented = errors.New("not implemented")
)

// Address wraps ErrInvalidAddress with the offending address and an operation label,
// mirroring InvalidAddress::Occur's "[0xADDR]" suffix.
func Address(op string, addr uint16) error {
	return fmt.Errorf("%s: [0x%04X]: %w", op, addr, ErrInvalidAddress)
}

// Opcode wraps ErrInvalidOpcode with the offending byte.
func Opcode(op string, b uint8) error {
	return fmt.Errorf("%s: [0x%02X]: %w", op, b, ErrInvalidOpcode)
}

// Header wraps ErrInvalidHeader with a reason.
func Header(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidHeader)
}

// ROM wraps ErrInvalidROM with a reason.
func ROM(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidROM)
}

// NotImplemented wraps ErrNotImplemented with a component label.
func NotImplemented(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotImplemented)
}
