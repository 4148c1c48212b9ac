// Package mmu routes an address to the first memory bank that claims it.
//
// Grounded on original_source/core/src/detail/mmu.cc: an ordered list of
// banks, scanned with find_if for the first HasValidAddress match. Insertion
// order is the tie-break for overlapping ranges, so more specific (narrower)
// banks must be registered before broader ones — the same contract as the
// C++ MMU::Switch.
package mmu

import (
	"github.com/wbarlow/nescore/membank"
	"github.com/wbarlow/nescore/neserr"
)

// MMU is the CPU- or PPU-facing bus: a flat, ordered list of banks.
type MMU struct {
	banks []membank.Bank
}

// New returns an MMU with no banks registered.
func New() *MMU {
	return &MMU{}
}

// Add appends a bank to the end of the dispatch order.
func (m *MMU) Add(b membank.Bank) {
	m.banks = append(m.banks, b)
}

// Set replaces the entire bank list, in the given order.
func (m *MMU) Set(banks []membank.Bank) {
	m.banks = banks
}

func (m *MMU) lookup(addr uint16) membank.Bank {
	for _, b := range m.banks {
		if b.HasValidAddress(addr) {
			return b
		}
	}
	return nil
}

// Read dispatches to the first matching bank. A miss is a defect in bus
// wiring for any cartridge that passed ROM validation, so it is reported as
// neserr.ErrInvalidAddress rather than silently returning open bus here; the
// PPU register window is itself a Forward bank that implements open-bus
// semantics where the hardware specifies them.
func (m *MMU) Read(addr uint16) (uint8, error) {
	if b := m.lookup(addr); b != nil {
		return b.Read(addr)
	}
	return 0, neserr.Address("mmu.Read", addr)
}

// Write dispatches to the first matching bank.
func (m *MMU) Write(addr uint16, b uint8) error {
	if bank := m.lookup(addr); bank != nil {
		return bank.Write(addr, b)
	}
	return neserr.Address("mmu.Write", addr)
}
