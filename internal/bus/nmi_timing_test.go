package bus

import (
	"gones/internal/cartridge"
	"testing"
)

// TestStep_NMIPendingBeforeFetch_EntersHandlerInPlaceOfNextOpcode grounds the
// exact instruction boundary at which a latched NMI takes effect: if the bus
// already has a pending NMI when Step is called, that Step must enter the
// handler instead of fetching whatever opcode sits at the current PC. The
// deferred opcode's side effects (here, loading a known value into A) must
// not have happened, and the return address pushed by the handler must be
// the PC that was current when the NMI became pending, not the PC after an
// extra instruction ran.
func TestStep_NMIPendingBeforeFetch_EntersHandlerInPlaceOfNextOpcode(t *testing.T) {
	romData := make([]uint8, 0x8000)

	// Main program at $8000: LDA #$42 ; STA $10
	romData[0x0000] = 0xA9 // LDA #imm
	romData[0x0001] = 0x42
	romData[0x0002] = 0x85 // STA zp
	romData[0x0003] = 0x10

	// NMI handler at $9000: RTI
	romData[0x1000] = 0x40

	romData[0x7FFA] = 0x00 // NMI vector low  -> $9000
	romData[0x7FFB] = 0x90
	romData[0x7FFC] = 0x00 // Reset vector low -> $8000
	romData[0x7FFD] = 0x80

	cart := cartridge.NewMockCartridge()
	cart.LoadPRG(romData)

	b := New()
	b.LoadCartridge(cart)
	b.Reset()

	if b.CPU.PC != 0x8000 {
		t.Fatalf("expected reset PC=0x8000, got 0x%04X", b.CPU.PC)
	}

	// Simulate an NMI already latched at the bus level before this Step.
	b.nmiPending = true

	cyclesBefore := b.GetCycleCount()
	b.Step()
	cyclesAfter := b.GetCycleCount()

	if b.CPU.PC != 0x9000 {
		t.Fatalf("expected the handler to be entered on this Step (PC=0x9000), got 0x%04X", b.CPU.PC)
	}
	if got := cyclesAfter - cyclesBefore; got != 7 {
		t.Errorf("expected NMI entry to consume 7 CPU cycles, got %d", got)
	}

	// LDA must not have run: A is untouched and the zero-page target of the
	// STA that would have followed it is still zero.
	if b.CPU.A == 0x42 {
		t.Error("LDA #$42 executed before the NMI handler was entered; the opcode should have been deferred")
	}
	if b.Memory.Read(0x0010) == 0x42 {
		t.Error("STA $10 executed before the NMI handler was entered")
	}

	// The return address pushed on the stack must be the PC from before
	// this Step (0x8000), not 0x8002 (what it would be after LDA ran).
	sp := b.CPU.SP
	low := b.Memory.Read(0x0100 + uint16(sp) + 2)
	high := b.Memory.Read(0x0100 + uint16(sp) + 3)
	pushedPC := uint16(high)<<8 | uint16(low)
	if pushedPC != 0x8000 {
		t.Errorf("expected pushed return address 0x8000, got 0x%04X", pushedPC)
	}
}
