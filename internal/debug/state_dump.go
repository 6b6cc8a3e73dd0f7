package debug

import (
	"github.com/davecgh/go-spew/spew"

	"gones/internal/bus"
)

// stateDumpConfig renders CPU/PPU/APU snapshots as compact, deterministic
// trees: no pointer addresses or capacities, since those vary run to run and
// would make the dumped text useless for diffing between sessions.
var stateDumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// DumpCPUState renders a CPU state snapshot for CPU-tracing diagnostics.
func DumpCPUState(state bus.CPUState) string {
	return "CPU state:\n" + stateDumpConfig.Sdump(state)
}

// DumpPPUState renders a PPU state snapshot for PPU-debugging diagnostics.
func DumpPPUState(state bus.PPUState) string {
	return "PPU state:\n" + stateDumpConfig.Sdump(state)
}

// DumpAPUState renders an APU state snapshot alongside CPU/PPU tracing, since
// audio desync is easiest to spot next to the frame and cycle it happened on.
func DumpAPUState(state bus.APUState) string {
	return "APU state:\n" + stateDumpConfig.Sdump(state)
}
