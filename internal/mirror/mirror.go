// Package mirror defines the nametable mirroring mode shared by the
// cartridge and memory packages, so a cartridge's mirroring can be handed
// straight to PPU memory without a conversion step at the bus layer.
package mirror

// Mode represents nametable mirroring mode.
type Mode uint8

const (
	Horizontal Mode = iota
	Vertical
	SingleScreen0
	SingleScreen1
	FourScreen
)

func (m Mode) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleScreen0:
		return "single-screen-0"
	case SingleScreen1:
		return "single-screen-1"
	case FourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}
