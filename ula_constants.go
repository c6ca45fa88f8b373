// ula_constants.go - ZX81 ULA timing and raster constants

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
ula_constants.go - ZX81 ULA Video Timing Constants

The ZX81 ULA has no frame or line registers. It recognises lines and frames
purely from the width of the sync pulses it produces, so the raster position
is recovered the way a television does: a short pulse near the end of a line
starts a new line, a long pulse near the end of a field starts a new frame,
and hard ceilings force a flyback when no pulse turns up.

Timing (3.25 MHz, PAL):
  - Line: 207 T-states, two pixels per T-state
  - Horizontal sync: raised 10 T-states after the line wraps, 16 T-states wide
  - Frame: nominally 312 lines
  - Vertical sync: as long as the CPU keeps it raised (IN from port FE
    with the NMI generator off starts it, any OUT ends it)

Visible window:
  - 320x256 pixels: 256x192 display file plus a 32 pixel border
  - The window starts 24 T-states after the end of horizontal sync and
    24 lines after the end of vertical sync
*/

package main

// Line and frame timing, in T-states and lines.
const (
	ULA81_LINE_CYCLES  = 207
	ULA81_HSYNC_DELAY  = 10
	ULA81_HSYNC_WIDTH  = 16
	ULA81_FRAME_LINES  = 312
	ULA81_CPU_CLOCK_HZ = 3250000
)

// Sync discrimination windows.
const (
	ULA81_HSYNC_MIN_WIDTH = 8
	ULA81_HSYNC_MAX_WIDTH = 32
	ULA81_LINE_TOLERANCE  = 30

	ULA81_VSYNC_MIN_WIDTH = 170
	ULA81_FRAME_TOLERANCE = 100
)

// Visible raster.
const (
	ULA81_PIXELS_PER_CYCLE = 2

	ULA81_FRAME_WIDTH  = 320
	ULA81_FRAME_HEIGHT = 256

	// Offset of the visible window from the end of the sync pulses.
	ULA81_VIEW_X0 = 24 // T-states
	ULA81_VIEW_Y0 = 24 // lines

	ULA81_CHAR_ROWS = 8
)

// Colours as packed little-endian RGBA.
const (
	ULA81_INK   uint32 = 0xFF000000
	ULA81_PAPER uint32 = 0xFFFFFFFF
	ULA81_SYNC  uint32 = 0xFF000000
)
