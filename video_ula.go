// video_ula.go - ZX81 ULA raster and sync timing

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
video_ula.go - ZX81 ULA Video Timing Unit

The ULA is stepped one T-state at a time by the machine, which replays the
cycles each CPU instruction consumed. It does not read memory: the machine
hands it one pattern byte per character cell (LoadPattern) and the ULA shifts
it out at two pixels per T-state.

Signal Flow:
1. CPU executes the display file; each character becomes a NOP fetch
2. The refresh cycle after that fetch addresses the character pattern,
   which the machine passes to LoadPattern together with the inverse bit
3. Advance plots the shift register into the back buffer, counts the line,
   raises horizontal sync and, if the NMI generator is on, requests an NMI
4. The end of every sync pulse is measured to decide between new line,
   new frame or nothing
5. A new frame publishes the back buffer through a lock-free triple buffer
   so frontends can call GetFrame from their own goroutine

The ULA holds no reference to the CPU. NMI requests and frame completion are
latched and collected by the machine between instructions.
*/

package main

import (
	"sync/atomic"
	"unsafe"
)

// ULA81Engine is the ZX81 video timing unit.
type ULA81Engine struct {
	// Horizontal counter, free running over ULA81_LINE_CYCLES.
	hCounter     int
	hsyncPending bool
	hsync        bool
	vsync        bool

	// Width of the sync pulse in progress, in T-states.
	syncLen int

	rasterX int // T-states since the last line flyback
	rasterY int // lines since the last frame flyback

	rowCounter byte

	nmiEnabled    bool
	nmiRequest    bool
	frameComplete bool
	frames        uint64

	shift      byte
	shiftCount int
	inverse    bool

	// Triple-buffered frame output; writeIdx is owned by the emulation
	// goroutine, readingIdx by the single GetFrame caller.
	frameBufs  [3][]byte
	writeIdx   int
	sharedIdx  atomic.Int32
	readingIdx int
	fresh      atomic.Bool
}

// ULA81State is the serialisable part of the ULA, used by snapshots.
type ULA81State struct {
	HCounter     int
	HSyncPending bool
	HSync        bool
	VSync        bool
	SyncLen      int
	RasterX      int
	RasterY      int
	RowCounter   byte
	NMIEnabled   bool
	Frames       uint64
}

func NewULA81Engine() *ULA81Engine {
	u := &ULA81Engine{}
	bufSize := ULA81_FRAME_WIDTH * ULA81_FRAME_HEIGHT * 4
	for i := range u.frameBufs {
		u.frameBufs[i] = make([]byte, bufSize)
	}
	u.Reset()
	return u
}

// Reset returns the raster to the top-left with sync low and clears all
// frame buffers to paper.
func (u *ULA81Engine) Reset() {
	u.hCounter = 0
	u.hsyncPending = false
	u.hsync = false
	u.vsync = false
	u.syncLen = 0
	u.rasterX = 0
	u.rasterY = 0
	u.rowCounter = 0
	u.nmiEnabled = false
	u.nmiRequest = false
	u.frameComplete = false
	u.frames = 0
	u.shift = 0
	u.shiftCount = 0
	u.inverse = false
	for _, buf := range u.frameBufs {
		fillFrame(buf, ULA81_PAPER)
	}
	u.writeIdx = 0
	u.sharedIdx.Store(1)
	u.readingIdx = 2
	u.fresh.Store(false)
}

func fillFrame(buf []byte, colour uint32) {
	for i := 0; i < len(buf); i += 4 {
		*(*uint32)(unsafe.Pointer(&buf[i])) = colour
	}
}

// Advance runs the ULA for the given number of T-states.
func (u *ULA81Engine) Advance(cycles int) {
	for range cycles {
		u.tick()
	}
}

func (u *ULA81Engine) tick() {
	u.plot()
	u.rasterX++

	u.hCounter++
	if u.hCounter >= ULA81_LINE_CYCLES {
		u.hCounter = 0
		u.hsyncPending = true
	}
	if u.hsyncPending && u.hCounter >= ULA81_HSYNC_DELAY {
		u.hsyncPending = false
		u.hsync = true
		if u.vsync {
			u.rowCounter = 0
		} else {
			u.rowCounter = (u.rowCounter + 1) & (ULA81_CHAR_ROWS - 1)
		}
		if u.nmiEnabled {
			u.nmiRequest = true
		}
	}
	if u.hsync && u.hCounter >= ULA81_HSYNC_DELAY+ULA81_HSYNC_WIDTH {
		u.hsync = false
	}

	if u.hsync || u.vsync {
		u.syncLen++
	} else if u.syncLen > 0 {
		u.syncEnded(u.syncLen)
		u.syncLen = 0
	}

	if u.rasterX > ULA81_LINE_CYCLES+ULA81_LINE_TOLERANCE {
		u.newLine()
	}
	if u.rasterY > ULA81_FRAME_LINES+ULA81_FRAME_TOLERANCE {
		u.newFrame()
	}
}

// syncEnded classifies a finished sync pulse by its width and position.
func (u *ULA81Engine) syncEnded(width int) {
	switch {
	case width >= ULA81_HSYNC_MIN_WIDTH && width <= ULA81_HSYNC_MAX_WIDTH &&
		u.rasterX >= ULA81_LINE_CYCLES-ULA81_LINE_TOLERANCE:
		u.newLine()
	case width >= ULA81_VSYNC_MIN_WIDTH &&
		u.rasterY >= ULA81_FRAME_LINES-ULA81_FRAME_TOLERANCE:
		u.newFrame()
	}
}

func (u *ULA81Engine) newLine() {
	u.rasterX = 0
	u.rasterY++
}

func (u *ULA81Engine) newFrame() {
	u.rasterY = 0
	u.frameComplete = true
	u.frames++
	u.writeIdx = int(u.sharedIdx.Swap(int32(u.writeIdx)))
	u.fresh.Store(true)
	fillFrame(u.frameBufs[u.writeIdx], ULA81_PAPER)
}

// plot emits the two pixels for the current T-state.
func (u *ULA81Engine) plot() {
	var pixels [ULA81_PIXELS_PER_CYCLE]uint32
	for i := range pixels {
		switch {
		case u.hsync || u.vsync:
			pixels[i] = ULA81_SYNC
		case u.shiftCount > 0:
			ink := u.shift&0x80 != 0
			if ink != u.inverse {
				pixels[i] = ULA81_INK
			} else {
				pixels[i] = ULA81_PAPER
			}
		default:
			pixels[i] = ULA81_PAPER
		}
		if u.shiftCount > 0 {
			u.shift <<= 1
			u.shiftCount--
		}
	}

	x := (u.rasterX - ULA81_VIEW_X0) * ULA81_PIXELS_PER_CYCLE
	y := u.rasterY - ULA81_VIEW_Y0
	if x < 0 || x+ULA81_PIXELS_PER_CYCLE > ULA81_FRAME_WIDTH || y < 0 || y >= ULA81_FRAME_HEIGHT {
		return
	}
	buf := u.frameBufs[u.writeIdx]
	base := (y*ULA81_FRAME_WIDTH + x) * 4
	for i, p := range pixels {
		*(*uint32)(unsafe.Pointer(&buf[base+i*4])) = p
	}
}

// LoadPattern latches the next eight pixels. inverse swaps ink and paper
// for this cell.
func (u *ULA81Engine) LoadPattern(pattern byte, inverse bool) {
	u.shift = pattern
	u.shiftCount = 8
	u.inverse = inverse
}

// SetVSync drives the vertical sync level.
func (u *ULA81Engine) SetVSync(active bool) {
	u.vsync = active
	if active {
		u.rowCounter = 0
	}
}

func (u *ULA81Engine) StartVSync() { u.SetVSync(true) }
func (u *ULA81Engine) EndVSync()   { u.SetVSync(false) }

// VSync reports the vertical sync level.
func (u *ULA81Engine) VSync() bool {
	return u.vsync
}

// SyncLevel is the composite sync output, which is also what the ZX81
// puts on its tape socket.
func (u *ULA81Engine) SyncLevel() bool {
	return u.hsync || u.vsync
}

// SetNMIGenerator turns the per-line NMI generator on or off.
func (u *ULA81Engine) SetNMIGenerator(on bool) {
	u.nmiEnabled = on
}

func (u *ULA81Engine) NMIGenerator() bool {
	return u.nmiEnabled
}

// SyncLine restarts the horizontal counter, as an interrupt acknowledge
// does on the real chip, so the next horizontal sync follows after
// ULA81_HSYNC_DELAY T-states.
func (u *ULA81Engine) SyncLine() {
	u.hCounter = 0
	u.hsyncPending = true
	u.hsync = false
}

// RowCounter is the character row (0-7) used to address pattern bytes.
func (u *ULA81Engine) RowCounter() byte {
	return u.rowCounter
}

// TakeNMI returns and clears a pending NMI request.
func (u *ULA81Engine) TakeNMI() bool {
	req := u.nmiRequest
	u.nmiRequest = false
	return req
}

// TakeFrameComplete returns and clears the frame-complete flag.
func (u *ULA81Engine) TakeFrameComplete() bool {
	done := u.frameComplete
	u.frameComplete = false
	return done
}

// Frames counts completed frames since Reset.
func (u *ULA81Engine) Frames() uint64 {
	return u.frames
}

// Raster returns the current beam position (T-states, lines).
func (u *ULA81Engine) Raster() (x, y int) {
	return u.rasterX, u.rasterY
}

// =============================================================================
// Frame output
// =============================================================================

// GetFrame returns the most recently completed frame via lock-free
// triple-buffer swap. Without a new frame it returns the previous one again.
// The slice stays valid until the next GetFrame call.
func (u *ULA81Engine) GetFrame() []byte {
	if u.fresh.Swap(false) {
		u.readingIdx = int(u.sharedIdx.Swap(int32(u.readingIdx)))
	}
	return u.frameBufs[u.readingIdx]
}

// GetDimensions returns the frame dimensions.
func (u *ULA81Engine) GetDimensions() (w, h int) {
	return ULA81_FRAME_WIDTH, ULA81_FRAME_HEIGHT
}

// State captures the timing state for snapshots.
func (u *ULA81Engine) State() ULA81State {
	return ULA81State{
		HCounter:     u.hCounter,
		HSyncPending: u.hsyncPending,
		HSync:        u.hsync,
		VSync:        u.vsync,
		SyncLen:      u.syncLen,
		RasterX:      u.rasterX,
		RasterY:      u.rasterY,
		RowCounter:   u.rowCounter,
		NMIEnabled:   u.nmiEnabled,
		Frames:       u.frames,
	}
}

// SetState restores timing state captured by State.
func (u *ULA81Engine) SetState(s ULA81State) {
	u.hCounter = s.HCounter
	u.hsyncPending = s.HSyncPending
	u.hsync = s.HSync
	u.vsync = s.VSync
	u.syncLen = s.SyncLen
	u.rasterX = s.RasterX
	u.rasterY = s.RasterY
	u.rowCounter = s.RowCounter & (ULA81_CHAR_ROWS - 1)
	u.nmiEnabled = s.NMIEnabled
	u.frames = s.Frames
	u.nmiRequest = false
	u.frameComplete = false
}
