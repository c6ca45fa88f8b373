// zx81_charset.go - ZX81 character set and display file decoding

package main

const (
	ZX81_SYSVAR_D_FILE = 0x400C
	ZX81_NEWLINE       = 0x76
	ZX81_TEXT_ROWS     = 24
	ZX81_TEXT_COLS     = 32
)

// zx81Glyphs maps character codes 0-63 to the closest Unicode glyph.
var zx81Glyphs = [64]rune{
	' ', '▘', '▝', '▀', '▖', '▌', '▞', '▛', '▒', '▒', '▒', '"', '£', '$', ':', '?',
	'(', ')', '>', '<', '=', '+', '-', '*', '/', ';', ',', '.', '0', '1', '2', '3',
	'4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J',
	'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
}

// Inverse block graphics are themselves block graphics.
var zx81InverseBlocks = [8]rune{'█', '▟', '▙', '▄', '▜', '▐', '▚', '▗'}

// zx81Glyph returns the glyph for a display code and whether it should be
// shown in reverse video. Codes 64-127 never appear in a display file.
func zx81Glyph(code byte) (r rune, inverse bool) {
	inverse = code&0x80 != 0
	c := code & 0x3F
	if code&0x40 != 0 {
		return '?', inverse
	}
	if inverse && c < 8 {
		return zx81InverseBlocks[c], false
	}
	return zx81Glyphs[c], inverse
}

// zx81TextScreen is the display file as character codes.
type zx81TextScreen [ZX81_TEXT_ROWS][ZX81_TEXT_COLS]byte

// zx81DecodeDisplay walks the display file from D_FILE. Collapsed lines,
// as used on machines with little RAM, are padded with spaces.
func zx81DecodeDisplay(peek func(addr uint16) byte) zx81TextScreen {
	var screen zx81TextScreen
	addr := uint16(peek(ZX81_SYSVAR_D_FILE)) | uint16(peek(ZX81_SYSVAR_D_FILE+1))<<8
	if peek(addr) == ZX81_NEWLINE {
		addr++
	}
	for row := range ZX81_TEXT_ROWS {
		col := 0
		for range ZX81_TEXT_COLS + 1 {
			c := peek(addr)
			addr++
			if c == ZX81_NEWLINE {
				break
			}
			if col < ZX81_TEXT_COLS {
				screen[row][col] = c
				col++
			}
		}
	}
	return screen
}

// Lines renders the screen as plain text, reverse video dropped.
func (s *zx81TextScreen) Lines() []string {
	lines := make([]string, ZX81_TEXT_ROWS)
	for row := range s {
		runes := make([]rune, ZX81_TEXT_COLS)
		for col, code := range s[row] {
			runes[col], _ = zx81Glyph(code)
		}
		lines[row] = string(runes)
	}
	return lines
}

// zx81TypedKeys maps host characters to the keys that produce them.
var zx81TypedKeys = map[rune][]string{
	' ':  {"space"},
	'\n': {"enter"},
	'\r': {"enter"},
	'.':  {"."},
	'\b': {"delete"},
	0x7F: {"delete"},
	'"':  {"shift", "p"},
	'$':  {"shift", "u"},
	'(':  {"shift", "i"},
	')':  {"shift", "o"},
	'-':  {"shift", "j"},
	'+':  {"shift", "k"},
	'=':  {"shift", "l"},
	'*':  {"shift", "b"},
	'/':  {"shift", "v"},
	'?':  {"shift", "c"},
	';':  {"shift", "x"},
	':':  {"shift", "z"},
	'<':  {"shift", "n"},
	'>':  {"shift", "m"},
	',':  {"shift", "."},
	'£':  {"shift", "space"},
}

// zx81KeysFor returns the key chord that types r, or nil.
func zx81KeysFor(r rune) []string {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return []string{string(r)}
	case r >= 'A' && r <= 'Z':
		return []string{string(r - 'A' + 'a')}
	}
	return zx81TypedKeys[r]
}
