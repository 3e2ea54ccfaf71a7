package display

// 3x5 glyphs, one byte per row, bit 2 is the leftmost column
var glyphs = map[rune][5]uint8{
	'0': {7, 5, 5, 5, 7},
	'1': {2, 6, 2, 2, 7},
	'2': {7, 1, 7, 4, 7},
	'3': {7, 1, 7, 1, 7},
	'4': {5, 5, 7, 1, 1},
	'5': {7, 4, 7, 1, 7},
	'6': {7, 4, 7, 5, 7},
	'7': {7, 1, 1, 2, 2},
	'8': {7, 5, 7, 5, 7},
	'9': {7, 5, 7, 1, 7},
	'%': {5, 1, 2, 4, 5},
	'B': {6, 5, 6, 5, 6},
	'C': {7, 4, 4, 4, 7},
	'D': {6, 5, 5, 5, 6},
	'H': {5, 5, 7, 5, 5},
	'M': {5, 7, 7, 5, 5},
	'P': {7, 5, 7, 4, 4},
	'R': {6, 5, 6, 5, 5},
	'S': {7, 4, 7, 1, 7},
	'T': {7, 2, 2, 2, 2},
	'V': {5, 5, 5, 5, 2},
	'W': {5, 5, 7, 7, 5},
	'Y': {5, 5, 2, 2, 2},
	'?': {7, 1, 2, 0, 2},
	' ': {0, 0, 0, 0, 0},
}

const (
	glyphWidth  = 3
	glyphHeight = 5
	glyphGap    = 1
)

// TextWidth is the number of columns s occupies
func TextWidth(s string) int {
	n := len([]rune(s))
	if n == 0 {
		return 0
	}
	return n*(glyphWidth+glyphGap) - glyphGap
}
