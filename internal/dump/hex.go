// internal/dump/hex.go
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Row geometry of the operator dump.
const (
	BytesPerRow   = 32
	BytesPerGroup = 8
)

// lineWidth is the rendered width of one data row:
// address columns (11 + 11) + one space per group + 3 chars per byte.
const lineWidth = 22 + BytesPerRow/BytesPerGroup + BytesPerRow*3

const (
	titleBegin = "--- MEDIUM DUMP ---"
	titleEnd   = "--- END OF MEDIUM ---"
)

// Hex renders data as rows of 32 bytes in groups of 8, framed by hex and
// decimal addresses of the first and last byte of each row.
// Output is for humans only; nothing parses it back.
func Hex(w io.Writer, data []byte) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, centered(titleBegin))
	fmt.Fprintf(bw, "   Hex  Dec%s   Dec  Hex\n", strings.Repeat(" ", lineWidth-22))

	for row := 0; row*BytesPerRow < len(data); row++ {
		first := row * BytesPerRow
		last := first + BytesPerRow - 1

		fmt.Fprintf(bw, "  %04X %04d", first, first)
		for i := 0; i < BytesPerRow; i++ {
			if i%BytesPerGroup == 0 {
				bw.WriteByte(' ')
			}
			if loc := first + i; loc < len(data) {
				fmt.Fprintf(bw, " %02X", data[loc])
			} else {
				bw.WriteString("   ")
			}
		}
		fmt.Fprintf(bw, "  %04d %04X\n", last, last)
	}

	fmt.Fprintln(bw, centered(titleEnd))
	return bw.Flush()
}

func centered(s string) string {
	pad := (lineWidth - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
