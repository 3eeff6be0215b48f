// internal/dump/hex_test.go
package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func sampleMedium() []byte {
	data := bytes.Repeat([]byte{0xFF}, 40)
	copy(data[0:], []byte{0xEA, 0x6B, 0x2C, 0x80, 0x00, 0x05, 0xFF, 0x01})
	copy(data[8:], []byte{0xEA, 0x6B, 0x2C, 0x80, 0x00, 0x00, 0xFF, 0x02})
	return data
}

func TestHex_Golden(t *testing.T) {
	var buf bytes.Buffer
	if err := Hex(&buf, sampleMedium()); err != nil {
		t.Fatalf("Hex() err=%v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "medium_40_bytes", buf.Bytes())
}

func TestHex_RowsAlign(t *testing.T) {
	var buf bytes.Buffer
	if err := Hex(&buf, bytes.Repeat([]byte{0x00}, 96)); err != nil {
		t.Fatalf("Hex() err=%v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// banner + header + 3 rows + footer
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	for _, l := range lines[2:5] {
		if len(l) != lineWidth {
			t.Fatalf("row width: got=%d want=%d: %q", len(l), lineWidth, l)
		}
	}
	if !strings.HasPrefix(lines[4], "  0040 0064") {
		t.Fatalf("unexpected third row prefix: %q", lines[4])
	}
}

func TestHex_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Hex(&buf, nil); err != nil {
		t.Fatalf("Hex() err=%v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Fatalf("expected banners and header only, got %d lines", n)
	}
}
