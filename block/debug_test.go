package block

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dot5enko/supersonic/alloc"
)

func TestDumpViewIncludesColumnContents(t *testing.T) {
	b, err := NewBlock(alloc.Heap{}, testSchema(), 8)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	fillTestBlock(t, b)

	dump := DumpView(b.View())
	if !strings.Contains(dump, "col0") {
		t.Errorf("expected dump to mention the schema, got:\n%s", dump)
	}
}

func TestDumpArenaRoundTripsThroughLz4(t *testing.T) {
	b, err := NewBlock(alloc.Heap{}, testSchema(), 8)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	fillTestBlock(t, b)

	compressed, err := DumpArena(b.Arena)
	if err != nil {
		t.Fatalf("DumpArena: %v", err)
	}
	if len(compressed) == 0 {
		t.Fatalf("expected a non-empty compressed snapshot")
	}
	// lz4 frames start with the magic number 0x184D2204, little-endian.
	if !bytes.HasPrefix(compressed, []byte{0x04, 0x22, 0x4d, 0x18}) {
		t.Errorf("expected an lz4 frame header, got % x", compressed[:4])
	}
}
