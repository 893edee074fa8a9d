package jpeg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// A small canonical table: one symbol of length 1 and two of length 2,
// giving the codewords 0, 10 and 11 (BuildCodeTable doesn't validate
// the shape, it only assigns canonical codes).
func sampleSizes() [16]int {
	var s [16]int
	s[0] = 1 // one code of length 1
	s[1] = 2 // two codes of length 2
	return s
}

func TestBuildCodeTable(t *testing.T) {
	sizes := sampleSizes()
	values := []byte{0xA0, 0xA1, 0xA2}
	entries := BuildCodeTable(sizes, values)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	want := []CodeEntry{
		{Symbol: 0xA0, Code: 0b0, Length: 1},
		{Symbol: 0xA1, Code: 0b10, Length: 2},
		{Symbol: 0xA2, Code: 0b11, Length: 2},
	}
	if !cmp.Equal(entries, want) {
		t.Errorf("entries mismatch (-got +want):\n%s", cmp.Diff(entries, want))
	}
}

func TestParseDHTRoundTrip(t *testing.T) {
	orig := HuffmanTable{Class: 1, Index: 2, Sizes: sampleSizes(), Values: []byte{0x10, 0x20, 0x30}}
	buf := orig.Bytes()
	tables, err := ParseDHT(buf)
	if err != nil {
		t.Fatalf("ParseDHT: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	got := tables[0]
	if !cmp.Equal(got, orig) {
		t.Errorf("table mismatch (-got +want):\n%s", cmp.Diff(got, orig))
	}
}

func TestPairedCodecRoundTrip(t *testing.T) {
	oldTable := HuffmanTable{Sizes: sampleSizes(), Values: []byte{0x01, 0x02, 0x03}}
	newTable := HuffmanTable{Sizes: sampleSizes(), Values: []byte{0x03, 0x01, 0x02}}
	codec := newPairedCodec(oldTable, newTable)

	oldEntries := BuildCodeTable(oldTable.Sizes, oldTable.Values)
	for _, e := range oldEntries {
		n := codec.decode
		for i := e.Length - 1; i >= 0; i-- {
			if (e.Code>>uint(i))&1 == 0 {
				n = n.zero
			} else {
				n = n.one
			}
		}
		if !n.leaf || n.symbol != e.Symbol {
			t.Fatalf("decode trie did not resolve symbol 0x%02x", e.Symbol)
		}
		if _, ok := codec.encode[n.symbol]; !ok {
			t.Fatalf("encode map missing symbol 0x%02x", n.symbol)
		}
	}
}
